package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// ErrMissingAPIKey is returned when the client is used without a key.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set. Configure backend.api_key or the GEMINI_API_KEY environment variable")

// Client is a client for the Gemini API.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a new Gemini client. An empty apiKey yields a client
// whose calls fail with ErrMissingAPIKey, so the service can still start.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		return &Client{modelName: model}, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, modelName: model}, nil
}

// Complete sends prompt with the system instruction and returns the text of
// the first candidate. The model is asked for a JSON reply.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.client == nil {
		return "", ErrMissingAPIKey
	}

	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
