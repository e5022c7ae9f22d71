package localllm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Defaults for an OpenAI-hosted backend.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// ErrMissingAPIKey is returned when the hosted OpenAI API is used without a key.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set. Configure backend.api_key or the OPENAI_API_KEY environment variable")

// Config configures a Client.
type Config struct {
	BaseURL     string // e.g. http://localhost:11434/v1 for Ollama
	APIKey      string // optional for local servers
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client represents a client for an OpenAI-compatible chat completions API.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// NewClient creates a new client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

// Request represents the request body for the chat completions endpoint.
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Message represents a message in the request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat asks the server for a JSON object reply.
type ResponseFormat struct {
	Type string `json:"type"`
}

// Response represents the response from the chat completions endpoint.
type Response struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice represents a choice in the response.
type Choice struct {
	Message Message `json:"message"`
}

// APIError is the error object OpenAI-compatible servers return.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Complete sends the system instruction and prompt and returns the content of
// the first choice, which is empty when the server returned none.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.cfg.APIKey == "" && c.cfg.BaseURL == DefaultBaseURL {
		return "", ErrMissingAPIKey
	}

	reqBody := Request{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var llmResp Response
	decodeErr := json.Unmarshal(body, &llmResp)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && llmResp.Error != nil && llmResp.Error.Message != "" {
			return "", fmt.Errorf("backend returned status %d: %s", resp.StatusCode, llmResp.Error.Message)
		}
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode response body: %w", decodeErr)
	}

	if len(llmResp.Choices) == 0 {
		return "", nil
	}
	return llmResp.Choices[0].Message.Content, nil
}
