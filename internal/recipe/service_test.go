package recipe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCompleter is a mock implementation of Completer.
type MockCompleter struct {
	Content string
	Err     error

	Calls      int
	LastSystem string
	LastPrompt string
}

// Complete mocks the Complete method.
func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.Calls++
	m.LastSystem = system
	m.LastPrompt = prompt
	return m.Content, m.Err
}

type recordingObserver struct {
	events []GenerateEvent
}

func (o *recordingObserver) OnGenerate(e GenerateEvent) {
	o.events = append(o.events, e)
}

func newTestService(backend Completer, obs Observer) *Service {
	return NewService(backend, nil, WithObserver(obs), WithClock(func() time.Time { return fixedNow }))
}

func TestGenerate_EndToEnd(t *testing.T) {
	backend := &MockCompleter{
		Content: `{"name":"Spiced Tea","ingredients":["tea","honey"],"instructions":["Steep tea"],"explanation":"Warm and comforting"}`,
	}
	obs := &recordingObserver{}
	svc := newTestService(backend, obs)

	r, err := svc.Generate(context.Background(), Request{
		Mood:        "cozy",
		Allergies:   []string{"peanuts"},
		Ingredients: []string{"tea"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Spiced Tea", r.Name)
	assert.Equal(t, []string{"tea", "honey"}, r.Ingredients)
	assert.Equal(t, []string{"Steep tea"}, r.Instructions)
	assert.Equal(t, "Warm and comforting", r.Explanation)
	assert.Equal(t, "cozy", r.Mood)
	assert.Equal(t, fixedNow.UnixMilli(), r.Timestamp)

	assert.Equal(t, 1, backend.Calls)
	assert.Equal(t, SystemPrompt, backend.LastSystem)
	assert.Contains(t, backend.LastPrompt, "peanuts")
	assert.Contains(t, backend.LastPrompt, "MUST incorporate")

	require.Len(t, obs.events, 1)
	assert.Equal(t, "ok", obs.events[0].Outcome)
	assert.Equal(t, "cozy", obs.events[0].Mood)
}

func TestGenerate_EmptyMood(t *testing.T) {
	for _, mood := range []string{"", "   ", "\t\n"} {
		backend := &MockCompleter{Content: `{}`}
		obs := &recordingObserver{}

		_, err := newTestService(backend, obs).Generate(context.Background(), Request{Mood: mood})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Mood is required and must be a non-empty string", err.Error())
		assert.Zero(t, backend.Calls, "backend must not be called")

		require.Len(t, obs.events, 1)
		assert.Equal(t, "validation", obs.events[0].Outcome)
	}
}

func TestGenerate_TrimsMoodAndOptions(t *testing.T) {
	backend := &MockCompleter{Content: `{"name":"X"}`}

	r, err := newTestService(backend, nil).Generate(context.Background(), Request{
		Mood:      "  tired ",
		Allergies: []string{" ", ""},
		Cuisine:   "Any",
		DishType:  "  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "tired", r.Mood)
	assert.Equal(t, BuildPrompt(Request{Mood: "tired"}), backend.LastPrompt)
}

func TestGenerate_BackendError(t *testing.T) {
	backend := &MockCompleter{Err: errors.New("connection refused")}
	obs := &recordingObserver{}

	_, err := newTestService(backend, obs).Generate(context.Background(), Request{Mood: "happy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Equal(t, "connection refused", err.Error())

	require.Len(t, obs.events, 1)
	assert.Equal(t, "backend", obs.events[0].Outcome)
}

func TestGenerate_BackendErrorKeepsClassifiedMessage(t *testing.T) {
	classified := newError(ErrBackend, "API key is not configured", nil)
	backend := &MockCompleter{Err: classified}

	_, err := newTestService(backend, nil).Generate(context.Background(), Request{Mood: "happy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Equal(t, "API key is not configured", err.Error())
}

func TestGenerate_EmptyContent(t *testing.T) {
	for _, content := range []string{"", "   \n"} {
		_, err := newTestService(&MockCompleter{Content: content}, nil).Generate(context.Background(), Request{Mood: "happy"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBackend)
		assert.Equal(t, "No response from the recipe backend. Please try again.", err.Error())
	}
}

func TestGenerate_ParseError(t *testing.T) {
	obs := &recordingObserver{}

	_, err := newTestService(&MockCompleter{Content: "Sorry, I can't do that."}, obs).Generate(context.Background(), Request{Mood: "happy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)

	var classified *Error
	require.ErrorAs(t, err, &classified)
	assert.Contains(t, classified.Message, "API key")

	require.Len(t, obs.events, 1)
	assert.Equal(t, "parse", obs.events[0].Outcome)
}

func TestGenerate_PartialResponseDefaults(t *testing.T) {
	r, err := newTestService(&MockCompleter{Content: `{"name":"X"}`}, nil).Generate(context.Background(), Request{Mood: "lazy"})
	require.NoError(t, err)

	assert.Equal(t, "X", r.Name)
	assert.Equal(t, []string{}, r.Ingredients)
	assert.Equal(t, []string{}, r.Instructions)
	assert.Equal(t, DefaultExplanation, r.Explanation)
}

func TestGenerate_NoIDAssigned(t *testing.T) {
	r, err := newTestService(&MockCompleter{Content: `{"name":"X","id":"abc"}`}, nil).Generate(context.Background(), Request{Mood: "lazy"})
	require.NoError(t, err)
	assert.Empty(t, r.ID)
}
