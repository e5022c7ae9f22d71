package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Completer is the generative text backend.
type Completer interface {
	// Complete sends the system instruction and prompt and returns the
	// backend's text reply.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// GenerateEvent records the outcome of one Generate call.
type GenerateEvent struct {
	Mood    string
	Outcome string // "ok", "validation", "backend" or "parse"
	Latency time.Duration
}

// Observer receives generation events for metrics.
type Observer interface {
	OnGenerate(event GenerateEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnGenerate(GenerateEvent) {}

// Service generates recipes from moods.
type Service struct {
	backend  Completer
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithObserver sets the observer notified after every generation.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock overrides the time source used for recipe timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service backed by backend.
func NewService(backend Completer, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		backend:  backend,
		logger:   logger,
		observer: NoopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate validates req, asks the backend for a recipe and normalizes the
// reply. Errors are *Error values of kind ErrValidation, ErrBackend or
// ErrParse. There are no retries.
func (s *Service) Generate(ctx context.Context, req Request) (*Recipe, error) {
	start := time.Now()

	req.Mood = strings.TrimSpace(req.Mood)
	if req.Mood == "" {
		err := newError(ErrValidation, "Mood is required and must be a non-empty string", nil)
		s.finish(req, "validation", start, err)
		return nil, err
	}
	req.Allergies = cleanList(req.Allergies)
	req.Ingredients = cleanList(req.Ingredients)
	req.Cuisine = optional(req.Cuisine)
	req.DishType = optional(req.DishType)

	prompt := BuildPrompt(req)

	content, err := s.backend.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		s.finish(req, "backend", start, err)
		return nil, backendError(err)
	}
	if strings.TrimSpace(content) == "" {
		err := errors.New("no response from backend")
		s.finish(req, "backend", start, err)
		return nil, newError(ErrBackend, "No response from the recipe backend. Please try again.", err)
	}

	r, err := Normalize(content, req.Mood, s.now())
	if err != nil {
		s.finish(req, "parse", start, err)
		return nil, err
	}

	s.finish(req, "ok", start, nil)
	return r, nil
}

func (s *Service) finish(req Request, outcome string, start time.Time, err error) {
	latency := time.Since(start)
	s.observer.OnGenerate(GenerateEvent{Mood: req.Mood, Outcome: outcome, Latency: latency})

	fields := []zap.Field{
		zap.String("mood", req.Mood),
		zap.Int("allergies", len(req.Allergies)),
		zap.Int("ingredients", len(req.Ingredients)),
		zap.String("cuisine", req.Cuisine),
		zap.String("dish_type", req.DishType),
		zap.String("outcome", outcome),
		zap.Duration("latency", latency),
	}
	if err != nil {
		s.logger.Warn("recipe generation failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("recipe generated", fields...)
}

// backendError keeps the backend's own message, which names the problem
// (missing key, unreachable host), and falls back to a generic one.
func backendError(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) && errors.Is(classified, ErrBackend) {
		return classified
	}
	msg := err.Error()
	if msg == "" {
		msg = "Failed to generate recipe. Please try again."
	}
	return newError(ErrBackend, msg, err)
}
