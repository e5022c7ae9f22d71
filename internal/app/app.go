// Package app wires configuration into the backend, the recipe store and the
// HTTP server. Both binaries start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"moodchef/internal/api"
	"moodchef/internal/config"
	"moodchef/internal/metrics"
	"moodchef/internal/platform/gemini"
	"moodchef/internal/platform/localllm"
	"moodchef/internal/recipe"
)

// App holds the wired components.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Service *recipe.Service
	Store   *recipe.Store
	Metrics *metrics.Metrics

	closers []func() error
}

// New builds every component described by cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Metrics: metrics.New()}

	backend, err := a.newBackend(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	slot, err := a.newSlot(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Service = recipe.NewService(backend, logger.Named("generator"), recipe.WithObserver(a.Metrics))
	a.Store = recipe.NewStore(slot, logger.Named("store"))
	return a, nil
}

func (a *App) newBackend(ctx context.Context) (recipe.Completer, error) {
	b := a.Config.Backend
	switch b.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, b.APIKey, b.Model)
		if err != nil {
			return nil, fmt.Errorf("error creating gemini client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return client, nil
	case config.ProviderOpenAI:
		return localllm.NewClient(localllm.Config{
			BaseURL:     b.BaseURL,
			APIKey:      b.APIKey,
			Model:       b.Model,
			Temperature: b.Temperature,
			MaxTokens:   b.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q", b.Provider)
	}
}

func (a *App) newSlot(ctx context.Context) (recipe.Slot, error) {
	s := a.Config.Store
	switch s.Kind {
	case config.StoreMemory:
		return recipe.NewMemorySlot(), nil
	case config.StoreSQLite:
		slot, err := recipe.NewSQLSlot(recipe.DriverSQLite, s.Path)
		if err != nil {
			return nil, fmt.Errorf("error opening sqlite store: %w", err)
		}
		a.closers = append(a.closers, slot.Close)
		return slot, nil
	case config.StorePostgres:
		slot, err := recipe.NewSQLSlot(recipe.DriverPostgres, s.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("error opening postgres store: %w", err)
		}
		a.closers = append(a.closers, slot.Close)
		return slot, nil
	case config.StoreRedis:
		slot, err := recipe.DialRedisSlot(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("error opening redis store: %w", err)
		}
		a.closers = append(a.closers, slot.Close)
		return slot, nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", s.Kind)
	}
}

// Handler builds the HTTP handler for the configured server.
func (a *App) Handler() http.Handler {
	h := api.NewHandler(a.Service, a.Store, api.Timeouts{
		Generate: a.Config.Server.GenerateTimeout,
		Store:    a.Config.Server.StoreTimeout,
	}, a.Logger.Named("http"))

	return api.NewRouter(h, api.RouterConfig{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		Observer:       a.Metrics,
		Metrics:        a.Metrics.Handler(),
	})
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Server.Address,
		Handler:           a.Handler(),
		ReadHeaderTimeout: a.Config.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", zap.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(a.Config))
	defer cancel()
	a.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Close releases backend and store connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
