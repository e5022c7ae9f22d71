package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moodchef/internal/app"
	"moodchef/internal/config"
	"moodchef/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.json (default: ./config.json or ./config/config.json)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Development,
	})
	defer log.Sync() //nolint:errcheck

	if !cfg.App.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info("starting moodchef api",
		zap.String("backend", cfg.Backend.Provider),
		zap.String("store", cfg.Store.Kind),
	)
	return a.Serve(ctx)
}
