package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"moodchef/internal/app"
	"moodchef/internal/cli"
	"moodchef/internal/config"
	"moodchef/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("MOODCHEF_CONFIG"))
	if err != nil {
		return err
	}

	// The CLI only logs warnings unless configured otherwise.
	level := cfg.App.LogLevel
	if level == "info" {
		level = "warn"
	}
	log := logger.New(logger.Config{Level: level, Format: "console", Development: cfg.App.Development})
	defer log.Sync() //nolint:errcheck

	if !cfg.App.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	root := cli.NewRootCmd(&cli.App{
		Generator: a.Service,
		Store:     a.Store,
		Serve:     a.Serve,
		Out:       os.Stdout,
	})
	return root.ExecuteContext(ctx)
}
