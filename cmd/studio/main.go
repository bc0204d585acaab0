// Package main is the entry point for the interactive garment studio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/uvstudio/internal/config"
	"github.com/Faultbox/uvstudio/internal/logger"
	"github.com/Faultbox/uvstudio/internal/studio"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== UV Studio ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := studio.New(cfg)
	if err != nil {
		logger.Error("failed to create studio", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	// A missing model is not fatal; artwork can still be composed.
	if err := app.LoadModel(cfg.Model.Path); err != nil {
		logger.Warn("model not loaded", zap.String("path", cfg.Model.Path), zap.Error(err))
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("studio error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("studio closed normally")
}
