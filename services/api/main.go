package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/floatchat/argo-explorer/internal/observability"
	"github.com/floatchat/argo-explorer/services/api/chat"
	"github.com/floatchat/argo-explorer/services/api/config"
	"github.com/floatchat/argo-explorer/services/api/db"
	httpserver "github.com/floatchat/argo-explorer/services/api/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connection error: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	var generator chat.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := chat.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		generator = g
	} else {
		logger.Warn("GEMINI_API_KEY not set, /chat will answer 503")
	}

	srv := httpserver.New(cfg, store, generator, logger, clockwork.NewRealClock())
	logger.Info("REST API listening", "addr", cfg.ListenAddr(), "model", cfg.GeminiModel)

	return srv.Run(ctx)
}
