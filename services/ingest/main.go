package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/floatchat/argo-explorer/internal/database"
	"github.com/floatchat/argo-explorer/internal/observability"
	"github.com/floatchat/argo-explorer/services/ingest/internal/argo"
	"github.com/floatchat/argo-explorer/services/ingest/internal/config"
	"github.com/floatchat/argo-explorer/services/ingest/internal/db"
	"github.com/floatchat/argo-explorer/services/ingest/internal/runner"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewIngestMetrics()
	ctx := context.Background()

	var store runner.Inserter
	if !cfg.DryRun {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		store = db.NewStore(pool, logger)
	}

	r := runner.New(runner.OpenNetCDF, store, logger, metrics, clockwork.NewRealClock(), runner.Options{
		Extension: cfg.Extension,
		Extract:   argo.Options{EpochMillisThreshold: cfg.EpochMillisThreshold},
		DryRun:    cfg.DryRun,
	})

	summary, err := r.Run(ctx, cfg.Root)
	if err != nil {
		return err
	}

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(cfg.PushgatewayURL, "argo_ingest"); err != nil {
			logger.Warn("push metrics", "url", cfg.PushgatewayURL, "error", err)
		}
	}

	fmt.Printf("All done. Total rows inserted: %d (files=%d ingested=%d skipped=%d failed=%d)\n",
		summary.TotalRows, summary.Files, summary.Ingested, summary.Skipped, summary.Failed)
	return nil
}
