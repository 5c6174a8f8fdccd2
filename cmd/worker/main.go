package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oddspulse/oddspulse/internal/app"
	"github.com/oddspulse/oddspulse/internal/config"
	"github.com/oddspulse/oddspulse/internal/observability"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("pipeline worker starting", "interval", cfg.PipelineInterval)
	runCycle(ctx, application, logger)

	ticker := time.NewTicker(cfg.PipelineInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := shutdownUptrace(shutdownCtx); err != nil {
				logger.Error("shutdown uptrace", "error", err)
			}
			cancel()
			if err := application.Close(); err != nil {
				logger.Error("close app", "error", err)
			}
			logger.Info("pipeline worker stopped")
			return
		case <-ticker.C:
			runCycle(ctx, application, logger)
		}
	}
}

func runCycle(ctx context.Context, application *app.App, logger *logging.Logger) {
	result, err := application.Pipeline.RunCycle(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "pipeline cycle failed", "error", err)
		return
	}
	if result.Skipped {
		return
	}
	logger.InfoContext(ctx, "pipeline cycle finished",
		"games_finished", result.Resolution.GamesFinished,
		"outcomes_updated", result.Resolution.OutcomesUpdated,
		"games_upserted", result.Ingest.GamesUpserted,
		"events_inserted", result.Ingest.EventsInserted,
		"games_deleted", result.Retention.GamesDeleted,
	)
}
