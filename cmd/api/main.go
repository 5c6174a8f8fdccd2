package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oddspulse/oddspulse/internal/app"
	"github.com/oddspulse/oddspulse/internal/config"
	"github.com/oddspulse/oddspulse/internal/observability"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("api exited", "error", err)
		os.Exit(1)
	}
	logger.Info("http server stopped")
}

func run(cfg config.Config, logger *logging.Logger) error {
	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return err
	}
	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return err
	}
	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	srv, err := application.HTTPServer()
	if err != nil {
		_ = application.Close()
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Error("stop pprof server", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}
	if err := application.Close(); err != nil {
		logger.Error("close app", "error", err)
	}
	return nil
}
