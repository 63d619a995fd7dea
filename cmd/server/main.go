package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/facwise/facalloc/internal/config"
	"github.com/facwise/facalloc/internal/core"
	"github.com/facwise/facalloc/internal/logging"
	"github.com/facwise/facalloc/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_concurrent_runs", cfg.Upload.MaxConcurrentRuns,
		"run_retention", cfg.Upload.RunRetention,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Load faculty code table (built-in defaults plus optional overrides)
	codes, err := core.LoadCodes(cfg.Allocation.CodesFile)
	if err != nil {
		slog.Error("failed to load faculty codes", "file", cfg.Allocation.CodesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("faculty codes loaded", "count", len(codes))

	// Create service with config
	service := core.NewService(codes, core.ServiceOptions{
		OutputDir:     cfg.Allocation.OutputDir,
		Retention:     cfg.Upload.RunRetention,
		MaxConcurrent: cfg.Upload.MaxConcurrentRuns,
		MaxWait:       cfg.Upload.MaxWaitTime,
	})

	// Create server with config
	server := web.NewServer(cfg, service)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for in-flight allocation runs to complete (with timeout)
		status := service.LimiterStatus()
		if status.Active > 0 {
			slog.Info("waiting for runs to complete", "active", status.Active)
			if err := service.WaitForRuns(shutdownCtx); err != nil {
				slog.Warn("runs did not complete in time", "error", err)
			} else {
				slog.Info("all runs completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
