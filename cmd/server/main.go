package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/stacktable/internal/config"
	"github.com/JonMunkholm/stacktable/internal/core"
	"github.com/JonMunkholm/stacktable/internal/logging"
	"github.com/JonMunkholm/stacktable/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_input_size", cfg.Convert.MaxInputSize,
		"convert_max_concurrent", cfg.Convert.MaxConcurrent,
		"pad_column", cfg.Convert.PadColumn,
		"result_ttl", cfg.Results.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	service, err := core.NewService(cfg)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go service.StartSweeper(ctx, cfg.Results.SweepInterval)

	// Graceful shutdown: Start returns once in-flight requests are done.
	drain := func(shutdownCtx context.Context) {
		slog.Info("shutting down...")

		if status := service.Status(); status.Limiter.Active > 0 {
			slog.Info("waiting for conversions to complete", "active", status.Limiter.Active)
			if err := service.WaitForConversions(shutdownCtx); err != nil {
				slog.Warn("conversions did not complete in time", "error", err)
			} else {
				slog.Info("all conversions completed")
			}
		}
	}

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(ctx, drain); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
