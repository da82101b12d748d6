package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/openpaddock/racefeed/internal/cache"
	"github.com/openpaddock/racefeed/internal/catalog"
	"github.com/openpaddock/racefeed/internal/config"
	"github.com/openpaddock/racefeed/internal/logging"
	"github.com/openpaddock/racefeed/internal/playback"
	"github.com/openpaddock/racefeed/internal/session"
	"github.com/openpaddock/racefeed/internal/stream"
	"github.com/openpaddock/racefeed/internal/web"
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
		"data_root", cfg.Data.Root,
		"stream_buffer_frames", cfg.Stream.BufferFrames,
	)

	// A missing data root is non-fatal: every dataset loads as empty.
	if _, err := os.Stat(cfg.Data.Root); err != nil {
		slog.Warn("data root not accessible, all datasets will load empty",
			"root", cfg.Data.Root, "error", err)
	}

	slog.Info("catalog loaded",
		"datasets", len(catalog.Descriptors()),
		"sessions", len(catalog.Sessions()),
	)

	// Metrics registry shared by the caches, the stream reader, and /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessions := session.NewService(cfg.Data.Root,
		[]cache.Option{cache.WithMetrics(registry, "files")},
		[]cache.Option{cache.WithMetrics(registry, "sessions")},
	)
	telemetry := stream.NewReader(cfg.Data.Root,
		stream.WithBuffer(cfg.Stream.BufferFrames),
		stream.WithMaxLineBytes(cfg.Stream.MaxLineBytes),
		stream.WithReaderMetrics(registry),
	)
	bootstrap := playback.NewService(sessions, telemetry)

	server := web.NewServer(sessions, telemetry, bootstrap, registry, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
