package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ratewatch/ratings-data/internal/archive"
	"github.com/ratewatch/ratings-data/internal/bus"
	"github.com/ratewatch/ratings-data/internal/config"
	"github.com/ratewatch/ratings-data/internal/database"
	"github.com/ratewatch/ratings-data/internal/metrics"
	"github.com/ratewatch/ratings-data/internal/provider"
	"github.com/ratewatch/ratings-data/internal/reconcile"
	"github.com/ratewatch/ratings-data/internal/server"
	"github.com/ratewatch/ratings-data/internal/store"
	"github.com/ratewatch/ratings-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/server.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ratings server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"http_port", cfg.HTTP.Port,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Optional write-only history archive
	var storeOpts []store.Option
	var archiveWriter *archive.Writer
	if cfg.Archive.Enabled {
		logger.Info("connecting to archive database",
			"host", cfg.Archive.Postgres.Host,
			"port", cfg.Archive.Postgres.Port,
			"database", cfg.Archive.Postgres.Name,
		)

		pool, err := database.Connect(ctx, cfg.Archive.Postgres)
		if err != nil {
			logger.Error("failed to connect to archive database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		archiveWriter = archive.NewWriter(archive.Config{
			BatchSize:     cfg.Archive.BatchSize,
			FlushInterval: cfg.Archive.FlushInterval,
		}, pool, logger)
		if err := archiveWriter.Start(ctx); err != nil {
			logger.Error("failed to start archive writer", "error", err)
			os.Exit(1)
		}
		storeOpts = append(storeOpts, store.WithHistorySink(archiveWriter.Record))
	}

	// Build and seed the store
	st := store.New(logger, storeOpts...)

	seed, err := store.LoadSeedFile(cfg.Seed.Path)
	if err != nil {
		logger.Error("failed to load seed snapshot", "path", cfg.Seed.Path, "error", err)
		os.Exit(1)
	}
	st.Bootstrap(seed)

	// Change notification bus
	b := bus.New(logger, bus.WithBuffer(cfg.Stream.ClientBuffer))

	// Exchange-rate providers: primary with fallback
	primary := provider.NewExchangeRateHost(
		provider.WithBaseURL(cfg.Providers.PrimaryURL),
		provider.WithTimeout(cfg.Providers.Timeout),
		provider.WithLogger(logger),
	)
	fallback := provider.NewFrankfurter(
		[]provider.Option{
			provider.WithBaseURL(cfg.Providers.FallbackURL),
			provider.WithTimeout(cfg.Providers.Timeout),
			provider.WithLogger(logger),
		},
		provider.WithChunkSize(cfg.Providers.ChunkSize),
		provider.WithMaxConcurrent(cfg.Providers.MaxConcurrent),
	)
	chain := provider.NewChain(logger, primary, fallback)
	chain.OnFailure(func(name string) {
		metrics.ProviderFailures.WithLabelValues(name).Inc()
	})

	rec := reconcile.New(reconcile.Config{
		WindowDays: cfg.Providers.WindowDays,
		Timeout:    cfg.Providers.Timeout,
	}, chain, logger)

	// Scheduled reconciliation
	var scheduler *reconcile.Scheduler
	if cfg.Reconcile.Enabled {
		scheduler = reconcile.NewScheduler(cfg.Reconcile.Interval, func(ctx context.Context) {
			metrics.SyncRuns.Inc()
			batch, date := rec.Run(ctx, st.Codes(), time.Now())
			if len(batch) == 0 {
				return
			}
			applied, changed := st.Merge(batch)
			if changed {
				b.Publish()
				metrics.Publishes.Inc()
			}
			logger.Info("scheduled reconciliation applied", "updated", applied, "date", date)
		}, logger)

		if err := scheduler.Start(ctx); err != nil {
			logger.Error("failed to start reconciliation scheduler", "error", err)
			os.Exit(1)
		}
	}

	// Public HTTP server
	srv := server.New(server.Config{
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		AdminToken:        cfg.Auth.AdminToken,
		HeartbeatInterval: cfg.Stream.HeartbeatInterval,
		RetryInterval:     cfg.Stream.RetryInterval,
	}, st, b, rec, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start http server", "error", err)
		os.Exit(1)
	}

	// Prometheus scrape endpoint on its own listener
	metricsMux := http.NewServeMux()
	metricsMux.Handle(cfg.Metrics.Path, metrics.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: metricsMux,
	}
	go func() {
		logger.Info("metrics server started", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	logger.Info("ratings server running",
		"instance_id", cfg.Instance.ID,
		"records", st.Len(),
		"api_url", fmt.Sprintf("http://localhost:%d/api/currencies", cfg.HTTP.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", "error", err)
	}
	metricsServer.Shutdown(shutdownCtx)

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Warn("scheduler stop error", "error", err)
		}
	}
	if archiveWriter != nil {
		if err := archiveWriter.Stop(shutdownCtx); err != nil {
			logger.Warn("archive writer stop error", "error", err)
		}
	}

	logger.Info("ratings server stopped")
}
