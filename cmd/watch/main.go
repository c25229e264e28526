package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ratewatch/ratings-data/internal/livesync"
	"github.com/ratewatch/ratings-data/internal/model"
	"github.com/ratewatch/ratings-data/internal/version"
)

func main() {
	origin := flag.String("origin", "http://localhost:8080", "origin server base URL")
	poll := flag.Duration("poll", 30*time.Second, "poll interval (floor 10s)")
	useStream := flag.Bool("stream", true, "follow the origin's websocket change stream")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ratings watcher",
		"version", version.Version,
		"origin", *origin,
		"poll", *poll,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	opts := []livesync.Option{
		livesync.WithLogger(logger),
		livesync.WithOnUpdate(func(snap model.Snapshot) {
			logUpdate(logger, snap)
		}),
	}
	if *useStream {
		wsURL := toWebSocketURL(*origin) + "/api/stream/ws"
		opts = append(opts, livesync.WithStream(
			livesync.NewWSTransport(livesync.DefaultWSConfig(wsURL), logger),
		))
	}

	syncer := livesync.New(
		livesync.Config{PollInterval: *poll},
		livesync.NewHTTPFetcher(*origin),
		opts...,
	)

	if err := syncer.Start(ctx); err != nil {
		logger.Error("failed to start syncer", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	syncer.Stop(shutdownCtx)

	logger.Info("ratings watcher stopped")
}

// logUpdate prints the refresh summary and the biggest movers.
func logUpdate(logger *slog.Logger, snap model.Snapshot) {
	logger.Info("replica refreshed", "records", len(snap.Records), "refresh", snap.Version)

	for _, rec := range model.TopMovers(snap.Records, "30d", 3) {
		logger.Info("top mover",
			"code", rec.Code,
			"grade", rec.Grade,
			"score", rec.Score,
			"change_30d", rec.ScoreChange30d,
			"as_of", rec.LastUpdated,
		)
	}
}

func toWebSocketURL(origin string) string {
	switch {
	case strings.HasPrefix(origin, "https://"):
		return "wss://" + strings.TrimPrefix(origin, "https://")
	case strings.HasPrefix(origin, "http://"):
		return "ws://" + strings.TrimPrefix(origin, "http://")
	default:
		return "ws://" + origin
	}
}
