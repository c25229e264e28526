package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ratewatch/ratings-data/internal/bus"
	"github.com/ratewatch/ratings-data/internal/metrics"
	"github.com/ratewatch/ratings-data/internal/reconcile"
	"github.com/ratewatch/ratings-data/internal/store"
)

// Config holds HTTP server settings.
type Config struct {
	Port        int
	ReadTimeout time.Duration
	IdleTimeout time.Duration

	AdminToken string

	HeartbeatInterval time.Duration // stream keepalive cadence
	RetryInterval     time.Duration // advertised SSE reconnect delay
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:              8080,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
		HeartbeatInterval: 15 * time.Second,
		RetryInterval:     10 * time.Second,
	}
}

// Server exposes the ratings dataset over HTTP: snapshot reads, admin
// ingest, push streams, and on-demand reconciliation.
type Server struct {
	cfg        Config
	store      *store.Store
	bus        *bus.Bus
	reconciler *reconcile.Reconciler
	logger     *slog.Logger

	httpServer *http.Server
}

// New creates a Server.
func New(cfg Config, st *store.Store, b *bus.Bus, rec *reconcile.Reconciler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultConfig().HeartbeatInterval
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultConfig().RetryInterval
	}

	s := &Server{
		cfg:        cfg,
		store:      st,
		bus:        b,
		reconciler: rec,
		logger:     logger,
	}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.Handler(),
		// WriteTimeout stays zero: push streams are long-lived by design.
		ReadHeaderTimeout: cfg.ReadTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/currencies", s.handleSnapshot)
	mux.HandleFunc("POST /api/currencies", s.handleIngest)
	mux.HandleFunc("GET /api/currencies.csv", s.handleCSV)
	mux.HandleFunc("GET /api/stream", s.handleStreamSSE)
	mux.HandleFunc("GET /api/stream/ws", s.handleStreamWS)
	mux.HandleFunc("/api/sync", s.handleSync)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Start begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.Info("http server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}

// publish broadcasts one change notification and counts it.
func (s *Server) publish() {
	ev := s.bus.Publish()
	metrics.Publishes.Inc()
	s.logger.Debug("change published", "seq", ev.Seq, "subscribers", s.bus.Subscribers())
}
