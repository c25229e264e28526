package livesync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ratewatch/ratings-data/internal/model"
)

// MinPollInterval is the floor for the polling cadence. Configured values
// below it are clamped up to protect the origin.
const MinPollInterval = 10 * time.Second

// ErrAlreadyRunning is returned by Start when the syncer is active.
var ErrAlreadyRunning = errors.New("livesync: already running")

// Fetcher retrieves the full dataset snapshot from the origin.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Record, error)
}

// StreamTransport delivers change notifications from the origin. The payload
// is irrelevant: any event means "re-fetch now".
type StreamTransport interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan struct{}
}

// Config holds syncer settings.
type Config struct {
	PollInterval time.Duration // clamped to MinPollInterval
	FetchTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		FetchTimeout: 10 * time.Second,
	}
}

// Syncer keeps a local replica of the dataset fresh. It always polls as a
// safety net and refreshes immediately on stream notifications. Refreshes
// are deduplicated: a notification landing during an in-flight fetch is
// dropped, since the fetch already returns the latest state.
type Syncer struct {
	cfg     Config
	fetcher Fetcher
	stream  StreamTransport
	logger  *slog.Logger

	onUpdate func(model.Snapshot)

	running    atomic.Bool
	refreshing atomic.Bool

	mu      sync.RWMutex
	records []model.Record
	version uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStream attaches a push transport for immediate refreshes.
func WithStream(t StreamTransport) Option {
	return func(s *Syncer) {
		s.stream = t
	}
}

// WithOnUpdate sets a callback invoked after every successful refresh.
func WithOnUpdate(fn func(model.Snapshot)) Option {
	return func(s *Syncer) {
		s.onUpdate = fn
	}
}

// New creates a Syncer.
func New(cfg Config, fetcher Fetcher, opts ...Option) *Syncer {
	if cfg.PollInterval < MinPollInterval {
		cfg.PollInterval = MinPollInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultConfig().FetchTimeout
	}

	s := &Syncer{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins syncing. Only one instance may run at a time.
func (s *Syncer) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	// Prime the replica before the loops take over.
	s.refresh()

	s.wg.Add(1)
	go s.pollLoop()

	if s.stream != nil {
		if err := s.stream.Start(s.ctx); err != nil {
			s.logger.Warn("stream transport failed to start, polling only", "error", err)
		} else {
			s.wg.Add(1)
			go s.streamLoop()
		}
	}

	s.logger.Info("livesync started", "poll_interval", s.cfg.PollInterval, "stream", s.stream != nil)
	return nil
}

// Stop gracefully shuts down the syncer.
func (s *Syncer) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}
	s.logger.Info("stopping livesync")

	if s.cancel != nil {
		s.cancel()
	}
	if s.stream != nil {
		_ = s.stream.Stop()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("livesync stopped")
	case <-ctx.Done():
		s.logger.Warn("livesync stop timed out")
	}

	s.running.Store(false)
	return nil
}

// Snapshot returns the current replica contents.
func (s *Syncer) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.Record, len(s.records))
	for i, r := range s.records {
		records[i] = r.Clone()
	}
	return model.Snapshot{Version: s.version, Records: records}
}

// Version returns the replica's refresh counter.
func (s *Syncer) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Syncer) pollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

func (s *Syncer) streamLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case _, ok := <-s.stream.Events():
			if !ok {
				return
			}
			s.refresh()
		}
	}
}

// refresh fetches the snapshot once. Concurrent callers coalesce into the
// in-flight fetch.
func (s *Syncer) refresh() {
	if !s.refreshing.CompareAndSwap(false, true) {
		return
	}
	defer s.refreshing.Store(false)

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.FetchTimeout)
	defer cancel()

	records, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.logger.Warn("refresh failed, keeping previous replica", "error", err)
		return
	}

	s.mu.Lock()
	s.records = records
	s.version++
	snap := model.Snapshot{Version: s.version, Records: records}
	s.mu.Unlock()

	s.logger.Debug("replica refreshed", "records", len(records), "version", snap.Version)

	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}
