package archive

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratewatch/ratings-data/internal/model"
)

// Config holds history-archive writer settings.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	QueueSize     int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		FlushInterval: time.Second,
		QueueSize:     1000,
	}
}

// Stats holds writer counters.
type Stats struct {
	Inserts int64
	Flushes int64
	Errors  int64
	Dropped int64
}

type historyRow struct {
	Code       string
	ObservedOn string
	Score      float64
	RecordedAt int64 // µs since epoch
}

// Writer batches history points into the score_history table. It is a
// write-only observer of the store's ledger: nothing in the live dataset
// ever reads the archive back.
type Writer struct {
	cfg    Config
	logger *slog.Logger
	db     *pgxpool.Pool

	input chan historyRow

	batch       []historyRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	stats Stats
}

// NewWriter creates a history archive writer.
func NewWriter(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultConfig().FlushInterval
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}

	return &Writer{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan historyRow, cfg.QueueSize),
		batch:  make([]historyRow, 0, cfg.BatchSize),
	}
}

// Record enqueues a history point. Never blocks: the store calls this from
// inside its write section, so a full queue drops the point instead.
func (w *Writer) Record(code string, point model.HistoryPoint) {
	row := historyRow{
		Code:       code,
		ObservedOn: point.Date,
		Score:      point.Score,
		RecordedAt: time.Now().UnixMicro(),
	}

	select {
	case w.input <- row:
	default:
		w.batchMu.Lock()
		w.stats.Dropped++
		w.batchMu.Unlock()
		w.logger.Warn("archive queue full, history point dropped", "code", code, "date", point.Date)
	}
}

// Start begins consuming points and writing to the database.
func (w *Writer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("history archive writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *Writer) Stop(ctx context.Context) error {
	w.logger.Info("stopping history archive writer")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("history archive writer stopped")
	case <-ctx.Done():
		w.logger.Warn("history archive writer stop timed out")
	}

	// Final flush
	w.flush()

	return nil
}

// Stats returns current counters.
func (w *Writer) Stats() Stats {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.stats
}

func (w *Writer) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case row := <-w.input:
			w.batchMu.Lock()
			w.batch = append(w.batch, row)
			shouldFlush := len(w.batch) >= w.cfg.BatchSize
			w.batchMu.Unlock()

			if shouldFlush {
				w.flush()
			}
		}
	}
}

func (w *Writer) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

func (w *Writer) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]historyRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	if err := w.batchInsert(batch); err != nil {
		w.logger.Error("archive batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.stats.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.stats.Inserts += int64(len(batch))
	w.stats.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed history points",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// batchInsert upserts rows keyed by (code, observed_on), mirroring the
// ledger's overwrite-per-date semantics.
func (w *Writer) batchInsert(rows []historyRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO score_history (code, observed_on, score, recorded_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code, observed_on)
			DO UPDATE SET score = EXCLUDED.score, recorded_at = EXCLUDED.recorded_at
		`, r.Code, r.ObservedOn, r.Score, r.RecordedAt)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
