package store

import (
	"log/slog"
	"sync"

	"github.com/ratewatch/ratings-data/internal/history"
	"github.com/ratewatch/ratings-data/internal/model"
)

// HistorySink receives every point appended to the store's ledger.
// Implementations must not block; the store calls the sink while holding its
// write lock.
type HistorySink func(code string, point model.HistoryPoint)

// Store owns the live ratings dataset: the current record per code plus the
// score history ledger. All mutation flows through Merge, serialized by a
// single lock; reads return deep-copied snapshots.
type Store struct {
	logger *slog.Logger

	mu      sync.RWMutex
	records map[string]*model.Record
	order   []string // insertion order of codes
	ledger  *history.Ledger
	version uint64
	sink    HistorySink
}

// Option configures a Store.
type Option func(*Store)

// WithHistorySink attaches a sink invoked for every ledger append.
func WithHistorySink(sink HistorySink) Option {
	return func(s *Store) {
		s.sink = sink
	}
}

// New creates an empty store.
func New(logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		logger:  logger,
		records: make(map[string]*model.Record),
		ledger:  history.NewLedger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap loads the seed dataset. Each seeded record with a score and an
// update date gets an initial history point, and its 30-day change is then
// recomputed from that history. Bootstrap counts as the store's first version.
func (s *Store) Bootstrap(records []model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if r.Code == "" {
			continue
		}
		rec := r.Clone()
		if _, exists := s.records[rec.Code]; !exists {
			s.order = append(s.order, rec.Code)
		}
		if rec.LastUpdated != "" {
			s.appendHistory(rec.Code, rec.LastUpdated, rec.Score)
			rec.ScoreChange30d = s.ledger.ChangeSince(rec.Code, rec.LastUpdated, rec.Score, 30)
		}
		s.records[rec.Code] = &rec
	}
	s.version++

	s.logger.Info("store bootstrapped", "records", len(s.records), "version", s.version)
}

// Snapshot returns an immutable copy of the full dataset in insertion order.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.Record, 0, len(s.order))
	for _, code := range s.order {
		records = append(records, s.records[code].Clone())
	}
	return model.Snapshot{Version: s.version, Records: records}
}

// Merge applies a batch of partial records. Unknown codes are inserted,
// known codes are shallow-merged (omitted fields are preserved). A partial
// carrying both a score and an update date appends to the history ledger and
// recomputes the 30-day change, unless the partial supplied the change
// explicitly. Entries without a code are skipped without failing the batch.
//
// The version counter increments once per batch that applied at least one
// entry. Returns the number of entries applied and whether the store changed.
func (s *Store) Merge(batch []model.PartialRecord) (applied int, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range batch {
		if p.Code == "" {
			continue
		}

		rec, exists := s.records[p.Code]
		if !exists {
			rec = &model.Record{Code: p.Code}
			s.records[p.Code] = rec
			s.order = append(s.order, p.Code)
		}
		applyPartial(rec, p)

		if p.Score != nil && p.LastUpdated != nil {
			s.appendHistory(rec.Code, rec.LastUpdated, rec.Score)
			if p.ScoreChange30d == nil {
				rec.ScoreChange30d = s.ledger.ChangeSince(rec.Code, rec.LastUpdated, rec.Score, 30)
			}
		}
		applied++
	}

	if applied > 0 {
		s.version++
		changed = true
	}
	return applied, changed
}

// Codes returns all known currency codes in insertion order.
func (s *Store) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// History returns a copy of the score series for a code.
func (s *Store) History(code string) []model.HistoryPoint {
	return s.ledger.Points(code)
}

// Version returns the current store version.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// appendHistory writes to the ledger and notifies the sink. Callers hold the
// write lock.
func (s *Store) appendHistory(code, date string, score float64) {
	s.ledger.Append(code, date, score)
	if s.sink != nil {
		s.sink(code, model.HistoryPoint{Date: date, Score: score})
	}
}
