package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ratewatch/ratings-data/internal/metrics"
	"github.com/ratewatch/ratings-data/internal/model"
)

// noStore marks a response as uncacheable. Snapshot freshness matters more
// than cache hits for a live dataset.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// authorized checks the shared admin secret on mutating requests.
func (s *Server) authorized(r *http.Request) bool {
	if s.cfg.AdminToken == "" {
		return false
	}
	token := r.Header.Get("X-Admin-Token")
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AdminToken)) == 1
}

// handleSnapshot serves the full dataset. A best-effort reconciliation pass
// overlays fresh 30-day changes onto the response copy only; the store itself
// is untouched, and any provider failure silently degrades to stored values.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	if s.reconciler != nil {
		codes := make([]string, 0, len(snap.Records))
		for _, rec := range snap.Records {
			codes = append(codes, rec.Code)
		}
		if batch, _ := s.reconciler.Run(r.Context(), codes, time.Now()); len(batch) > 0 {
			overlay(snap.Records, batch)
		}
	}

	noStore(w)
	writeJSON(w, http.StatusOK, snap.Records)
}

// overlay applies reconciliation partials to a response-local record slice.
func overlay(records []model.Record, batch []model.PartialRecord) {
	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[rec.Code] = i
	}
	for _, p := range batch {
		i, ok := index[p.Code]
		if !ok {
			continue
		}
		if p.ScoreChange30d != nil {
			records[i].ScoreChange30d = *p.ScoreChange30d
		}
		if p.LastUpdated != nil {
			records[i].LastUpdated = *p.LastUpdated
		}
	}
}

// handleIngest merges an admin-submitted batch of partial records.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var batch []model.PartialRecord
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, "payload must be a JSON array of records")
		return
	}

	applied, changed := s.store.Merge(batch)
	metrics.MergeBatches.Inc()
	metrics.MergedRecords.Add(float64(applied))
	if changed {
		s.publish()
	}

	s.logger.Info("ingest merged", "received", len(batch), "applied", applied)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "applied": applied})
}

// handleCSV exports the current snapshot as CSV.
func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	noStore(w)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="currency-ratings.csv"`)
	_, _ = w.Write([]byte(model.ToCSV(snap.Records)))
}

// handleSync runs one reconciliation pass and merges the result into the
// store. A provider outage yields zero updates, not an error.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	metrics.SyncRuns.Inc()
	batch, date := s.reconciler.Run(r.Context(), s.store.Codes(), time.Now())

	applied := 0
	if len(batch) > 0 {
		var changed bool
		applied, changed = s.store.Merge(batch)
		if changed {
			s.publish()
		}
	}

	noStore(w)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": applied, "date": date})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"records":     s.store.Len(),
		"version":     s.store.Version(),
		"subscribers": s.bus.Subscribers(),
	})
}
