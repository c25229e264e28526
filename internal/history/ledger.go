package history

import (
	"math"
	"sort"
	"sync"

	"github.com/ratewatch/ratings-data/internal/model"
)

// Ledger is a per-currency append-only score time series.
// At most one point exists per (code, date); a later append for the same date
// overwrites the earlier score. Series are kept sorted ascending by date.
type Ledger struct {
	mu     sync.RWMutex
	points map[string][]model.HistoryPoint
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		points: make(map[string][]model.HistoryPoint),
	}
}

// Append records a score observation for a code on a date.
// Appending the same date twice replaces the prior score.
func (l *Ledger) Append(code, date string, score float64) {
	if code == "" || date == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pts := l.points[code]
	for i := range pts {
		if pts[i].Date == date {
			pts[i].Score = score
			return
		}
	}

	pts = append(pts, model.HistoryPoint{Date: date, Score: score})
	// ISO dates sort correctly as strings.
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
	l.points[code] = pts
}

// ChangeSince returns asOfScore minus the score at the latest point dated at
// or before asOfDate minus lookbackDays (calendar arithmetic). When no point
// is that old, the earliest available point is used; with no history at all
// the change is 0. The result is rounded to one decimal.
func (l *Ledger) ChangeSince(code, asOfDate string, asOfScore float64, lookbackDays int) float64 {
	l.mu.RLock()
	pts := l.points[code]
	l.mu.RUnlock()

	if len(pts) == 0 {
		return 0
	}

	base := pts[0]
	if asOf, err := model.ParseDate(asOfDate); err == nil {
		cutoff := asOf.AddDate(0, 0, -lookbackDays).Format(model.DateLayout)
		for _, p := range pts {
			if p.Date <= cutoff {
				base = p
			} else {
				break
			}
		}
	}

	return round1(asOfScore - base.Score)
}

// Points returns a copy of the series for a code, sorted ascending by date.
func (l *Ledger) Points(code string) []model.HistoryPoint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pts := l.points[code]
	if len(pts) == 0 {
		return nil
	}
	out := make([]model.HistoryPoint, len(pts))
	copy(out, pts)
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
