package reconcile

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/ratewatch/ratings-data/internal/model"
	"github.com/ratewatch/ratings-data/internal/provider"
)

// Config holds reconciler settings.
type Config struct {
	WindowDays int           // rate window, default 31
	Timeout    time.Duration // per-run provider timeout
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WindowDays: 31,
		Timeout:    15 * time.Second,
	}
}

// Reconciler derives 30-day percentage changes for known codes from an
// external exchange-rate source, independent of locally-tracked scores.
type Reconciler struct {
	cfg    Config
	rates  provider.RateProvider
	logger *slog.Logger
}

// New creates a Reconciler over a rate provider (usually a provider.Chain).
func New(cfg Config, rates provider.RateProvider, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WindowDays < 2 {
		cfg.WindowDays = DefaultConfig().WindowDays
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Reconciler{cfg: cfg, rates: rates, logger: logger}
}

// Run fetches the rate window ending at now and returns one partial record
// per code for which a change could be computed. Each partial carries only
// the 30-day change and the update date; scores are deliberately untouched
// so the composite rating is never recomputed from a secondary signal.
//
// Provider failure is not an error: Run returns an empty batch and the
// caller treats it as a no-op.
func (r *Reconciler) Run(ctx context.Context, codes []string, now time.Time) ([]model.PartialRecord, string) {
	if len(codes) == 0 {
		return nil, ""
	}

	end := now.UTC().Format(model.DateLayout)
	start := now.UTC().AddDate(0, 0, -r.cfg.WindowDays).Format(model.DateLayout)

	// USD is the base and never queried.
	others := make([]string, 0, len(codes))
	hasUSD := false
	for _, code := range codes {
		if code == "USD" {
			hasUSD = true
			continue
		}
		others = append(others, code)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	series, err := r.rates.FetchDaily(fetchCtx, others, start, end)
	if err != nil {
		r.logger.Warn("reconciliation skipped, no rate data", "error", err)
		return nil, ""
	}

	first, last := series.First(), series.Last()
	batch := make([]model.PartialRecord, 0, len(codes))

	if hasUSD {
		batch = append(batch, changePartial("USD", 0, last))
	}
	for _, code := range others {
		rFirst, okFirst := series.Rate(first, code)
		rLast, okLast := series.Rate(last, code)
		if !okFirst || !okLast || rFirst <= 0 {
			continue
		}
		pct := math.Round((rLast/rFirst-1)*100*10) / 10
		batch = append(batch, changePartial(code, pct, last))
	}

	r.logger.Info("reconciliation batch built",
		"codes", len(codes),
		"updated", len(batch),
		"window", start+".."+last,
	)
	return batch, last
}

func changePartial(code string, pct float64, date string) model.PartialRecord {
	return model.PartialRecord{
		Code:           code,
		ScoreChange30d: &pct,
		LastUpdated:    &date,
	}
}
