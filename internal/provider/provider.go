package provider

import (
	"context"
	"errors"
	"sort"
)

// ErrInsufficientData indicates a provider responded but covered fewer than
// two distinct observation dates, so no change can be computed from it.
var ErrInsufficientData = errors.New("provider returned insufficient date coverage")

// RateProvider fetches a daily exchange-rate series against a fixed USD base.
type RateProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// FetchDaily returns daily rates for the given codes between start and
	// end (inclusive, YYYY-MM-DD). Implementations return ErrInsufficientData
	// when fewer than two observation dates are available.
	FetchDaily(ctx context.Context, codes []string, start, end string) (*RateSeries, error)
}

// RateSeries holds daily rates keyed by observation date, then currency code.
type RateSeries struct {
	Dates []string // sorted ascending
	Rates map[string]map[string]float64
}

// newRateSeries builds a series from a date-keyed rate table.
func newRateSeries(rates map[string]map[string]float64) *RateSeries {
	dates := make([]string, 0, len(rates))
	for d := range rates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return &RateSeries{Dates: dates, Rates: rates}
}

// Rate returns the rate for a code on a date.
func (s *RateSeries) Rate(date, code string) (float64, bool) {
	day, ok := s.Rates[date]
	if !ok {
		return 0, false
	}
	r, ok := day[code]
	return r, ok
}

// First returns the earliest observation date, or "" for an empty series.
func (s *RateSeries) First() string {
	if len(s.Dates) == 0 {
		return ""
	}
	return s.Dates[0]
}

// Last returns the latest observation date, or "" for an empty series.
func (s *RateSeries) Last() string {
	if len(s.Dates) == 0 {
		return ""
	}
	return s.Dates[len(s.Dates)-1]
}
