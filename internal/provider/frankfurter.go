package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultFrankfurterURL is the production endpoint of the Frankfurter API
// (ECB daily reference rates).
const DefaultFrankfurterURL = "https://api.frankfurter.app"

// Frankfurter fetches daily USD-based rate series from the Frankfurter
// period endpoint. Frankfurter limits request size, so the code list is
// chunked and chunks are fetched with bounded concurrency.
type Frankfurter struct {
	client
	chunkSize     int
	maxConcurrent int
}

// FrankfurterOption configures chunking behavior beyond the shared options.
type FrankfurterOption func(*Frankfurter)

// WithChunkSize sets the number of codes per request.
func WithChunkSize(n int) FrankfurterOption {
	return func(p *Frankfurter) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithMaxConcurrent bounds concurrent chunk requests.
func WithMaxConcurrent(n int) FrankfurterOption {
	return func(p *Frankfurter) {
		if n > 0 {
			p.maxConcurrent = n
		}
	}
}

// NewFrankfurter creates a Frankfurter adapter.
func NewFrankfurter(opts []Option, fopts ...FrankfurterOption) *Frankfurter {
	p := &Frankfurter{
		client:        newClient("frankfurter", DefaultFrankfurterURL, opts...),
		chunkSize:     20,
		maxConcurrent: 4,
	}
	for _, opt := range fopts {
		opt(p)
	}
	return p
}

// Name implements RateProvider.
func (p *Frankfurter) Name() string { return p.name }

type periodResponse struct {
	Rates map[string]map[string]float64 `json:"rates"`
}

// FetchDaily implements RateProvider.
func (p *Frankfurter) FetchDaily(ctx context.Context, codes []string, start, end string) (*RateSeries, error) {
	chunks := chunkCodes(codes, p.chunkSize)

	var mu sync.Mutex
	merged := make(map[string]map[string]float64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)

	for _, chunk := range chunks {
		g.Go(func() error {
			q := url.Values{}
			q.Set("from", "USD")
			q.Set("to", strings.Join(chunk, ","))

			var resp periodResponse
			reqURL := fmt.Sprintf("%s/%s..%s?%s", p.baseURL, start, end, q.Encode())
			if err := p.getJSON(gctx, reqURL, &resp); err != nil {
				// A failed chunk degrades coverage but does not fail the
				// fetch: remaining chunks may still be sufficient.
				p.logger.Warn("frankfurter chunk failed", "codes", len(chunk), "error", err)
				return nil
			}

			mu.Lock()
			for date, day := range resp.Rates {
				dst, ok := merged[date]
				if !ok {
					dst = make(map[string]float64, len(day))
					merged[date] = dst
				}
				for code, rate := range day {
					dst[code] = rate
				}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := newRateSeries(merged)
	if len(series.Dates) < 2 {
		return nil, ErrInsufficientData
	}

	p.logger.Debug("fetched rate series",
		"provider", p.name,
		"codes", len(codes),
		"chunks", len(chunks),
		"dates", len(series.Dates),
	)
	return series, nil
}

func chunkCodes(codes []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var chunks [][]string
	for i := 0; i < len(codes); i += size {
		end := i + size
		if end > len(codes) {
			end = len(codes)
		}
		chunks = append(chunks, codes[i:end])
	}
	return chunks
}
