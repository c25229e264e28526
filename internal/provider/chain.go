package provider

import (
	"context"
	"fmt"
	"log/slog"
)

// Chain tries an ordered list of providers and returns the first sufficient
// series. An error or insufficient coverage moves on to the next provider;
// the error is only surfaced when every provider fails.
type Chain struct {
	providers []RateProvider
	logger    *slog.Logger
	onFailure func(provider string)
}

// NewChain creates a provider chain in priority order.
func NewChain(logger *slog.Logger, providers ...RateProvider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{providers: providers, logger: logger}
}

// OnFailure registers a callback invoked with the provider name on each
// individual provider failure. Used for failure counters.
func (c *Chain) OnFailure(fn func(provider string)) {
	c.onFailure = fn
}

// Name implements RateProvider.
func (c *Chain) Name() string { return "chain" }

// FetchDaily implements RateProvider.
func (c *Chain) FetchDaily(ctx context.Context, codes []string, start, end string) (*RateSeries, error) {
	var lastErr error
	for _, p := range c.providers {
		series, err := p.FetchDaily(ctx, codes, start, end)
		if err == nil {
			return series, nil
		}

		lastErr = err
		if c.onFailure != nil {
			c.onFailure(p.Name())
		}
		c.logger.Warn("rate provider failed, trying next",
			"provider", p.Name(),
			"error", err,
		)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no providers configured")
	}
	return nil, fmt.Errorf("all rate providers failed: %w", lastErr)
}
