package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefaultExchangeRateHostURL is the production endpoint of exchangerate.host.
const DefaultExchangeRateHostURL = "https://api.exchangerate.host"

// ExchangeRateHost fetches daily USD-based rate series from the
// exchangerate.host timeseries endpoint. All requested codes fit a single
// request.
type ExchangeRateHost struct {
	client
}

// NewExchangeRateHost creates an exchangerate.host adapter.
func NewExchangeRateHost(opts ...Option) *ExchangeRateHost {
	return &ExchangeRateHost{
		client: newClient("exchangerate.host", DefaultExchangeRateHostURL, opts...),
	}
}

// Name implements RateProvider.
func (p *ExchangeRateHost) Name() string { return p.name }

type timeseriesResponse struct {
	Rates map[string]map[string]float64 `json:"rates"`
}

// FetchDaily implements RateProvider.
func (p *ExchangeRateHost) FetchDaily(ctx context.Context, codes []string, start, end string) (*RateSeries, error) {
	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	q.Set("base", "USD")
	q.Set("symbols", strings.Join(codes, ","))

	var resp timeseriesResponse
	reqURL := fmt.Sprintf("%s/timeseries?%s", p.baseURL, q.Encode())
	if err := p.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch timeseries: %w", err)
	}

	series := newRateSeries(resp.Rates)
	if len(series.Dates) < 2 {
		return nil, ErrInsufficientData
	}

	p.logger.Debug("fetched rate series",
		"provider", p.name,
		"codes", len(codes),
		"dates", len(series.Dates),
	)
	return series, nil
}
