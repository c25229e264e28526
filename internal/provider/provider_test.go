package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
)

func rateBody(rates map[string]map[string]float64) []byte {
	b, _ := json.Marshal(map[string]any{"rates": rates})
	return b
}

func TestExchangeRateHost_FetchDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timeseries" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("base") != "USD" {
			t.Errorf("base = %q", q.Get("base"))
		}
		if q.Get("symbols") != "EUR,JPY" {
			t.Errorf("symbols = %q", q.Get("symbols"))
		}
		w.Write(rateBody(map[string]map[string]float64{
			"2024-01-31": {"EUR": 0.93, "JPY": 148.0},
			"2024-01-01": {"EUR": 0.90, "JPY": 141.0},
		}))
	}))
	defer srv.Close()

	p := NewExchangeRateHost(WithBaseURL(srv.URL))
	series, err := p.FetchDaily(context.Background(), []string{"EUR", "JPY"}, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("FetchDaily: %v", err)
	}

	if want := []string{"2024-01-01", "2024-01-31"}; !reflect.DeepEqual(series.Dates, want) {
		t.Errorf("Dates = %v, want %v", series.Dates, want)
	}
	if r, ok := series.Rate("2024-01-31", "EUR"); !ok || r != 0.93 {
		t.Errorf("Rate = %v, %v", r, ok)
	}
	if series.First() != "2024-01-01" || series.Last() != "2024-01-31" {
		t.Errorf("First/Last = %q/%q", series.First(), series.Last())
	}
}

func TestExchangeRateHost_SingleDateIsInsufficient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(rateBody(map[string]map[string]float64{
			"2024-01-31": {"EUR": 0.93},
		}))
	}))
	defer srv.Close()

	p := NewExchangeRateHost(WithBaseURL(srv.URL))
	_, err := p.FetchDaily(context.Background(), []string{"EUR"}, "2024-01-01", "2024-01-31")
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestExchangeRateHost_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewExchangeRateHost(WithBaseURL(srv.URL))
	_, err := p.FetchDaily(context.Background(), []string{"EUR"}, "2024-01-01", "2024-01-31")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
}

func TestFrankfurter_ChunksRequests(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		to := r.URL.Query().Get("to")
		day1 := map[string]float64{}
		day2 := map[string]float64{}
		// Echo back rates for exactly the requested codes.
		for _, code := range splitCodes(to) {
			day1[code] = 1.0
			day2[code] = 1.1
		}
		w.Write(rateBody(map[string]map[string]float64{
			"2024-01-01": day1,
			"2024-01-31": day2,
		}))
	}))
	defer srv.Close()

	p := NewFrankfurter(
		[]Option{WithBaseURL(srv.URL)},
		WithChunkSize(2),
		WithMaxConcurrent(2),
	)
	series, err := p.FetchDaily(context.Background(), []string{"EUR", "JPY", "GBP"}, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("FetchDaily: %v", err)
	}

	if got := requests.Load(); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
	for _, code := range []string{"EUR", "JPY", "GBP"} {
		if _, ok := series.Rate("2024-01-31", code); !ok {
			t.Errorf("missing rate for %s", code)
		}
	}
}

func TestFrankfurter_AllChunksFailingIsInsufficient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewFrankfurter([]Option{WithBaseURL(srv.URL)})
	_, err := p.FetchDaily(context.Background(), []string{"EUR", "JPY"}, "2024-01-01", "2024-01-31")
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestChain_FallsBackOnInsufficientPrimary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(rateBody(map[string]map[string]float64{
			"2024-01-31": {"EUR": 0.93}, // only one observation date
		}))
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(rateBody(map[string]map[string]float64{
			"2024-01-01": {"EUR": 0.90},
			"2024-01-31": {"EUR": 0.93},
		}))
	}))
	defer fallback.Close()

	var failures []string
	chain := NewChain(nil,
		NewExchangeRateHost(WithBaseURL(primary.URL)),
		NewFrankfurter([]Option{WithBaseURL(fallback.URL)}),
	)
	chain.OnFailure(func(name string) { failures = append(failures, name) })

	series, err := chain.FetchDaily(context.Background(), []string{"EUR"}, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("FetchDaily: %v", err)
	}
	if series.Last() != "2024-01-31" {
		t.Errorf("Last = %q", series.Last())
	}
	if !reflect.DeepEqual(failures, []string{"exchangerate.host"}) {
		t.Errorf("failures = %v", failures)
	}
}

func TestChain_AllProvidersFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	chain := NewChain(nil,
		NewExchangeRateHost(WithBaseURL(srv.URL)),
		NewFrankfurter([]Option{WithBaseURL(srv.URL)}),
	)

	if _, err := chain.FetchDaily(context.Background(), []string{"EUR"}, "2024-01-01", "2024-01-31"); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

func splitCodes(to string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(to); i++ {
		if i == len(to) || to[i] == ',' {
			if i > start {
				out = append(out, to[start:i])
			}
			start = i + 1
		}
	}
	return out
}
