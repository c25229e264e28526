package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MergeBatches counts merge batches applied to the store.
	MergeBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratings_merge_batches_total",
		Help: "Merge batches applied to the record store.",
	})

	// MergedRecords counts individual record entries applied.
	MergedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratings_merged_records_total",
		Help: "Record entries applied through merges.",
	})

	// Publishes counts change notifications broadcast on the bus.
	Publishes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratings_publishes_total",
		Help: "Change notifications published to subscribers.",
	})

	// ProviderFailures counts individual rate-provider failures.
	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratings_provider_failures_total",
		Help: "Exchange-rate provider failures, by provider.",
	}, []string{"provider"})

	// SyncRuns counts scheduled and requested reconciliation passes.
	SyncRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratings_sync_runs_total",
		Help: "Reconciliation passes executed.",
	})

	// ActiveStreams tracks currently-open push streams, by transport.
	ActiveStreams = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ratings_active_streams",
		Help: "Open push streams, by transport (sse, websocket).",
	}, []string{"transport"})
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
