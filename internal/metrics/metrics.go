package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the deduplication subsystem.
type Metrics struct {
	registry *prometheus.Registry

	MergesTotal          *prometheus.CounterVec
	UndosTotal           *prometheus.CounterVec
	CandidateLookups     *prometheus.CounterVec
	DismissalsTotal      prometheus.Counter
	CandidateSearchTime  prometheus.Histogram
	MergeTransactionTime prometheus.Histogram
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		MergesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dedup_merges_total",
			Help: "Number of merge attempts by outcome.",
		}, []string{"outcome"}),
		UndosTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dedup_undos_total",
			Help: "Number of merge undo attempts by outcome.",
		}, []string{"outcome"}),
		CandidateLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dedup_candidate_lookups_total",
			Help: "Number of duplicate candidate searches by entity type.",
		}, []string{"entity_type"}),
		DismissalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dedup_dismissals_total",
			Help: "Number of candidate pairs dismissed by operators.",
		}),
		CandidateSearchTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dedup_candidate_search_seconds",
			Help:    "Duration of candidate searches.",
			Buckets: prometheus.DefBuckets,
		}),
		MergeTransactionTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dedup_merge_transaction_seconds",
			Help:    "Duration of merge and undo transactions.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
