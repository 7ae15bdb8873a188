package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Semantic rerank server metrics: provider calls made to embed queries and menu
// documents, the embedding cache in front of them, and rerank outcomes.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Subsystem: "semantic",
			Name:      "embedding_calls_total",
			Help:      "Embedding provider calls for queries and menu documents",
		},
		[]string{"provider", "model", "status"}, // status: success, error
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "menurank",
			Subsystem: "semantic",
			Name:      "embedding_call_seconds",
			Help:      "Latency of one embedding provider call",
			Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Subsystem: "semantic",
			Name:      "embedding_tokens_total",
			Help:      "Tokens billed by the embedding provider",
		},
		[]string{"provider", "model", "type"}, // type: prompt, total
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Subsystem: "semantic",
			Name:      "embedding_failures_total",
			Help:      "Failed embedding provider calls by failure class",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Subsystem: "semantic",
			Name:      "embedding_cache_lookups_total",
			Help:      "Embedding cache lookups for menu texts",
		},
		[]string{"result"}, // hit, miss, stale, error
	)

	RerankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Subsystem: "semantic",
			Name:      "reranks_total",
			Help:      "Candidate reranks served, by outcome",
		},
		[]string{"outcome"}, // success, unavailable, query_embedding_failed
	)
)

var registerSemanticOnce sync.Once

// RegisterEmbeddingMetrics registers the semantic server metrics with the default registry.
// Repeated calls are no-ops.
func RegisterEmbeddingMetrics() {
	registerSemanticOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
			RerankRequestsTotal,
		)
	})
}
