package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	IndexRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Name:      "index_requests_total",
			Help:      "Index service requests by outcome",
		},
		[]string{"op", "outcome"}, // outcome: "success" / "connectivity" / "cross_origin" / "unknown"
	)

	IndexRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "menurank",
			Name:      "index_request_duration_seconds",
			Help:      "Index service request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	IndexRetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Name:      "index_retry_attempts_total",
			Help:      "Zero-result category retries by encoding and outcome",
		},
		[]string{"encoding", "outcome"}, // outcome: "hit" / "miss"
	)

	FusionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Name:      "fusion_total",
			Help:      "Hybrid fusion attempts by outcome",
		},
		[]string{"outcome"}, // "fused" / "skipped" / "failed" / "rejected" / "unmapped"
	)

	ContextAdjustmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menurank",
			Name:      "context_adjustments_total",
			Help:      "Post-fusion context adjustments by rule",
		},
		[]string{"rule"},
	)

	SemanticAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "menurank",
			Name:      "semantic_available",
			Help:      "1 when the semantic service last reported itself available",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexRequestsTotal)
	prometheus.MustRegister(IndexRequestDuration)
	prometheus.MustRegister(IndexRetryAttemptsTotal)
	prometheus.MustRegister(FusionTotal)
	prometheus.MustRegister(ContextAdjustmentsTotal)
	prometheus.MustRegister(SemanticAvailable)
	searchMetricsRegistered = true
}
