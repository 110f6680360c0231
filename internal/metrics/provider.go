package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search provider Prometheus metrics.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Provider searches by outcome",
		},
		[]string{"provider", "status"}, // "ok" / "error"
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Provider search wall-clock duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	ProviderHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_hits",
			Help:      "Number of hits returned per provider search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"provider"},
	)

	ComparisonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Completed comparisons by fastest provider",
		},
		[]string{"fastest"},
	)
)

// ObserveProvider records one settled provider search.
func ObserveProvider(provider string, seconds float64, hits int, failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(seconds)
	if !failed {
		ProviderHits.WithLabelValues(provider).Observe(float64(hits))
	}
}
