// Package observability provides Prometheus instrumentation for the
// resolution pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the resolver and server report into.
type Metrics struct {
	// Resolutions counts completed resolutions by outcome source
	// (procedural, pinned, cache, provider, no_results, fallback, ...).
	Resolutions *prometheus.CounterVec

	// ProviderRequestDuration observes provider search latency by provider
	// and status.
	ProviderRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors with reg. Passing
// prometheus.DefaultRegisterer wires them to the default /metrics output.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sceneforge",
			Name:      "resolutions_total",
			Help:      "Completed model resolutions by outcome source.",
		}, []string{"source"}),
		ProviderRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sceneforge",
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of provider search calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "status"}),
	}
	reg.MustRegister(m.Resolutions, m.ProviderRequestDuration)
	return m
}
