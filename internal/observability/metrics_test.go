package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Resolutions.WithLabelValues("cache").Inc()
	m.Resolutions.WithLabelValues("cache").Inc()
	m.Resolutions.WithLabelValues("fallback").Inc()
	m.ProviderRequestDuration.WithLabelValues("polypizza", "ok").Observe(0.25)

	if got := testutil.ToFloat64(m.Resolutions.WithLabelValues("cache")); got != 2 {
		t.Errorf("cache resolutions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Resolutions.WithLabelValues("fallback")); got != 1 {
		t.Errorf("fallback resolutions = %v, want 1", got)
	}

	if got := testutil.CollectAndCount(m.ProviderRequestDuration); got != 1 {
		t.Errorf("provider duration series = %d, want 1", got)
	}
}

func TestNewMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	// Histograms without observations gather empty; counters appear once
	// a label combination exists. Registration itself must not fail twice.
	_ = families

	defer func() {
		if recover() == nil {
			t.Error("registering the same collectors twice must panic")
		}
	}()
	NewMetrics(reg)
}
