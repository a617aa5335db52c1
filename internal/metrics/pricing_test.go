package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPricingMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPricingMetrics(reg)

	m.ObserveDuration("price", 15*time.Millisecond)
	m.IncPriced("price")
	m.IncPriced("price")
	m.IncFailure("create", "CONFIGURATION_ERROR")
	m.AddAdjustment("negative_cost_clamped")

	if got := testutil.ToFloat64(m.priced.WithLabelValues("price")); got != 2 {
		t.Fatalf("expected priced=2, got %f", got)
	}
	if got := testutil.ToFloat64(m.failed.WithLabelValues("create", "CONFIGURATION_ERROR")); got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}
	if got := testutil.ToFloat64(m.adjustments.WithLabelValues("negative_cost_clamped")); got != 1 {
		t.Fatalf("expected adjustments=1, got %f", got)
	}
	if n := testutil.CollectAndCount(m.duration, "doorquote_pricing_duration_seconds"); n != 1 {
		t.Fatalf("expected one duration series, got %d", n)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if len(mfs) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(mfs))
	}
}

func TestPricingMetricsEmptyLabelIsNormalized(t *testing.T) {
	m := NewPricingMetrics(prometheus.NewRegistry())
	m.AddAdjustment("")

	if got := testutil.ToFloat64(m.adjustments.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}
}

func TestPricingMetricsNilSafe(t *testing.T) {
	var m *PricingMetrics
	m.ObserveDuration("price", time.Second)
	m.IncPriced("price")
	m.IncFailure("price", "VALIDATION_ERROR")
	m.AddAdjustment("discount_clamped")

	unregistered := NewPricingMetrics(nil)
	unregistered.IncPriced("price")
}
