package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records pricing outcomes. A nil *PricingMetrics is a no-op.
type PricingMetrics struct {
	duration    *prometheus.HistogramVec
	priced      *prometheus.CounterVec
	failed      *prometheus.CounterVec
	adjustments *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "doorquote_pricing_duration_seconds",
		Help:    "Duration of quotation pricing runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	priced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "doorquote_quotations_priced_total",
		Help: "Successful quotation pricing runs.",
	}, []string{"operation"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "doorquote_pricing_failures_total",
		Help: "Failed quotation pricing runs by error code.",
	}, []string{"operation", "code"})
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "doorquote_pricing_adjustments_total",
		Help: "Recorded pricing adjustments by code.",
	}, []string{"code"})
	reg.MustRegister(duration, priced, failed, adjustments)
	return &PricingMetrics{
		duration:    duration,
		priced:      priced,
		failed:      failed,
		adjustments: adjustments,
	}
}

func (m *PricingMetrics) ObserveDuration(operation string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

func (m *PricingMetrics) IncPriced(operation string) {
	if m == nil || m.priced == nil {
		return
	}
	m.priced.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *PricingMetrics) IncFailure(operation, code string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

func (m *PricingMetrics) AddAdjustment(code string) {
	if m == nil || m.adjustments == nil {
		return
	}
	m.adjustments.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
