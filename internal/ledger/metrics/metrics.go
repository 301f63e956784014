package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Destinations for an accepted insert.
const (
	DestinationBackend  = "backend"
	DestinationFallback = "fallback"
)

// Metrics provides observability for the ledger store.
type Metrics struct {
	// Inserts by where the record landed
	Inserts *prometheus.CounterVec

	// Backend operation failures by operation ("connect", "insert", "find")
	BackendErrors *prometheus.CounterVec

	// Oldest fallback records dropped to make room
	FallbackEvictions prometheus.Counter

	FallbackSize prometheus.Gauge

	// 1 while the ledger is serving from the fallback buffer only
	Degraded prometheus.Gauge

	LookupLatency prometheus.Histogram
}

// New creates the ledger metrics and registers them with reg. Pass nil to use
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Inserts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritrust_ledger_inserts_total",
			Help: "Ledger inserts by destination",
		}, []string{"destination"}),

		BackendErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritrust_ledger_backend_errors_total",
			Help: "Failed durable backend operations by operation",
		}, []string{"op"}),

		FallbackEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "veritrust_ledger_fallback_evictions_total",
			Help: "Records evicted from the full in-memory fallback buffer",
		}),

		FallbackSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "veritrust_ledger_fallback_records",
			Help: "Records currently held in the in-memory fallback buffer",
		}),

		Degraded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "veritrust_ledger_degraded",
			Help: "1 when the durable backend is bypassed",
		}),

		LookupLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "veritrust_ledger_lookup_duration_seconds",
			Help:    "Duration of ledger lookups including the fallback merge",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncrementInsert(destination string) {
	if m != nil {
		m.Inserts.WithLabelValues(destination).Inc()
	}
}

func (m *Metrics) IncrementBackendError(op string) {
	if m != nil {
		m.BackendErrors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) IncrementEviction() {
	if m != nil {
		m.FallbackEvictions.Inc()
	}
}

func (m *Metrics) SetFallbackSize(n int) {
	if m != nil {
		m.FallbackSize.Set(float64(n))
	}
}

// SetDegraded flips the degraded gauge.
func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}

func (m *Metrics) ObserveLookup(d time.Duration) {
	if m != nil {
		m.LookupLatency.Observe(d.Seconds())
	}
}
