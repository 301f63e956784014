package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification service.
type Metrics struct {
	// Completed verifications by kind ("face", "document", "score", "fraud-check")
	Verifications *prometheus.CounterVec

	// Failed verifications by kind and error code
	Failures *prometheus.CounterVec

	// Flagged fraud checks by reason
	FraudFlags *prometheus.CounterVec

	// Collaborator latency by kind
	CheckLatency *prometheus.HistogramVec
}

// New creates the verification metrics and registers them with reg. Pass nil
// to use the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritrust_verifications_total",
			Help: "Completed verifications by kind",
		}, []string{"kind"}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritrust_verification_failures_total",
			Help: "Rejected or failed verifications by kind and error code",
		}, []string{"kind", "code"}),

		FraudFlags: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritrust_fraud_flags_total",
			Help: "Flagged duplicate-use checks by reason",
		}, []string{"reason"}),

		CheckLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veritrust_verification_check_duration_seconds",
			Help:    "Duration of checker calls by kind",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncrementVerification(kind string) {
	if m != nil {
		m.Verifications.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementFailure(kind, code string) {
	if m != nil {
		m.Failures.WithLabelValues(kind, code).Inc()
	}
}

func (m *Metrics) IncrementFraudFlag(reason string) {
	if m != nil {
		m.FraudFlags.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) ObserveCheck(kind string, d time.Duration) {
	if m != nil {
		m.CheckLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}
