package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verifier module.
type Metrics struct {
	// Terminal verification outcomes by claim and outcome
	VerifyOutcome *prometheus.CounterVec

	// Full verification latency including the ledger write
	VerifyLatency prometheus.Histogram

	// Cryptographic verification latency alone
	ProofCheckLatency prometheus.Histogram
}

// New creates a Metrics instance with all verifier metrics registered.
func New() *Metrics {
	return &Metrics{
		VerifyOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attesto_verify_outcomes_total",
			Help: "Total terminal verification outcomes by claim and outcome",
		}, []string{"claim", "outcome"}), // outcome: "accepted", "proof_invalid", "proof_already_used"

		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attesto_verify_duration_seconds",
			Help:    "Duration of full bundle verification including the ledger write",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		ProofCheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attesto_verify_proof_check_duration_seconds",
			Help:    "Duration of the cryptographic proof check alone",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// IncrementOutcome records a terminal verification outcome.
func (m *Metrics) IncrementOutcome(claim, outcome string) {
	if m != nil {
		m.VerifyOutcome.WithLabelValues(claim, outcome).Inc()
	}
}

// ObserveVerifyLatency records the total verification duration.
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}

// ObserveProofCheckLatency records the duration of the cryptographic check.
func (m *Metrics) ObserveProofCheckLatency(d time.Duration) {
	if m != nil {
		m.ProofCheckLatency.Observe(d.Seconds())
	}
}
