package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consumeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attesto_nullifier_consume_total",
		Help: "Nullifier consume attempts by backend and outcome.",
	}, []string{"backend", "outcome"})

	consumeDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "attesto_nullifier_consume_duration_ms",
		Help:    "Latency of nullifier consume attempts in milliseconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
	}, []string{"backend"})
)

const (
	outcomeWon    = "won"
	outcomeReplay = "replay"
	outcomeError  = "error"
)

func observeConsume(backend string, start time.Time, outcome string) {
	consumeTotal.WithLabelValues(backend, outcome).Inc()
	consumeDurationMs.WithLabelValues(backend).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}
