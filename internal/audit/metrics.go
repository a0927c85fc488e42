package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeDelivered = "delivered"
	outcomeDropped   = "dropped"
	outcomeFailed    = "failed"
)

var publishTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "attesto_audit_publish_total",
		Help: "Audit event publish attempts by outcome.",
	},
	[]string{"outcome"},
)

func observePublish(outcome string) {
	publishTotal.WithLabelValues(outcome).Inc()
}
