package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "attesto_ratelimit_decisions_total",
	Help: "Rate limit admission decisions by scope and outcome.",
}, []string{"scope", "outcome"})

const (
	decisionAllowed = "allowed"
	decisionDenied  = "denied"
	decisionError   = "error"
)

func observeDecision(scope Scope, outcome string) {
	decisionsTotal.WithLabelValues(string(scope), outcome).Inc()
}
