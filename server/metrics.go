package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var relayTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "agent_relay_envelopes_total",
		Help: "Number of envelopes received to and pulled from the relay mailboxes.",
	},
	[]string{"op"},
)

// Collectors returns the relay metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{relayTotal}
}
