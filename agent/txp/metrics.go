package txp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var (
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_dispatch_total",
			Help: "Number of envelope dispatches and inbox reads by scheme and outcome.",
		},
		[]string{"scheme", "outcome"},
	)
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_dispatch_duration_seconds",
			Help:    "Duration of envelope dispatches and inbox reads.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scheme"},
	)
)

// Collectors returns the transport metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{dispatchTotal, dispatchDuration}
}

// RegisterMetrics registers the transport metrics to the registerer, e.g.
// prometheus.DefaultRegisterer.
func RegisterMetrics(r prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func observe(scheme string, start time.Time, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	dispatchTotal.WithLabelValues(scheme, outcome).Inc()
	dispatchDuration.WithLabelValues(scheme).Observe(time.Since(start).Seconds())
}
