package store

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts responses dropped by the generation guard.
type Metrics struct {
	staleResponses *prometheus.CounterVec
}

// NewMetrics creates the store counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		staleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netconsole",
			Subsystem: "store",
			Name:      "stale_responses_total",
			Help:      "Fetch responses discarded because a newer fetch was started.",
		}, []string{"resource"}),
	}
	reg.MustRegister(m.staleResponses)
	return m
}

func (m *Metrics) stale(resource string) {
	if m == nil {
		return
	}
	m.staleResponses.WithLabelValues(resource).Inc()
}

// StaleResponses returns the stale-response counter for resource.
func (m *Metrics) StaleResponses(resource string) prometheus.Counter {
	return m.staleResponses.WithLabelValues(resource)
}
