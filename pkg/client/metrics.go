package client

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts backend requests by method, path and status code. Code
// "error" marks transport failures.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics creates the request counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netconsole",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Backend requests by method, path and status code.",
		}, []string{"method", "path", "code"}),
	}
	reg.MustRegister(m.requests)
	return m
}

func (m *Metrics) observe(method, path string, status int) {
	if m == nil {
		return
	}
	code := "error"
	if status != 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, path, code).Inc()
}

// Requests returns the counter for one method/path/code combination.
func (m *Metrics) Requests(method, path, code string) prometheus.Counter {
	return m.requests.WithLabelValues(method, path, code)
}
