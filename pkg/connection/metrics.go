package connection

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StatusMetrics records request outcomes in Prometheus. Its Observe method is
// a StatusHandler.
type StatusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewStatusMetrics registers the request collectors with reg. It panics if
// they are already registered there.
func NewStatusMetrics(reg prometheus.Registerer) *StatusMetrics {
	factory := promauto.With(reg)
	return &StatusMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "esconn",
				Name:      "requests_total",
				Help:      "Completed cluster requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "esconn",
				Name:      "request_duration_seconds",
				Help:      "Cluster request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// Observe records st. A transport failure is counted under code "error".
func (m *StatusMetrics) Observe(st Status) {
	code := strconv.Itoa(st.StatusCode)
	if st.Err != nil {
		code = "error"
	}
	m.requests.WithLabelValues(st.Method, code).Inc()
	m.duration.WithLabelValues(st.Method).Observe(st.Duration.Seconds())
}
