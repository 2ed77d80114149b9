package logger

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	counter     *prometheus.CounterVec   //nolint:gochecknoglobals
	counterOnce sync.Once                //nolint:gochecknoglobals
	requests    *prometheus.HistogramVec //nolint:gochecknoglobals
	requestOnce sync.Once                //nolint:gochecknoglobals
)

// PrometheusHook counts log statements per level.
type PrometheusHook struct{}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level != zerolog.NoLevel {
		counter.WithLabelValues(level.String()).Inc()
	}
}

// NewPrometheusHook registers the log_statements_total counter on first use.
// The service label of the first call wins.
func NewPrometheusHook(service string) PrometheusHook {
	counterOnce.Do(func() {
		counter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	})

	return PrometheusHook{}
}

// RequestMetrics records the latency of served HTTP requests.
type RequestMetrics struct {
	vec *prometheus.HistogramVec
}

// NewRequestMetrics registers http_request_duration_seconds on first use.
func NewRequestMetrics() RequestMetrics {
	requestOnce.Do(func() {
		requests = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests by method, route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		)
	})

	return RequestMetrics{vec: requests}
}

// Observe records one request. route must be the route pattern, not the raw
// path, to keep the label set small.
func (m RequestMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	m.vec.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Collector exposes the histogram, mainly for tests.
func (m RequestMetrics) Collector() prometheus.Collector {
	return m.vec
}
