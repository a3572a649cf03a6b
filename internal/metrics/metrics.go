package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the service. Each instance
// owns its own registry so it can be injected into handlers and swapped for
// a fresh one in tests instead of accumulating in process-global state.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ConversionsTotal    *prometheus.CounterVec
}

// New creates the metrics instruments on a dedicated registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forex_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forex_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forex_conversions_total",
				Help: "Total number of currency conversions",
			},
			[]string{"from_currency", "to_currency"},
		),
	}
}

// Registry returns the registry backing this metrics instance, for exposition
func (serviceMetrics *Metrics) Registry() *prometheus.Registry {
	return serviceMetrics.registry
}
