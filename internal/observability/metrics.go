package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/devops-app/internal/config"
)

// Metrics owns the process-wide Prometheus registry and the request-level
// metric vectors. It is created once at startup and passed by reference to
// every request-handling context; series are materialized lazily on first
// observation, so label sets that were never seen do not appear in the
// exposition output.
//
// Label cardinality is unbounded here: the endpoint label carries the raw
// request path, so operators must keep dynamic path segments out of the
// routed surface or accept the memory growth.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics initializes the registry and registers all request metrics.
func NewMetrics(cfg config.MetricsConfig) *Metrics {
	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Request latency",
				Buckets: buckets,
			},
			[]string{"method", "endpoint"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_request_errors_total",
				Help: "Total HTTP requests that resolved to an application error",
			},
			[]string{"method", "endpoint", "code"},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.errorsTotal)
	return m
}

// IncrementRequests counts one completed request. The series for the label
// combination is created on first use.
func (m *Metrics) IncrementRequests(method, endpoint, status string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// ObserveDuration records one request latency sample in seconds.
func (m *Metrics) ObserveDuration(method, endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordError increments the error counter for a failed request.
func (m *Metrics) RecordError(method, endpoint, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(method, endpoint, code).Inc()
}

// Handler returns the scrape endpoint handler. The default handler options
// keep OpenMetrics negotiation off, so Prometheus scrapers receive the
// text/plain; version=0.0.4 exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
