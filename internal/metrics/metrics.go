// Package metrics exposes Prometheus collectors for HTTP traffic and database sessions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets, in seconds, for latency histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry registers collectors on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// Manager owns every collector the service reports.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	sessionAcquisitions *prometheus.CounterVec
	sessionReleaseFails prometheus.Counter
	sessionsInFlight    prometheus.Gauge
	queryDuration       *prometheus.HistogramVec
}

// NewManager creates collectors on a private registry unless WithRegistry says otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "ffquery",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   m.buckets,
	}, []string{"route", "method"})

	m.sessionAcquisitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "db",
		Name:      "session_acquisitions_total",
		Help:      "Database session acquisitions by outcome.",
	}, []string{"outcome"})

	m.sessionReleaseFails = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "db",
		Name:      "session_release_failures_total",
		Help:      "Sessions whose release returned an error.",
	})

	m.sessionsInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "db",
		Name:      "sessions_in_flight",
		Help:      "Sessions acquired and not yet released.",
	})

	m.queryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Statement latency by query name and outcome.",
		Buckets:   m.buckets,
	}, []string{"query", "outcome"})

	return m
}

// Registry returns the registry the collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished request.
func (m *Manager) ObserveHTTP(route, method string, status int, took time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(took.Seconds())
}

// SessionAcquired implements repository.QueryObserver.
func (m *Manager) SessionAcquired(err error) {
	if err != nil {
		m.sessionAcquisitions.WithLabelValues(outcomeError).Inc()
		return
	}
	m.sessionAcquisitions.WithLabelValues(outcomeOK).Inc()
	m.sessionsInFlight.Inc()
}

// QueryFinished implements repository.QueryObserver.
func (m *Manager) QueryFinished(name string, took time.Duration, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	m.queryDuration.WithLabelValues(name, outcome).Observe(took.Seconds())
}

// SessionReleased implements repository.QueryObserver.
func (m *Manager) SessionReleased(err error) {
	m.sessionsInFlight.Dec()
	if err != nil {
		m.sessionReleaseFails.Inc()
	}
}
