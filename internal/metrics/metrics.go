// Package metrics holds the Prometheus collectors of the portal.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	accessDecisions *prometheus.CounterVec
	storeOps        *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
}

// New creates a registry with the process/Go collectors and the portal metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry: reg,
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mvc_http_requests_total",
				Help: "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mvc_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		accessDecisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mvc_access_decisions_total",
				Help: "Access router decisions by outcome",
			},
			[]string{"outcome"},
		),
		storeOps: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mvc_inventory_store_operations_total",
				Help: "Inventory store operations by operation, category and result",
			},
			[]string{"op", "category", "result"},
		),
		authEvents: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mvc_auth_events_total",
				Help: "Sign-in, sign-up, sign-out and password reset attempts by result",
			},
			[]string{"event", "result"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry (used by tests).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, code).Inc()
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

// ObserveAccess records an access router decision.
func (m *Metrics) ObserveAccess(outcome string) {
	if m == nil {
		return
	}
	m.accessDecisions.WithLabelValues(outcome).Inc()
}

// ObserveStore records one inventory store call.
func (m *Metrics) ObserveStore(op, category string, err error) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, category, result(err)).Inc()
}

// ObserveAuth records one account operation.
func (m *Metrics) ObserveAuth(event string, err error) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
