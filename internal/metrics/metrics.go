// Package metrics holds the Prometheus collectors for the site.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a private registry with the application collectors.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DemoSessions    *prometheus.GaugeVec
	DemoLaunches    *prometheus.CounterVec
	DemoActions     *prometheus.CounterVec
	ContactMessages *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		DemoSessions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "portfolio_demo_sessions_open",
				Help: "Open demo sessions by kind",
			},
			[]string{"kind"},
		),
		DemoLaunches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_demo_launches_total",
				Help: "Demo sessions created by kind",
			},
			[]string{"kind"},
		),
		DemoActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_demo_actions_total",
				Help: "Demo actions by kind, action and outcome",
			},
			[]string{"kind", "action", "outcome"},
		),
		ContactMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_messages_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(
		m.Requests, m.RequestDuration,
		m.DemoSessions, m.DemoLaunches, m.DemoActions,
		m.ContactMessages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, took time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(took.Seconds())
}
