// Package metrics holds the Prometheus collectors for the admin app.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mdp_admin"

type Metrics struct {
	registry *prometheus.Registry

	// HTTP requests served by the dashboard
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// calls made to the REST backend
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// table loads dropped because a newer load replaced them
	TableLoadsSuperseded prometheus.Counter
}

// New builds a Metrics bound to its own registry so tests can create as
// many as they like.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UpstreamRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total requests sent to the REST backend",
		}, []string{"method", "status"}),
		UpstreamRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "REST backend request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		TableLoadsSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_loads_superseded_total",
			Help:      "Table loads discarded because a newer load started",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UpstreamRequestsTotal,
		m.UpstreamRequestDuration,
		m.TableLoadsSuperseded,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveUpstream records a backend call. Status 0 means the request never
// got a response.
func (m *Metrics) ObserveUpstream(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.UpstreamRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) IncSuperseded() {
	if m == nil {
		return
	}
	m.TableLoadsSuperseded.Inc()
}
