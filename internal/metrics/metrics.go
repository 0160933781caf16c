// Package metrics exposes Prometheus instrumentation for catalog queries.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server instance.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	queryResults    *prometheus.HistogramVec
	lookupMisses    prometheus.Counter
	catalogSize     prometheus.Gauge
}

// New registers the catalog collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		// requestsTotal counts API requests by route and status code
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estates_http_requests_total",
			Help: "Total API requests by route and status code",
		}, []string{"route", "code"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "estates_http_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~400ms
		}, []string{"route"}),

		// queryResults tracks how many projects each query returns
		queryResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "estates_query_results",
			Help:    "Number of projects matched per catalog query",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}, []string{"kind"}),

		lookupMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "estates_lookup_misses_total",
			Help: "Project id lookups that found nothing",
		}),

		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "estates_catalog_projects",
			Help: "Number of projects in the loaded catalog",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.queryResults,
		m.lookupMisses,
		m.catalogSize,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetCatalogSize records the number of loaded projects.
func (m *Metrics) SetCatalogSize(n int) {
	m.catalogSize.Set(float64(n))
}

// ObserveQuery records the size of a query result.
func (m *Metrics) ObserveQuery(kind string, matched int) {
	m.queryResults.WithLabelValues(kind).Observe(float64(matched))
}

// LookupMiss counts a failed id lookup.
func (m *Metrics) LookupMiss() {
	m.lookupMisses.Inc()
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
