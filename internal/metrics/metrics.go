package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Orders          prometheus.Counter
	Reviews         prometheus.Counter
	Signups         *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_orders_created_total",
			Help: "Orders recorded at checkout.",
		}),
		Reviews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_reviews_added_total",
			Help: "Reviews appended to catalog items.",
		}),
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookstore_signups_total",
			Help: "Accounts created by role.",
		}, []string{"role"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests, m.RequestDuration, m.Orders, m.Reviews, m.Signups,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
