// Package metrics provides Prometheus metrics for the sync server
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors of the server. Each instance owns its
// registry so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	RateLimitedTotal     prometheus.Counter

	// Sync metrics
	PullsTotal         *prometheus.CounterVec
	PulledEntities     *prometheus.CounterVec
	PushItemsTotal     *prometheus.CounterVec
	QuotaRejectedTotal prometheus.Counter

	ServerStartTime time.Time
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg, ServerStartTime: time.Now()}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatsync_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatsync_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	m.HTTPRequestsInFlight = factory.NewGauge(prometheus.GaugeOpts{
		Name: "chatsync_http_requests_in_flight",
		Help: "Number of HTTP requests currently being processed",
	})
	m.RateLimitedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "chatsync_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})

	m.PullsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatsync_pulls_total",
			Help: "Pull calls by mode (full or incremental) and status",
		},
		[]string{"mode", "status"},
	)
	m.PulledEntities = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatsync_pulled_entities_total",
			Help: "Entities returned by pulls",
		},
		[]string{"kind"},
	)
	m.PushItemsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatsync_push_items_total",
			Help: "Pushed items by kind and outcome (created, updated, error)",
		},
		[]string{"kind", "outcome"},
	)
	m.QuotaRejectedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "chatsync_quota_rejected_total",
		Help: "Direct chat creations rejected by the chat quota",
	})

	return m
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (m *Metrics) RecordPull(incremental bool, err error, chats, messages, memories int) {
	mode := "full"
	if incremental {
		mode = "incremental"
	}
	if err != nil {
		m.PullsTotal.WithLabelValues(mode, "error").Inc()
		return
	}
	m.PullsTotal.WithLabelValues(mode, "ok").Inc()
	m.PulledEntities.WithLabelValues("chat").Add(float64(chats))
	m.PulledEntities.WithLabelValues("message").Add(float64(messages))
	m.PulledEntities.WithLabelValues("memory").Add(float64(memories))
}

func (m *Metrics) RecordPushBatch(kind string, created, updated, failed int) {
	m.PushItemsTotal.WithLabelValues(kind, "created").Add(float64(created))
	m.PushItemsTotal.WithLabelValues(kind, "updated").Add(float64(updated))
	m.PushItemsTotal.WithLabelValues(kind, "error").Add(float64(failed))
}
