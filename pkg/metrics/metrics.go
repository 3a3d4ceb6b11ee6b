// Package metrics provides Prometheus instrumentation for the Bazario client.
//
// The daemon exposes these on GET /metrics; one-shot CLI commands record them
// too, which keeps the call sites uniform even when nothing scrapes them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequestTotal counts outgoing backend API requests.
	APIRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazario",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total outgoing backend API requests.",
		},
		[]string{"method", "status"},
	)

	// APIRequestDuration tracks outgoing request latency.
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bazario",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of outgoing backend API requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// CacheHits / CacheMisses track query-cache effectiveness.
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazario",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total query-cache hits.",
		},
		[]string{"driver"}, // "redis" | "memory"
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazario",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total query-cache misses.",
		},
		[]string{"driver"},
	)

	// CartSyncFailures counts cart mutations that could not be mirrored to
	// the backend (the local edit is kept regardless).
	CartSyncFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bazario",
		Subsystem: "cart",
		Name:      "sync_failures_total",
		Help:      "Cart mutations that failed to reach the backend.",
	})

	// StaleFetchesDiscarded counts remote cart responses dropped because a
	// newer fetch had already been issued.
	StaleFetchesDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bazario",
		Subsystem: "cart",
		Name:      "stale_fetches_discarded_total",
		Help:      "Remote cart responses discarded as superseded.",
	})

	// SessionExpiries counts sessions torn down by the token-expiry watchdog.
	SessionExpiries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bazario",
		Subsystem: "session",
		Name:      "expiries_total",
		Help:      "Sessions cleared by the token-expiry watchdog.",
	})
)

// DefaultRegistry is the Prometheus registry used by Bazario.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		APIRequestTotal,
		APIRequestDuration,
		CacheHits,
		CacheMisses,
		CartSyncFailures,
		StaleFetchesDiscarded,
		SessionExpiries,
	)
}

// MustRegister adds custom collectors to the Bazario registry.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ObserveAPIRequest records one outgoing API request.
//
//	defer metrics.ObserveAPIRequest("GET", status, time.Now())
func ObserveAPIRequest(method, status string, start time.Time) {
	APIRequestTotal.WithLabelValues(method, status).Inc()
	APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// Handler returns an http.HandlerFunc that exposes the Prometheus metrics page.
// The daemon mounts it on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
