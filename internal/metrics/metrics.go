package metrics

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the console's Prometheus instrumentation.
type Metrics struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	staleDrops       *prometheus.CounterVec
	debounceDropped  *prometheus.CounterVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	activeWorkspaces prometheus.Gauge
}

// New registers the core collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of console HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of console HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of platform API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	upstreamTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total number of platform API requests",
	}, []string{"method", "path", "status"})

	staleDrops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collection_stale_responses_dropped_total",
		Help: "Responses discarded because a newer fetch superseded them",
	}, []string{"screen"})

	debounceDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "debounce_suppressed_total",
		Help: "Search triggers absorbed by the debounce window",
	}, []string{"screen"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lookup_cache_hits_total",
		Help: "Lookup-list reads served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lookup_cache_misses_total",
		Help: "Lookup-list reads that went to the platform",
	})

	activeWorkspaces := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "active_workspaces",
		Help: "Console workspaces currently held in memory",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, upstreamTotal,
		staleDrops, debounceDropped, cacheHits, cacheMisses, activeWorkspaces, goroutines)

	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		upstreamTotal:    upstreamTotal,
		staleDrops:       staleDrops,
		debounceDropped:  debounceDropped,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		activeWorkspaces: activeWorkspaces,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records timing for one console request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstreamRequest records timing for one platform API request.
// Status 0 means the transport failed before a response arrived.
func (m *Metrics) ObserveUpstreamRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.upstreamDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.upstreamTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordStaleDrop counts a response discarded under a newer generation.
func (m *Metrics) RecordStaleDrop(screen string) {
	if m == nil {
		return
	}
	m.staleDrops.WithLabelValues(screen).Inc()
}

// RecordDebounceSuppressed counts a search trigger absorbed by the window.
func (m *Metrics) RecordDebounceSuppressed(screen string) {
	if m == nil {
		return
	}
	m.debounceDropped.WithLabelValues(screen).Inc()
}

// RecordCacheLookup counts a lookup-list cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// SetActiveWorkspaces reports how many workspaces are resident.
func (m *Metrics) SetActiveWorkspaces(n int) {
	if m == nil {
		return
	}
	m.activeWorkspaces.Set(float64(n))
}
