package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/hallticket-portal/internal/examstatus"
)

// Lookup outcomes recorded per view.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeNotFound    = "not_found"
	OutcomeInvalidDate = "invalid_date"
	OutcomeStoreError  = "store_error"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	storeDuration   *prometheus.HistogramVec
	lookups         *prometheus.CounterVec
	roomStates      *prometheus.CounterVec
	loginsRejected  prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
	requestCount   uint64
}

// MetricsSnapshot summarises in-process counters for health output.
type MetricsSnapshot struct {
	RequestsTotal uint64  `json:"requests_total"`
	CacheHitRatio float64 `json:"cache_hit_ratio"`
	Goroutines    int     `json:"goroutines"`
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_query_duration_seconds",
		Help:    "Duration of backing store lookups",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_lookups_total",
		Help: "Portal view lookups by outcome",
	}, []string{"view", "outcome"})

	roomStates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_room_states_total",
		Help: "Resolved room display states",
	}, []string{"state"})

	loginsRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_logins_rejected_total",
		Help: "Login attempts with an unknown roll number",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		storeDuration, lookups, roomStates, loginsRejected, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		storeDuration:   storeDuration,
		lookups:         lookups,
		roomStates:      roomStates,
		loginsRejected:  loginsRejected,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	m.cacheHitRatio.Set(m.hitRatio())
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveStoreQuery records backing store lookup timing.
func (m *MetricsService) ObserveStoreQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordLookup counts one view lookup by outcome.
func (m *MetricsService) RecordLookup(view, outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(view, outcome).Inc()
}

// RecordRoomState counts one resolved room display state.
func (m *MetricsService) RecordRoomState(state examstatus.State) {
	if m == nil {
		return
	}
	m.roomStates.WithLabelValues(string(state)).Inc()
}

// RecordRejectedLogin counts a login with an unknown roll number.
func (m *MetricsService) RecordRejectedLogin() {
	if m == nil {
		return
	}
	m.loginsRejected.Inc()
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		RequestsTotal: atomic.LoadUint64(&m.requestCount),
		CacheHitRatio: m.hitRatio(),
		Goroutines:    runtime.NumGoroutine(),
	}
}

func (m *MetricsService) hitRatio() float64 {
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
