package service

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/belalwws/noor-academy-sub008/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the sync
// gateway and provides lightweight snapshots for the status endpoint. It
// implements liststore.Observer and upstream.Observer.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	optimisticApplied *prometheus.CounterVec
	optimisticRevert  *prometheus.CounterVec
	reconcileTotal    prometheus.Counter
	reconcilePreserve prometheus.Counter
	upstreamDuration  *prometheus.HistogramVec

	appliedCount         uint64
	revertedCount        uint64
	reconcileCount       uint64
	preservedCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	upstreamCount        uint64
	upstreamFailCount    uint64
	upstreamDurTotal     uint64
}

// NewMetricsService registers the gateway's Prometheus collectors.
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

	optimisticApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_optimistic_applied_total",
		Help: "Optimistic mutations applied to a list store",
	}, []string{"op"})

	optimisticRevert := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_optimistic_reverted_total",
		Help: "Optimistic mutations reverted after a remote failure",
	}, []string{"op"})

	reconcileTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_reconciles_total",
		Help: "Reconcile passes merged into a list store",
	})

	reconcilePreserve := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_reconcile_preserved_entities_total",
		Help: "Locally created entities preserved through a reconcile",
	})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of requests to the platform backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	registry.MustRegister(requestDuration, requestTotal, optimisticApplied, optimisticRevert, reconcileTotal, reconcilePreserve, upstreamDuration)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		optimisticApplied: optimisticApplied,
		optimisticRevert:  optimisticRevert,
		reconcileTotal:    reconcileTotal,
		reconcilePreserve: reconcilePreserve,
		upstreamDuration:  upstreamDuration,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveUpstreamRequest implements upstream.Observer. Status 0 marks a
// request that never reached the backend.
func (m *MetricsService) ObserveUpstreamRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(method, path, fmt.Sprintf("%d", status)).Observe(duration.Seconds())
	atomic.AddUint64(&m.upstreamCount, 1)
	atomic.AddUint64(&m.upstreamDurTotal, uint64(duration.Nanoseconds()))
	if status == 0 || status >= http.StatusInternalServerError {
		atomic.AddUint64(&m.upstreamFailCount, 1)
	}
}

// OptimisticApplied implements liststore.Observer.
func (m *MetricsService) OptimisticApplied(op string) {
	if m == nil {
		return
	}
	m.optimisticApplied.WithLabelValues(op).Inc()
	atomic.AddUint64(&m.appliedCount, 1)
}

// OptimisticReverted implements liststore.Observer.
func (m *MetricsService) OptimisticReverted(op string) {
	if m == nil {
		return
	}
	m.optimisticRevert.WithLabelValues(op).Inc()
	atomic.AddUint64(&m.revertedCount, 1)
}

// Reconciled implements liststore.Observer.
func (m *MetricsService) Reconciled(merged, preserved int) {
	if m == nil {
		return
	}
	m.reconcileTotal.Inc()
	m.reconcilePreserve.Add(float64(preserved))
	atomic.AddUint64(&m.reconcileCount, 1)
	atomic.AddUint64(&m.preservedCount, uint64(preserved))
}

// Snapshot returns aggregated metrics for the status endpoint.
func (m *MetricsService) Snapshot() models.SyncMetricsSnapshot {
	if m == nil {
		return models.SyncMetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	upstream := atomic.LoadUint64(&m.upstreamCount)
	upDuration := atomic.LoadUint64(&m.upstreamDurTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}
	var avgUpstreamMs float64
	if upstream > 0 {
		avgUpstreamMs = float64(upDuration) / float64(upstream) / float64(time.Millisecond)
	}

	return models.SyncMetricsSnapshot{
		OptimisticApplied:  atomic.LoadUint64(&m.appliedCount),
		OptimisticReverted: atomic.LoadUint64(&m.revertedCount),
		Reconciles:         atomic.LoadUint64(&m.reconcileCount),
		PreservedEntities:  atomic.LoadUint64(&m.preservedCount),
		UpstreamRequests:   upstream,
		UpstreamFailures:   atomic.LoadUint64(&m.upstreamFailCount),
		AverageUpstreamMs:  avgUpstreamMs,
		RequestsTotal:      requests,
		AverageRequestMs:   avgRequestMs,
		GeneratedAt:        time.Now().UTC(),
	}
}
