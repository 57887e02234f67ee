// Package metrics provides Prometheus metrics for the affinity signal service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// scoreBuckets cover the [30,100] compatibility range in steps of ten.
var scoreBuckets = []float64{30, 40, 50, 60, 70, 80, 90, 100} //nolint:gochecknoglobals // fixed bucket layout

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Pipeline
	buildsProcessed  *prometheus.CounterVec
	buildsDuplicate  prometheus.Counter
	buildLatency     prometheus.Histogram
	fieldResolutions *prometheus.CounterVec
	degradedFields   *prometheus.CounterVec

	// Reasoning service
	reasoningCalls   *prometheus.CounterVec
	reasoningLatency prometheus.Histogram
	reasoningRetries prometheus.Counter

	// Scoring
	compatibilityScores prometheus.Histogram

	// Signal store
	storeUpserts       prometheus.Counter
	storeErrors        *prometheus.CounterVec
	storeRecords       prometheus.Gauge
	storeUpsertLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActive            prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec
	errorLatency      *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "affinity",
		subsystem:        "signals",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) register() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.buildsProcessed = auto.NewCounterVec(m.counterOpts("builds_processed_total", "Profile builds processed by outcome status"), []string{"status"})
	m.buildsDuplicate = auto.NewCounter(m.counterOpts("builds_duplicate_total", "Build requests rejected as duplicates"))
	m.buildLatency = auto.NewHistogram(m.histOpts("build_latency_milliseconds", "End-to-end profile build latency in milliseconds", nil))
	m.fieldResolutions = auto.NewCounterVec(m.counterOpts("field_resolutions_total", "Field resolutions by field and decision method"), []string{"field", "method"})
	m.degradedFields = auto.NewCounterVec(m.counterOpts("degraded_fields_total", "Fields that fell back to a degraded value"), []string{"field"})

	m.reasoningCalls = auto.NewCounterVec(m.counterOpts("reasoning_calls_total", "Reasoning service calls by outcome"), []string{"outcome"})
	m.reasoningLatency = auto.NewHistogram(m.histOpts("reasoning_latency_milliseconds", "Reasoning service call latency in milliseconds", nil))
	m.reasoningRetries = auto.NewCounter(m.counterOpts("reasoning_retries_total", "Reasoning service retries"))

	m.compatibilityScores = auto.NewHistogram(m.histOpts("compatibility_score", "Distribution of computed compatibility scores", scoreBuckets))

	m.storeUpserts = auto.NewCounter(m.counterOpts("store_upserts_total", "Match signal records upserted"))
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total", "Signal store errors by operation"), []string{"operation"})
	m.storeRecords = auto.NewGauge(m.gaugeOpts("store_records", "Match signal records currently stored"))
	m.storeUpsertLatency = auto.NewHistogram(m.histOpts("store_upsert_latency_milliseconds", "Signal store upsert latency in milliseconds", nil))
	m.storeQueryLatency = auto.NewHistogram(m.histOpts("store_query_latency_milliseconds", "Signal store read latency in milliseconds", nil))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Build requests waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (size / capacity)"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Build requests enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Build requests dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Rejected enqueue attempts"))
	m.queueProcessingLatency = auto.NewHistogram(m.histOpts("queue_processing_latency_milliseconds", "Enqueue latency in milliseconds", nil))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured build workers"))
	m.workerActive = auto.NewGauge(m.gaugeOpts("worker_active_count", "Workers currently running"))
	m.workerMessagesPerSecond = auto.NewGauge(m.gaugeOpts("worker_messages_per_second", "Builds processed per second across the pool"))
	m.workerProcessingLatency = auto.NewHistogram(m.histOpts("worker_processing_latency_milliseconds", "Worker build+upsert latency in milliseconds", nil))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Worker processing errors"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", nil), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component"), []string{"component", "error_type"})
	m.errorsByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", nil), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histOpts("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
