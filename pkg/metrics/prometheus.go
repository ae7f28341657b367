// Package metrics provides Prometheus metrics for the rankings dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Render pass metrics
	renderPasses   prometheus.Counter
	renderLatency  prometheus.Histogram
	renderDegraded *prometheus.CounterVec
	renderViewRows prometheus.Histogram
	renderByMetric *prometheus.CounterVec

	// Dataset metrics
	datasetRows         prometheus.Gauge
	datasetCountries    prometheus.Gauge
	datasetSkippedRows  prometheus.Gauge
	datasetNulls        *prometheus.GaugeVec
	datasetLoadDuration prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "unirank",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.renderPasses = auto.NewCounter(m.counterOpts(
		"render_passes_total", "Total number of dashboard render passes"))
	m.renderLatency = auto.NewHistogram(m.histogramOpts(
		"render_latency_milliseconds", "Render pass latency in milliseconds", m.histogramBuckets))
	m.renderDegraded = auto.NewCounterVec(m.counterOpts(
		"render_degraded_total", "Render passes that fell back to a placeholder state, by reason"),
		[]string{"reason"})
	m.renderViewRows = auto.NewHistogram(m.histogramOpts(
		"render_view_rows", "Number of records in the filtered view per render pass",
		prometheus.ExponentialBuckets(1, 4, 8)))
	m.renderByMetric = auto.NewCounterVec(m.counterOpts(
		"render_metric_selections_total", "Render passes by selected metric"),
		[]string{"metric"})

	m.datasetRows = auto.NewGauge(m.gaugeOpts(
		"dataset_rows", "Number of university records loaded"))
	m.datasetCountries = auto.NewGauge(m.gaugeOpts(
		"dataset_countries", "Number of distinct countries in the dataset"))
	m.datasetSkippedRows = auto.NewGauge(m.gaugeOpts(
		"dataset_skipped_rows", "Source rows dropped for a missing name or country"))
	m.datasetNulls = auto.NewGaugeVec(m.gaugeOpts(
		"dataset_null_values", "Null cells per metric column"),
		[]string{"metric"})
	m.datasetLoadDuration = auto.NewGauge(m.gaugeOpts(
		"dataset_load_duration_milliseconds", "Time spent reading and parsing the dataset"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Render pass metrics.

// RecordRenderPass records one completed render pass.
func (m *Manager) RecordRenderPass(metric string, viewRows int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.renderPasses.Inc()
	m.renderByMetric.WithLabelValues(metric).Inc()
	m.renderViewRows.Observe(float64(viewRows))
	m.renderLatency.Observe(latencyMs)
}

// RecordRenderDegraded counts a render pass that showed a placeholder.
func (m *Manager) RecordRenderDegraded(reason string) {
	if !m.enabled {
		return
	}
	m.renderDegraded.WithLabelValues(reason).Inc()
}

// RecordRenderPass records a render pass on the global manager.
func RecordRenderPass(metric string, viewRows int, latencyMs float64) {
	globalManager.RecordRenderPass(metric, viewRows, latencyMs)
}

// RecordRenderDegraded records a degraded render pass on the global manager.
func RecordRenderDegraded(reason string) {
	globalManager.RecordRenderDegraded(reason)
}

// Dataset metrics.

// UpdateDatasetRows sets the number of loaded records.
func UpdateDatasetRows(count int) {
	globalManager.datasetRows.Set(float64(count))
}

// UpdateDatasetCountries sets the number of distinct countries.
func UpdateDatasetCountries(count int) {
	globalManager.datasetCountries.Set(float64(count))
}

// UpdateDatasetSkippedRows sets the number of dropped source rows.
func UpdateDatasetSkippedRows(count int) {
	globalManager.datasetSkippedRows.Set(float64(count))
}

// UpdateDatasetNulls sets the null cell count of a metric column.
func UpdateDatasetNulls(metric string, count int) {
	globalManager.datasetNulls.WithLabelValues(metric).Set(float64(count))
}

// RecordDatasetLoadDuration sets how long the dataset took to load.
func RecordDatasetLoadDuration(ms float64) {
	globalManager.datasetLoadDuration.Set(ms)
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
