package safefetch

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle:
// attempts, retries, timeouts, aborts and hook activity. Safe for
// concurrent use. A nil collector is a no-op.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec
	abortsTotal  *prometheus.CounterVec
	hooksTotal   *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "safefetch_requests_total",
				Help: "Total number of HTTP calls completed",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "safefetch_request_duration_seconds",
				Help:    "Duration of HTTP calls in seconds, across all attempts",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "safefetch_requests_in_flight",
				Help: "Number of HTTP calls currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "safefetch_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"method", "endpoint", "attempt"},
		),
		abortsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "safefetch_aborts_total",
				Help: "Total number of calls cancelled, by cancellation scope",
			},
			[]string{"scope"},
		),
		hooksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "safefetch_hooks_total",
				Help: "Total number of lifecycle hook invocations",
			},
			[]string{"hook"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "safefetch_errors_total",
				Help: "Total number of classified errors encountered",
			},
			[]string{"type", "method", "endpoint"},
		),
	}

	if reg, ok := registry.(*prometheus.Registry); ok {
		mc.registry = reg
	}

	return mc
}

// RecordRequest records call count and total duration.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, statusCodeStr, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, statusCodeStr, endpoint).Observe(duration.Seconds())
}

// RecordRequestStart increments in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordRetry increments retry counter for an attempt.
func (mc *MetricsCollector) RecordRetry(method, endpoint string, attempt int) {
	if mc == nil {
		return
	}

	attemptStr := strconv.Itoa(attempt)
	mc.retriesTotal.WithLabelValues(method, endpoint, attemptStr).Inc()
}

// RecordAbort increments the abort counter for a cancellation scope
// ("caller", "client" or "timeout").
func (mc *MetricsCollector) RecordAbort(scope string) {
	if mc == nil {
		return
	}

	mc.abortsTotal.WithLabelValues(scope).Inc()
}

// RecordHook increments the invocation counter for a lifecycle hook.
func (mc *MetricsCollector) RecordHook(hook string) {
	if mc == nil {
		return
	}

	mc.hooksTotal.WithLabelValues(hook).Inc()
}

// RecordError increments error counter by classified type.
func (mc *MetricsCollector) RecordError(errorType, method, endpoint string) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(errorType, method, endpoint).Inc()
}

// GetRegistry exposes the underlying prometheus registry when the collector
// was built on one; nil otherwise.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	return mc.registry
}
