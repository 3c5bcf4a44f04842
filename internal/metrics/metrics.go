// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: HTTP requests, content store operations,
// logins, site config reloads and exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "file_blog"
)

// Store operation results.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultError    = "error"

	LoginResultInvalid = "invalid_credentials"
)

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Store metrics - every list/get/create/update/delete hits the disk
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of content store operations by entity, operation, and result",
		},
		[]string{"entity", "operation", "result"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Content store operation duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"entity", "operation"},
	)

	// Auth metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	SiteConfigReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "site",
			Name:      "config_reloads_total",
			Help:      "Total number of site configuration reloads by result",
		},
		[]string{"result"},
	)

	// Export metrics
	ExportRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "records_total",
			Help:      "Total number of records streamed by export resource and format",
		},
		[]string{"resource", "format"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "streams_total",
			Help:      "Total number of export streams by resource and result",
		},
		[]string{"resource", "result"},
	)
)

// ObserveStoreOperation records the outcome and duration of one store call.
func ObserveStoreOperation(entity, operation, result string, durationSeconds float64) {
	StoreOperationsTotal.WithLabelValues(entity, operation, result).Inc()
	StoreOperationDuration.WithLabelValues(entity, operation).Observe(durationSeconds)
}

// ObserveLogin records a login attempt result ("success", "invalid_credentials", "error").
func ObserveLogin(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// ObserveSiteReload records a site configuration reload result.
func ObserveSiteReload(result string) {
	SiteConfigReloadsTotal.WithLabelValues(result).Inc()
}

// ObserveExport records one finished export stream.
func ObserveExport(resource, format, result string, records int) {
	ExportsTotal.WithLabelValues(resource, result).Inc()
	ExportRecordsTotal.WithLabelValues(resource, format).Add(float64(records))
}

// Timer is a helper for measuring operation duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer was created
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}

// Seconds returns the elapsed time since the timer was created.
func (t *Timer) Seconds() float64 {
	return time.Since(t.start).Seconds()
}
