package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStoreOperation(t *testing.T) {
	initialTotal := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("post", "create", ResultSuccess))

	ObserveStoreOperation("post", "create", ResultSuccess, 0.002)

	newTotal := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("post", "create", ResultSuccess))
	assert.Equal(t, initialTotal+1, newTotal, "StoreOperationsTotal should increment by 1")

	count := testutil.CollectAndCount(StoreOperationDuration)
	assert.GreaterOrEqual(t, count, 1, "StoreOperationDuration should have observations")
}

func TestObserveStoreOperation_ResultsAreSeparate(t *testing.T) {
	conflicts := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("tag", "create", ResultConflict))
	successes := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("tag", "create", ResultSuccess))

	ObserveStoreOperation("tag", "create", ResultConflict, 0.001)

	assert.Equal(t, conflicts+1, testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("tag", "create", ResultConflict)))
	assert.Equal(t, successes, testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("tag", "create", ResultSuccess)))
}

func TestObserveLogin(t *testing.T) {
	initial := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues("invalid_credentials"))

	ObserveLogin("invalid_credentials")
	ObserveLogin("invalid_credentials")

	assert.Equal(t, initial+2, testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues("invalid_credentials")))
}

func TestObserveSiteReload(t *testing.T) {
	initial := testutil.ToFloat64(SiteConfigReloadsTotal.WithLabelValues("error"))

	ObserveSiteReload("error")

	assert.Equal(t, initial+1, testutil.ToFloat64(SiteConfigReloadsTotal.WithLabelValues("error")))
}

func TestHTTPMetricsExist(t *testing.T) {
	// Verify HTTP metrics are properly initialized
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInFlight)

	// Increment and verify
	initialRequests := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))
	HTTPRequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	newRequests := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))
	assert.Equal(t, initialRequests+1, newRequests)
}

func TestTimerObserveDuration(t *testing.T) {
	timer := NewTimer()

	// Sleep a bit to have measurable duration
	time.Sleep(20 * time.Millisecond)

	testHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_timer_duration_histogram",
		Help:    "Test histogram for timer duration",
		Buckets: []float64{.01, .05, .1, .5, 1},
	})
	prometheus.MustRegister(testHistogram)
	defer prometheus.Unregister(testHistogram)

	timer.ObserveDuration(testHistogram)

	count := testutil.CollectAndCount(testHistogram)
	assert.Equal(t, 1, count, "histogram should be collected once")
	assert.GreaterOrEqual(t, timer.Seconds(), 0.02)
}

func TestHTTPRequestsInFlightGauge(t *testing.T) {
	initial := testutil.ToFloat64(HTTPRequestsInFlight)

	HTTPRequestsInFlight.Inc()
	HTTPRequestsInFlight.Inc()
	after2 := testutil.ToFloat64(HTTPRequestsInFlight)
	assert.Equal(t, initial+2, after2, "In-flight should be initial+2")

	HTTPRequestsInFlight.Dec()
	after1 := testutil.ToFloat64(HTTPRequestsInFlight)
	assert.Equal(t, initial+1, after1, "In-flight should be initial+1")

	HTTPRequestsInFlight.Dec()
	afterReset := testutil.ToFloat64(HTTPRequestsInFlight)
	assert.Equal(t, initial, afterReset, "In-flight should return to initial")
}

func TestObserveExport(t *testing.T) {
	streams := testutil.ToFloat64(ExportsTotal.WithLabelValues("posts", ResultSuccess))
	records := testutil.ToFloat64(ExportRecordsTotal.WithLabelValues("posts", "csv"))

	ObserveExport("posts", "csv", ResultSuccess, 3)

	assert.Equal(t, streams+1, testutil.ToFloat64(ExportsTotal.WithLabelValues("posts", ResultSuccess)))
	assert.Equal(t, records+3, testutil.ToFloat64(ExportRecordsTotal.WithLabelValues("posts", "csv")))
}
