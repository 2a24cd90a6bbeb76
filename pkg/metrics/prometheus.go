// Package metrics provides Prometheus metrics for the tracklist service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the tracklist service.
type Manager struct {
	namespace      string
	subsystem      string
	storeBuckets   []float64
	requestBuckets []float64
	resultBuckets  []float64
	registry       prometheus.Registerer

	// Rating write path
	ratingsSubmitted  prometheus.Counter
	ratingsRejected   *prometheus.CounterVec
	classifications   *prometheus.CounterVec
	albumsCreated     prometheus.Counter
	albumComputations prometheus.Counter
	albumsUnrated     prometheus.Counter
	collectionQueries *prometheus.CounterVec
	collectionResults prometheus.Histogram
	trackedTracks     prometheus.Gauge
	trackedRatings    prometheus.Gauge
	trackedAlbums     prometheus.Gauge
	storeLatency      *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec
	catalogRequests   *prometheus.CounterVec
	catalogLatency    prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "tracklist",
		subsystem:      "ratings",
		storeBuckets:   defaultStoreBuckets,
		requestBuckets: defaultRequestBuckets,
		resultBuckets:  defaultResultBuckets,
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.ratingsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ratings_submitted_total",
		Help:      "Total number of rating upserts that were persisted",
	})

	m.ratingsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "ratings_rejected_total",
			Help:      "Total number of rating submissions rejected before persistence",
		},
		[]string{"reason"},
	)

	m.classifications = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "track_classifications_total",
			Help:      "Total number of track classification upserts by resulting flag",
		},
		[]string{"skit"},
	)

	m.albumsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "albums_created_total",
		Help:      "Total number of albums created lazily on first track save",
	})

	m.albumComputations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "album_score_computations_total",
		Help:      "Total number of album score computations",
	})

	m.albumsUnrated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "album_score_unrated_total",
		Help:      "Album score computations that found no rated-ratable tracks",
	})

	m.collectionQueries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "collection_queries_total",
			Help:      "Total number of collection queries by sort key and order",
		},
		[]string{"sort_by", "sort_order"},
	)

	m.collectionResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collection_result_size",
		Help:      "Number of albums returned per collection query",
		Buckets:   m.resultBuckets,
	})

	m.trackedTracks = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracks",
		Help:      "Number of tracks known to the store",
	})

	m.trackedRatings = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ratings",
		Help:      "Number of ratings known to the store",
	})

	m.trackedAlbums = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "albums",
		Help:      "Number of albums known to the store",
	})

	m.storeLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_operation_latency_milliseconds",
			Help:      "Store operation latency in milliseconds",
			Buckets:   m.storeBuckets,
		},
		[]string{"driver", "operation"},
	)

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of failed store operations",
		},
		[]string{"driver", "operation"},
	)

	m.catalogRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "catalog_requests_total",
			Help:      "Total number of catalog lookups by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	m.catalogLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_latency_milliseconds",
		Help:      "Catalog lookup latency in milliseconds",
		Buckets:   m.requestBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.requestBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRatingSubmitted increments the persisted ratings counter.
func RecordRatingSubmitted() {
	globalManager.ratingsSubmitted.Inc()
}

// RecordRatingRejected counts a rejected submission by reason
// (missing_track_id, missing_dimension, out_of_range, track_not_found).
func RecordRatingRejected(reason string) {
	globalManager.ratingsRejected.WithLabelValues(reason).Inc()
}

// RecordClassification counts a classification upsert by its resulting flag.
func RecordClassification(skit bool) {
	label := "false"
	if skit {
		label = "true"
	}
	globalManager.classifications.WithLabelValues(label).Inc()
}

// RecordAlbumCreated increments the lazily created albums counter.
func RecordAlbumCreated() {
	globalManager.albumsCreated.Inc()
}

// RecordAlbumComputation counts an album score computation.
func RecordAlbumComputation(rated bool) {
	globalManager.albumComputations.Inc()
	if !rated {
		globalManager.albumsUnrated.Inc()
	}
}

// RecordCollectionQuery counts a collection query and observes its result size.
func RecordCollectionQuery(sortBy, sortOrder string, results int) {
	globalManager.collectionQueries.WithLabelValues(sortBy, sortOrder).Inc()
	globalManager.collectionResults.Observe(float64(results))
}

// UpdateStoreCounts sets the tracked entity gauges.
func UpdateStoreCounts(albums, tracks, ratings int) {
	globalManager.trackedAlbums.Set(float64(albums))
	globalManager.trackedTracks.Set(float64(tracks))
	globalManager.trackedRatings.Set(float64(ratings))
}

// RecordStoreOperation observes a store operation latency and counts failures.
func RecordStoreOperation(driver, operation string, latencyMs float64, err error) {
	globalManager.storeLatency.WithLabelValues(driver, operation).Observe(latencyMs)
	if err != nil {
		globalManager.storeErrors.WithLabelValues(driver, operation).Inc()
	}
}

// RecordCatalogRequest observes a catalog lookup.
func RecordCatalogRequest(operation string, latencyMs float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	globalManager.catalogRequests.WithLabelValues(operation, outcome).Inc()
	globalManager.catalogLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

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
