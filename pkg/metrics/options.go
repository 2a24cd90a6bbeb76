// Package metrics provides Prometheus metrics for the tracklist service.
package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Default bucket layouts. Latencies are recorded in milliseconds.
var (
	defaultStoreBuckets   = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}  //nolint:gochecknoglobals // read-only defaults
	defaultRequestBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // read-only defaults
	defaultResultBuckets  = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000}          //nolint:gochecknoglobals // read-only defaults
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithStoreBuckets sets the buckets of the store operation latency histogram.
// Store calls are in-process or local SQLite, so the defaults start well below a millisecond.
func WithStoreBuckets(buckets []float64) Option {
	return func(m *Manager) {
		setBuckets(&m.storeBuckets, buckets)
	}
}

// WithRequestBuckets sets the buckets shared by the HTTP and catalog latency histograms.
func WithRequestBuckets(buckets []float64) Option {
	return func(m *Manager) {
		setBuckets(&m.requestBuckets, buckets)
	}
}

// WithResultSizeBuckets sets the buckets of the collection result size histogram.
func WithResultSizeBuckets(buckets []float64) Option {
	return func(m *Manager) {
		setBuckets(&m.resultBuckets, buckets)
	}
}

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// setBuckets keeps the current layout when buckets is empty. Prometheus
// rejects unsorted bounds, so the copy is sorted and deduplicated.
func setBuckets(dst *[]float64, buckets []float64) {
	if len(buckets) == 0 {
		return
	}
	b := slices.Clone(buckets)
	slices.Sort(b)
	*dst = slices.Compact(b)
}
