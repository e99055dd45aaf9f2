package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the interface the retrieval pipeline uses to report metrics.
// It abstracts Prometheus metric operations with support for counters,
// histograms and gauges.
//
// This interface is implemented by the concrete *Metrics type.
type Collector interface {
	// Built-in metric methods

	// ObserveInference records one inference call: its outcome counter and
	// its duration measured from start.
	ObserveInference(start time.Time, model, operation, status string)

	// ObserveCacheLookup increments the embedding cache lookup counter
	// with outcome "hit", "miss" or "error".
	ObserveCacheLookup(outcome string)

	// ObserveRetrievalResults records the number of results a similarity
	// search returned for a collection.
	ObserveRetrievalResults(collection string, count int)

	// Dynamic metric factories

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
