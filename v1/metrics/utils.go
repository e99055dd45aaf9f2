package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ObserveInference records one inference call against both the request
// counter and the duration histogram.
// Example: defer m.ObserveInference(time.Now(), "clip-vit-b-32", "embed_image", "success")
func (m *Metrics) ObserveInference(start time.Time, model, operation, status string) {
	m.inferenceRequests.WithLabelValues(model, operation, status).Inc()
	m.inferenceDuration.WithLabelValues(model, operation).Observe(time.Since(start).Seconds())
}

// ObserveCacheLookup increments the embedding cache lookup counter.
// Example: m.ObserveCacheLookup("hit")
func (m *Metrics) ObserveCacheLookup(outcome string) {
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// ObserveRetrievalResults records how many results a similarity search returned.
func (m *Metrics) ObserveRetrievalResults(collection string, count int) {
	m.retrievalResultLen.WithLabelValues(collection).Observe(float64(count))
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}

// createCounterVec defines a new CounterVec with standard options.
// Used internally by NewMetrics to maintain consistency.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

// createGaugeVec defines a new GaugeVec with standard options.
func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
