package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and the HTTP server that
// exposes it, together with the built-in metrics every inference and
// retrieval component in this library reports into.
type Metrics struct {
	// Server is the HTTP server exposing the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	// Each service maintains its own isolated registry to prevent metric
	// name collisions.
	Registry *prometheus.Registry

	// Built-in metrics shared by the inference clients and the retrieval layer.
	inferenceRequests  *prometheus.CounterVec
	inferenceDuration  *prometheus.HistogramVec
	cacheLookups       *prometheus.CounterVec
	retrievalResultLen *prometheus.HistogramVec
}

// NewMetrics initializes a Metrics instance: a dedicated registry wrapped
// with a constant `service` label, the built-in inference/retrieval metrics,
// optional default system collectors, and an HTTP server exposing /metrics.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    ServiceName:             "image-search",
//	    EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	if cfg.Address == "" {
		cfg.Address = DefaultMetricsAddress
	}

	registry := prometheus.NewRegistry()

	// All metrics emitted by this service automatically carry the label:
	//   service="<cfg.ServiceName>"
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.inferenceRequests = createCounterVec(
		"inference_requests_total",
		"Total number of model inference requests",
		[]string{"model", "operation", "status"},
	)
	m.inferenceDuration = createHistogramVec(
		"inference_duration_seconds",
		"Duration of model inference requests in seconds",
		[]string{"model", "operation"},
		prometheus.DefBuckets,
	)
	m.cacheLookups = createCounterVec(
		"embedding_cache_lookups_total",
		"Embedding cache lookups partitioned by outcome",
		[]string{"outcome"},
	)
	m.retrievalResultLen = createHistogramVec(
		"retrieval_results_count",
		"Number of results returned per similarity search",
		[]string{"collection"},
		[]float64{0, 1, 2, 5, 10, 20, 50, 100},
	)

	wrappedRegistry.MustRegister(
		m.inferenceRequests,
		m.inferenceDuration,
		m.cacheLookups,
		m.retrievalResultLen,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	return m
}
