// Package metrics exposes Prometheus metrics for the multimodal library.
//
// Every service gets an isolated registry wrapped with a constant
// service label, an HTTP server exposing /metrics, and a set of built-in
// metrics the rest of the library reports into:
//
//   - inference_requests_total{model,operation,status}
//   - inference_duration_seconds{model,operation}
//   - embedding_cache_lookups_total{outcome}
//   - retrieval_results_count{collection}
//
// Components depend on the Collector interface; *Metrics implements it.
// Dynamic Create{Counter,Histogram,Gauge} factories register additional
// metrics against the same registry.
package metrics
