// Package tracer provides distributed tracing using OpenTelemetry.
//
// It wraps the OpenTelemetry SDK behind a small API: StartSpan,
// RecordErrorOnSpan, SetAttributes, and carrier helpers for propagating
// trace context across service boundaries (for example on the headers of
// asynchronous indexing jobs).
//
//	tracerClient := tracer.NewClient(tracer.Config{
//	    ServiceName:  "image-search",
//	    AppEnv:       "development",
//	    EnableExport: true,
//	}, log)
//
//	ctx, span := tracerClient.StartSpan(ctx, "search-by-text")
//	defer span.End()
//
// When EnableExport is set, spans are shipped via OTLP/HTTP to the endpoint
// configured through the standard OTEL_EXPORTER_OTLP_* environment
// variables.
package tracer
