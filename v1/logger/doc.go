// Package logger provides structured logging for the multimodal library.
//
// It wraps Uber's Zap logger behind a small surface used by every other
// package in this repository: leveled logging methods that take a message,
// an optional error and free-form field maps, plus *WithContext variants
// that correlate entries with OpenTelemetry traces.
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "image-search",
//	})
//
//	log.Info("model endpoint ready", nil, map[string]interface{}{
//	    "endpoint": cfg.Endpoint,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(logger.NewConfig),
//	    // ... other modules
//	)
//
// # Tracing Integration
//
// When EnableTracing is true, the *WithContext methods extract the active
// span from the context and add trace_id and span_id fields to the entry,
// correlating logs with distributed traces.
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug      # debug, info, warning, error
//	LOGGER_SERVICE_NAME=...     # "service" field on every entry
//	LOGGER_ENABLE_TRACING=true  # attach trace/span IDs from context
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
