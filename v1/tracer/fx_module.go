package tracer

import (
	"context"
	"log"

	"go.uber.org/fx"
)

// FXModule provides the tracer to an Fx application and registers shutdown
// hooks so pending spans are flushed to exporters on termination.
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(tracer.NewConfig),
//	    // other modules...
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers an OnStop hook that gracefully shuts
// down the tracer provider. Invoked automatically by FXModule.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			if tracer.provider == nil {
				log.Println("INFO: tracer is nil, skipping shutdown")
				return nil
			}
			return tracer.provider.Shutdown(ctx)
		},
	})
}
