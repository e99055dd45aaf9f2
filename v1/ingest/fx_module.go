package ingest

import (
	"context"

	"go.uber.org/fx"

	"github.com/vantage-ml/multimodal/v1/logger"
	"github.com/vantage-ml/multimodal/v1/retrieval"
)

// FXModule wires the ingest consumer into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Consumer (via newConsumerFromService)
//   - Lifecycle hook (RegisterConsumerLifecycle)
var FXModule = fx.Module(
	"ingest",

	fx.Provide(
		NewConfig,              // -> *Config
		newConsumerFromService, // -> *Consumer
	),

	fx.Invoke(RegisterConsumerLifecycle),
)

// newConsumerFromService adapts the concrete dependencies to the local
// interfaces.
func newConsumerFromService(cfg *Config, svc *retrieval.Service, log *logger.Logger) (*Consumer, error) {
	return NewConsumer(cfg, svc, log)
}

// RegisterConsumerLifecycle starts the consume loop in the background and
// stops it on shutdown.
func RegisterConsumerLifecycle(lc fx.Lifecycle, consumer *Consumer) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go consumer.Run(runCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return consumer.Close()
		},
	})
}
