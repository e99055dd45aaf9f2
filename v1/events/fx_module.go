package events

import (
	"context"

	"go.uber.org/fx"

	"github.com/vantage-ml/multimodal/v1/logger"
)

// FXModule wires the event publisher into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Publisher (via newPublisherFromLogger)
//   - Lifecycle hook (RegisterPublisherLifecycle)
var FXModule = fx.Module(
	"events",

	fx.Provide(
		NewConfig,              // -> *Config
		newPublisherFromLogger, // -> *Publisher
	),

	fx.Invoke(RegisterPublisherLifecycle),
)

// newPublisherFromLogger adapts the concrete logger to the local interface.
func newPublisherFromLogger(cfg *Config, log *logger.Logger) (*Publisher, error) {
	return NewPublisher(cfg, log)
}

// RegisterPublisherLifecycle flushes and closes the writer on shutdown.
func RegisterPublisherLifecycle(lc fx.Lifecycle, p *Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})
}
