package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/vantage-ml/multimodal/v1/logger"
	"github.com/vantage-ml/multimodal/v1/vectordb"
)

// FXModule wires the Qdrant adapter into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Client, also exposed as vectordb.Service
//   - Lifecycle hook (RegisterQdrantLifecycle)
var FXModule = fx.Module(
	"qdrant",

	fx.Provide(
		NewConfig, // -> *Config
		fx.Annotate(
			newClientFromLogger, // -> *Client
			fx.As(new(vectordb.Service)),
			fx.As(fx.Self()),
		),
	),

	fx.Invoke(RegisterQdrantLifecycle),
)

// newClientFromLogger adapts the concrete logger to the local interface.
func newClientFromLogger(cfg *Config, log *logger.Logger) (*Client, error) {
	return NewClient(cfg, log)
}

// RegisterQdrantLifecycle closes the gRPC connection on application shutdown.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
