package dualencoder

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the dual-encoder client into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Client (NewClient)
//   - Lifecycle hook (RegisterDualEncoderLifecycle)
var FXModule = fx.Module(
	"dualencoder",

	fx.Provide(
		NewConfig, // -> *Config
		NewClient, // -> *Client
	),

	fx.Invoke(RegisterDualEncoderLifecycle),
)

// RegisterDualEncoderLifecycle ensures that the Client (and its provider)
// are properly cleaned up on application shutdown.
func RegisterDualEncoderLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
