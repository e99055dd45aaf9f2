package vqa

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the VQA client into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Client (NewClient)
//   - Lifecycle hook (RegisterVQALifecycle)
var FXModule = fx.Module(
	"vqa",

	fx.Provide(
		NewConfig, // -> *Config
		NewClient, // -> *Client
	),

	fx.Invoke(RegisterVQALifecycle),
)

// RegisterVQALifecycle ensures the Client is cleaned up on application shutdown.
func RegisterVQALifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
