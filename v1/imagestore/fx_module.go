package imagestore

import (
	"context"

	"go.uber.org/fx"

	"github.com/vantage-ml/multimodal/v1/logger"
)

// FXModule wires the image store into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Store (via newStoreFromLogger)
//   - Lifecycle hook (RegisterStoreLifecycle)
var FXModule = fx.Module(
	"imagestore",

	fx.Provide(
		NewConfig,          // -> *Config
		newStoreFromLogger, // -> *Store
	),

	fx.Invoke(RegisterStoreLifecycle),
)

// newStoreFromLogger adapts the concrete logger to the local interface.
func newStoreFromLogger(cfg *Config, log *logger.Logger) (*Store, error) {
	return NewStore(cfg, log)
}

// RegisterStoreLifecycle starts the connection monitor on startup and stops
// it on shutdown.
func RegisterStoreLifecycle(lc fx.Lifecycle, store *Store) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go store.monitorConnection(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
}
