package embcache

import (
	"context"

	"go.uber.org/fx"

	"github.com/vantage-ml/multimodal/v1/logger"
)

// FXModule wires the embedding cache into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Cache (via newCacheFromLogger)
//   - Lifecycle hook (RegisterCacheLifecycle)
var FXModule = fx.Module(
	"embcache",

	fx.Provide(
		NewConfig,          // -> *Config
		newCacheFromLogger, // -> *Cache
	),

	fx.Invoke(RegisterCacheLifecycle),
)

// newCacheFromLogger adapts the concrete logger to the local interface.
func newCacheFromLogger(cfg *Config, log *logger.Logger) (*Cache, error) {
	return NewCache(cfg, log)
}

// RegisterCacheLifecycle verifies connectivity on startup and closes the
// connection pool on shutdown.
func RegisterCacheLifecycle(lc fx.Lifecycle, cache *Cache) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return cache.Ping(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})
}
