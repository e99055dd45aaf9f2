package catalog

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the catalog into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Catalog (NewCatalog)
//   - Lifecycle hook (RegisterCatalogLifecycle)
var FXModule = fx.Module(
	"catalog",

	fx.Provide(
		NewConfig,  // -> *Config
		NewCatalog, // -> *Catalog
	),

	fx.Invoke(RegisterCatalogLifecycle),
)

// RegisterCatalogLifecycle closes the connection pool on application shutdown.
func RegisterCatalogLifecycle(lc fx.Lifecycle, c *Catalog) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
}
