package retrieval

import (
	"context"

	"go.uber.org/fx"

	"github.com/vantage-ml/multimodal/v1/catalog"
	"github.com/vantage-ml/multimodal/v1/dualencoder"
	"github.com/vantage-ml/multimodal/v1/embcache"
	"github.com/vantage-ml/multimodal/v1/events"
	"github.com/vantage-ml/multimodal/v1/imagestore"
	"github.com/vantage-ml/multimodal/v1/logger"
	"github.com/vantage-ml/multimodal/v1/metrics"
	"github.com/vantage-ml/multimodal/v1/vectordb"
)

// FXModule wires the retrieval service into Fx. It assumes the encoder,
// vector database, cache, store, catalog, events and metrics modules are
// also part of the application.
//
// It provides:
//   - *Config (NewConfig)
//   - *Service (via newServiceFromDeps)
//   - Lifecycle hook (RegisterServiceLifecycle)
var FXModule = fx.Module(
	"retrieval",

	fx.Provide(
		NewConfig,          // -> *Config
		newServiceFromDeps, // -> *Service
	),

	fx.Invoke(RegisterServiceLifecycle),
)

// newServiceFromDeps adapts the concrete dependencies to the local
// interfaces. The encoder config supplies the model identifier used to
// namespace cache keys.
func newServiceFromDeps(
	cfg *Config,
	encCfg *dualencoder.Config,
	encoder *dualencoder.Client,
	db vectordb.Service,
	cache *embcache.Cache,
	store *imagestore.Store,
	records *catalog.Catalog,
	sink *events.Publisher,
	collector metrics.Collector,
	log *logger.Logger,
) (*Service, error) {
	return NewService(cfg, encCfg.Model, encoder, db, cache, store, records, sink, collector, log)
}

// RegisterServiceLifecycle makes sure the vector collection exists before
// the application starts serving.
func RegisterServiceLifecycle(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.EnsureCollection(ctx)
		},
	})
}
