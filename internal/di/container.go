// Package di provides dependency injection configuration for the Cinematch server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/cinematch/cinematch-server/internal/config"
	"github.com/cinematch/cinematch-server/internal/di/providers"
	"github.com/cinematch/cinematch-server/internal/dto"
	"github.com/cinematch/cinematch-server/internal/genre"
	"github.com/cinematch/cinematch-server/internal/logger"
	"github.com/cinematch/cinematch-server/internal/metrics"
	"github.com/cinematch/cinematch-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Providers are lazy: the CLI resolves only the pipeline, never the HTTP server.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)

	// Catalog and storage
	do.Provide(injector, providers.ProvideTMDBClient)
	do.Provide(injector, providers.ProvideHistoryStore)
	do.Provide(injector, providers.ProvideGenreCatalog)

	// Business services
	do.Provide(injector, providers.ProvideEnricher)
	do.Provide(injector, providers.ProvideAffinityEngine)
	do.Provide(injector, providers.ProvideRecommendationService)
	do.Provide(injector, providers.ProvideGenreService)
	do.Provide(injector, providers.ProvideHistoryService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes the pipeline services. When serve is true the HTTP
// server is started as well.
func Bootstrap(injector *do.RootScope, serve bool) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*metrics.Metrics](injector)

	if _, err := do.Invoke[*providers.HistoryStoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.TMDBClientHandle](injector)
	_ = do.MustInvoke[*genre.Catalog](injector)

	_ = do.MustInvoke[*dto.Enricher](injector)
	_ = do.MustInvoke[*service.AffinityEngine](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)
	_ = do.MustInvoke[*service.GenreService](injector)
	_ = do.MustInvoke[*service.HistoryService](injector)

	if serve {
		if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
			return err
		}
	}

	return nil
}
