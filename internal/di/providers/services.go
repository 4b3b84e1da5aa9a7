package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinematch/cinematch-server/internal/config"
	"github.com/cinematch/cinematch-server/internal/dto"
	"github.com/cinematch/cinematch-server/internal/genre"
	"github.com/cinematch/cinematch-server/internal/logger"
	"github.com/cinematch/cinematch-server/internal/metrics"
	"github.com/cinematch/cinematch-server/internal/service"
)

// ProvideGenreCatalog provides the lazily loaded genre catalog.
func ProvideGenreCatalog(i do.Injector) (*genre.Catalog, error) {
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*TMDBClientHandle](i)

	return genre.NewCatalog(client.Client, log.Component("genres")), nil
}

// ProvideEnricher provides the DTO enricher.
func ProvideEnricher(i do.Injector) (*dto.Enricher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	genres := do.MustInvoke[*genre.Catalog](i)

	return dto.NewEnricher(genres, cfg.TMDB.ImageBaseURL), nil
}

// ProvideAffinityEngine provides the genre affinity engine.
func ProvideAffinityEngine(i do.Injector) (*service.AffinityEngine, error) {
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*TMDBClientHandle](i)
	history := do.MustInvoke[*HistoryStoreHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	return service.NewAffinityEngine(history.HistoryStore, client.Client, m, log.Component("affinity")), nil
}

// ProvideRecommendationService provides the recommendation aggregator.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*TMDBClientHandle](i)
	history := do.MustInvoke[*HistoryStoreHandle](i)
	affinity := do.MustInvoke[*service.AffinityEngine](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	return service.NewRecommendationService(
		client.Client,
		affinity,
		history.HistoryStore,
		m,
		log.Component("recommendations"),
	), nil
}

// ProvideGenreService provides the genre service.
func ProvideGenreService(i do.Injector) (*service.GenreService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*TMDBClientHandle](i)
	genres := do.MustInvoke[*genre.Catalog](i)

	return service.NewGenreService(genres, client.Client, log.Component("genres")), nil
}

// ProvideHistoryService provides the history service.
func ProvideHistoryService(i do.Injector) (*service.HistoryService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	history := do.MustInvoke[*HistoryStoreHandle](i)

	return service.NewHistoryService(history.HistoryStore, log.Component("history")), nil
}
