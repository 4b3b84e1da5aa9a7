package service

import (
	"context"
	"log/slog"

	"github.com/cinematch/cinematch-server/internal/domain"
	domainerrors "github.com/cinematch/cinematch-server/internal/errors"
	"github.com/cinematch/cinematch-server/internal/genre"
)

// GenreService serves the genre taxonomy and per-genre discovery.
type GenreService struct {
	catalog    *genre.Catalog
	discoverer GenreDiscoverer
	logger     *slog.Logger
}

// NewGenreService creates a new genre service.
func NewGenreService(catalog *genre.Catalog, discoverer GenreDiscoverer, logger *slog.Logger) *GenreService {
	return &GenreService{
		catalog:    catalog,
		discoverer: discoverer,
		logger:     logger,
	}
}

// ListGenres returns the cached taxonomy. It is empty when the catalog could
// not be fetched.
func (s *GenreService) ListGenres(ctx context.Context) []domain.Genre {
	return s.catalog.All(ctx)
}

// Discover resolves key (id, name, slug or alias) to a genre and returns its
// popular movies. Unlike affinity discovery, a provider error is reported.
func (s *GenreService) Discover(ctx context.Context, key string) (domain.Genre, []domain.Movie, error) {
	g, ok := s.catalog.Resolve(ctx, key)
	if !ok {
		return domain.Genre{}, nil, domainerrors.NotFound("genre not found").WithDetails(map[string]string{"genre": key})
	}

	movies, err := s.discoverer.DiscoverByGenre(ctx, g.ID)
	if err != nil {
		s.logger.Error("genre discovery failed", "genre_id", g.ID, "error", err)
		return domain.Genre{}, nil, domainerrors.ProviderUnavailable(err)
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return g, movies, nil
}
