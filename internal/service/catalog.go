// Package service implements the recommendation pipeline: title resolution,
// recommendation merging, and history-driven genre affinity.
package service

import (
	"context"
	"time"

	"github.com/cinematch/cinematch-server/internal/domain"
)

// MovieSearcher resolves free-text queries against the catalog.
type MovieSearcher interface {
	SearchByTitle(ctx context.Context, query string) ([]domain.Movie, error)
}

// Recommender returns content-based recommendations for a movie.
type Recommender interface {
	RecommendationsFor(ctx context.Context, movieID int) ([]domain.Movie, error)
}

// GenreDiscoverer lists movies tagged with a genre.
type GenreDiscoverer interface {
	DiscoverByGenre(ctx context.Context, genreID int) ([]domain.Movie, error)
}

// CatalogProvider is the subset of the catalog API the pipeline needs.
type CatalogProvider interface {
	MovieSearcher
	Recommender
	GenreDiscoverer
}

// Degradation sources, used as log fields and metric labels.
const (
	SourceRecommendations = "recommendations"
	SourceDiscover        = "discover"
	SourceHistoryRead     = "history_read"
	SourceHistoryWrite    = "history_write"
)

// Query outcomes.
const (
	OutcomeOK                  = "ok"
	OutcomeEmptyQuery          = "empty_query"
	OutcomeInvalid             = "invalid"
	OutcomeNoMatch             = "no_match"
	OutcomeProviderUnavailable = "provider_unavailable"
)

// Recorder receives pipeline events for instrumentation.
type Recorder interface {
	ObserveQuery(outcome string, elapsed time.Duration)
	ObserveDegradation(source string)
	ObserveResults(group string, n int)
	ObserveHistoryAppend(err error)
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) ObserveQuery(string, time.Duration) {}
func (NopRecorder) ObserveDegradation(string)          {}
func (NopRecorder) ObserveResults(string, int)         {}
func (NopRecorder) ObserveHistoryAppend(error)         {}
