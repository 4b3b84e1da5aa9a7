package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/cinematch/cinematch-server/internal/domain"
	"github.com/cinematch/cinematch-server/internal/store"
)

// HistoryWindow is the number of most recent searches considered for affinity.
const HistoryWindow = 5

// Affinity is the outcome of one affinity lookup. GenreID is 0 when history
// shared no genre with the current movie.
type Affinity struct {
	GenreID int
	Movies  []domain.Movie
}

// AffinityEngine recommends movies from a genre the current best match shares
// with recent searches.
type AffinityEngine struct {
	history    store.HistoryStore
	discoverer GenreDiscoverer
	recorder   Recorder
	logger     *slog.Logger
}

// NewAffinityEngine creates an affinity engine.
func NewAffinityEngine(history store.HistoryStore, discoverer GenreDiscoverer, recorder Recorder, logger *slog.Logger) *AffinityEngine {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &AffinityEngine{
		history:    history,
		discoverer: discoverer,
		recorder:   recorder,
		logger:     logger,
	}
}

// Recommend returns discoverable movies for one genre shared between genreIDs
// and the last HistoryWindow searches. It never fails: an unreadable history,
// an empty intersection, or a provider error all yield an empty Affinity.
func (e *AffinityEngine) Recommend(ctx context.Context, genreIDs []int) Affinity {
	empty := Affinity{Movies: []domain.Movie{}}

	if len(genreIDs) == 0 {
		return empty
	}

	records, err := e.history.ReadAll(ctx)
	if err != nil {
		e.recorder.ObserveDegradation(SourceHistoryRead)
		e.logger.Warn("search history unreadable, skipping genre affinity",
			"error", err,
		)
		return empty
	}

	shared := SharedGenres(store.Tail(records, HistoryWindow), genreIDs)
	if len(shared) == 0 {
		e.logger.Debug("no genre shared with recent searches",
			"genres", genreIDs,
			"history", len(records),
		)
		return empty
	}

	genreID := shared[0]
	movies, err := e.discoverer.DiscoverByGenre(ctx, genreID)
	if err != nil {
		e.recorder.ObserveDegradation(SourceDiscover)
		e.logger.Warn("genre discovery failed, continuing without genre recommendations",
			"genre_id", genreID,
			"error", err,
		)
		return empty
	}
	if movies == nil {
		movies = []domain.Movie{}
	}

	return Affinity{GenreID: genreID, Movies: movies}
}

// SharedGenres returns the distinct genre ids present both in current and in
// any of records, in ascending order.
func SharedGenres(records []domain.SearchRecord, current []int) []int {
	seen := make(map[int]struct{})
	for _, r := range records {
		for _, id := range r.GenreIDs {
			seen[id] = struct{}{}
		}
	}

	shared := []int{}
	for _, id := range current {
		if _, ok := seen[id]; ok && !slices.Contains(shared, id) {
			shared = append(shared, id)
		}
	}
	slices.Sort(shared)
	return shared
}
