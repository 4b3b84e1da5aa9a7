package api

import (
	"context"
	"encoding/json/v2"
	"errors"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/cinematch/cinematch-server/internal/domain"
	"github.com/cinematch/cinematch-server/internal/dto"
	"github.com/cinematch/cinematch-server/internal/genre"
	"github.com/cinematch/cinematch-server/internal/metrics"
	"github.com/cinematch/cinematch-server/internal/service"
	"github.com/cinematch/cinematch-server/internal/store/tabular"
)

var errUpstream = errors.New("tmdb: connection refused")

// fakeCatalog serves a small fixed catalog built around The Matrix.
type fakeCatalog struct {
	mu sync.Mutex

	search      []domain.Movie
	searchErr   error
	recs        map[int][]domain.Movie
	discover    map[int][]domain.Movie
	discoverErr error
	genres      []domain.Genre
	genresErr   error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		search: []domain.Movie{
			{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31", Overview: "Neo wakes up.", GenreIDs: []int{28, 878}, PosterPath: "/matrix.jpg"},
			{ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15", GenreIDs: []int{28, 878}},
			{ID: 684428, Title: "The Matrix Recalibrated", GenreIDs: []int{99}},
		},
		recs: map[int][]domain.Movie{
			603: {{ID: 605, Title: "The Matrix Revolutions", GenreIDs: []int{28, 878}}, {ID: 27205, Title: "Inception", GenreIDs: []int{28, 878, 12}}},
			604: {{ID: 605, Title: "The Matrix Revolutions", GenreIDs: []int{28, 878}}},
		},
		discover: map[int][]domain.Movie{
			28:  {{ID: 245891, Title: "John Wick", GenreIDs: []int{28, 53}}, {ID: 155, Title: "The Dark Knight", GenreIDs: []int{28, 80}}, {ID: 98, Title: "Gladiator", GenreIDs: []int{28}}},
			878: {{ID: 157336, Title: "Interstellar", GenreIDs: []int{878, 12}}},
		},
		genres: []domain.Genre{
			{ID: 12, Name: "Adventure"},
			{ID: 28, Name: "Action"},
			{ID: 53, Name: "Thriller"},
			{ID: 80, Name: "Crime"},
			{ID: 99, Name: "Documentary"},
			{ID: 878, Name: "Science Fiction"},
		},
	}
}

func (f *fakeCatalog) SearchByTitle(_ context.Context, _ string) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return slices.Clone(f.search), nil
}

func (f *fakeCatalog) RecommendationsFor(_ context.Context, movieID int) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.recs[movieID]), nil
}

func (f *fakeCatalog) DiscoverByGenre(_ context.Context, genreID int) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return slices.Clone(f.discover[genreID]), nil
}

func (f *fakeCatalog) ListGenres(context.Context) ([]domain.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.genresErr != nil {
		return nil, f.genresErr
	}
	return slices.Clone(f.genres), nil
}

type testServer struct {
	*Server
	api     humatest.TestAPI
	catalog *fakeCatalog
	history *tabular.Store
	metrics *metrics.Metrics
}

// setupTestServer wires real services over a fake catalog and a CSV history
// in a temp directory. configure may adjust the catalog and options.
func setupTestServer(t *testing.T, configure ...func(*fakeCatalog, *Options)) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	catalog := newFakeCatalog()
	opts := Options{AllowedOrigins: []string{"*"}}
	for _, fn := range configure {
		fn(catalog, &opts)
	}

	history, err := tabular.Open(filepath.Join(t.TempDir(), "movie_search_history.csv"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })

	m := metrics.New()
	genres := genre.NewCatalog(catalog, logger)
	affinity := service.NewAffinityEngine(history, catalog, m, logger)

	services := &Services{
		Recommendation: service.NewRecommendationService(catalog, affinity, history, m, logger),
		Genre:          service.NewGenreService(genres, catalog, logger),
		History:        service.NewHistoryService(history, logger),
		Enricher:       dto.NewEnricher(genres, "https://image.tmdb.org/t/p/w500"),
	}

	s := NewServer(services, opts, m, logger)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		catalog: catalog,
		history: history,
		metrics: m,
	}
}

// envelope mirrors both envelope shapes for decoding in tests.
type envelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	require.Equal(t, EnvelopeVersion, env.Version)
	return env
}
