package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cinematch/cinematch-server/internal/domain"
)

var (
	errProvider = errors.New("provider: connection reset")
	testTime    = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
)

type fakeCatalog struct {
	mu sync.Mutex

	searchResults []domain.Movie
	searchErr     error
	recs          map[int][]domain.Movie
	recsErr       error
	discover      map[int][]domain.Movie
	discoverErr   error

	searchCalls   []string
	recsCalls     []int
	discoverCalls []int
}

func (f *fakeCatalog) SearchByTitle(_ context.Context, query string) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return slices.Clone(f.searchResults), nil
}

func (f *fakeCatalog) RecommendationsFor(_ context.Context, movieID int) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recsCalls = append(f.recsCalls, movieID)
	if f.recsErr != nil {
		return nil, f.recsErr
	}
	return slices.Clone(f.recs[movieID]), nil
}

func (f *fakeCatalog) DiscoverByGenre(_ context.Context, genreID int) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discoverCalls = append(f.discoverCalls, genreID)
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return slices.Clone(f.discover[genreID]), nil
}

// memHistory is an in-memory HistoryStore with injectable failures.
type memHistory struct {
	mu        sync.Mutex
	records   []domain.SearchRecord
	readErr   error
	appendErr error
	appends   int
}

func (h *memHistory) Append(_ context.Context, r domain.SearchRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.appends++
	if h.appendErr != nil {
		return h.appendErr
	}
	h.records = append(h.records, r)
	return nil
}

func (h *memHistory) ReadAll(context.Context) ([]domain.SearchRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.readErr != nil {
		return nil, h.readErr
	}
	return slices.Clone(h.records), nil
}

func (h *memHistory) Close() error { return nil }

func (h *memHistory) seed(genres ...[]int) {
	for i, g := range genres {
		h.records = append(h.records, domain.NewSearchRecord("seed", g, testTime.Add(-time.Hour).Add(time.Duration(i)*time.Minute)))
	}
}

type fakeRecorder struct {
	mu           sync.Mutex
	outcomes     []string
	degradations []string
	results      map[string]int
	appendErrs   []error
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{results: map[string]int{}}
}

func (r *fakeRecorder) ObserveQuery(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *fakeRecorder) ObserveDegradation(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degradations = append(r.degradations, source)
}

func (r *fakeRecorder) ObserveResults(group string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[group] = n
}

func (r *fakeRecorder) ObserveHistoryAppend(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendErrs = append(r.appendErrs, err)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func movie(id int, title string, genres ...int) domain.Movie {
	if genres == nil {
		genres = []int{}
	}
	return domain.Movie{ID: id, Title: title, GenreIDs: genres}
}

func movies(startID, n int, genres ...int) []domain.Movie {
	out := make([]domain.Movie, n)
	for i := range n {
		out[i] = movie(startID+i, "Movie", genres...)
	}
	return out
}

func ids(ms []domain.Movie) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
