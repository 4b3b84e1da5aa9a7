package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematch/cinematch-server/internal/domain"
	domainerrors "github.com/cinematch/cinematch-server/internal/errors"
)

type pipeline struct {
	svc      *RecommendationService
	catalog  *fakeCatalog
	history  *memHistory
	recorder *fakeRecorder
}

func newPipeline(catalog *fakeCatalog, history *memHistory) *pipeline {
	rec := newFakeRecorder()
	logger := testLogger()
	affinity := NewAffinityEngine(history, catalog, rec, logger)
	svc := NewRecommendationService(catalog, affinity, history, rec, logger)
	svc.now = func() time.Time { return testTime }
	return &pipeline{svc: svc, catalog: catalog, history: history, recorder: rec}
}

func matrixResults() []domain.Movie {
	return []domain.Movie{
		movie(603, "The Matrix", 28, 878),
		movie(604, "The Matrix Reloaded", 12, 28, 878),
		movie(605, "The Matrix Revolutions", 12, 28, 53, 878),
	}
}

func TestRecommend_MatrixEndToEnd(t *testing.T) {
	catalog := &fakeCatalog{
		searchResults: matrixResults(),
		recs:          map[int][]domain.Movie{603: movies(900, 5, 28)},
	}
	p := newPipeline(catalog, &memHistory{})

	list, err := p.svc.Recommend(context.Background(), "Matrix")
	require.NoError(t, err)

	assert.Equal(t, "Matrix", list.Query)
	assert.Equal(t, 603, list.BestMatch.ID)
	assert.Equal(t, []int{28, 878}, list.BestMatch.GenreIDs)

	require.Len(t, list.Matches, 3)
	assert.Equal(t, 0, list.Matches[0].Position)

	assert.Equal(t, []int{603, 604, 605, 900, 901, 902, 903, 904}, ids(list.Primary))
	assert.Empty(t, list.GenreBased)
	assert.Zero(t, list.SharedGenreID)
	assert.Len(t, list.All(), 8)

	assert.Equal(t, []int{603}, catalog.recsCalls)
	assert.Empty(t, catalog.discoverCalls)

	require.Len(t, p.history.records, 1)
	record := p.history.records[0]
	assert.Equal(t, "Matrix", record.Query)
	assert.Equal(t, []int{28, 878}, record.GenreIDs)
	assert.True(t, record.Timestamp.Equal(testTime))

	assert.Equal(t, []string{OutcomeOK}, p.recorder.outcomes)
	assert.Equal(t, 3, p.recorder.results[GroupMatches])
	assert.Equal(t, 5, p.recorder.results[GroupRecommendations])
	assert.Equal(t, 0, p.recorder.results[GroupGenre])
}

func TestRecommend_EmptyQuery(t *testing.T) {
	for _, query := range []string{"", "   ", "\t\n"} {
		catalog := &fakeCatalog{searchResults: matrixResults()}
		p := newPipeline(catalog, &memHistory{})

		list, err := p.svc.Recommend(context.Background(), query)

		require.Error(t, err)
		assert.Nil(t, list)
		assert.ErrorIs(t, err, domainerrors.ErrEmptyQuery)
		assert.Equal(t, domainerrors.MessageEmptyQuery, domainerrors.UserMessage(err))
		assert.Empty(t, catalog.searchCalls)
		assert.Zero(t, p.history.appends)
		assert.Equal(t, []string{OutcomeEmptyQuery}, p.recorder.outcomes)
	}
}

func TestRecommend_QueryIsTrimmed(t *testing.T) {
	catalog := &fakeCatalog{searchResults: matrixResults()}
	p := newPipeline(catalog, &memHistory{})

	list, err := p.svc.Recommend(context.Background(), "  the matrix  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"the matrix"}, catalog.searchCalls)
	assert.Equal(t, "the matrix", list.Query)
	assert.Equal(t, "the matrix", p.history.records[0].Query)
}

func TestRecommend_QueryTooLong(t *testing.T) {
	catalog := &fakeCatalog{searchResults: matrixResults()}
	p := newPipeline(catalog, &memHistory{})

	_, err := p.svc.Recommend(context.Background(), strings.Repeat("m", 201))

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Empty(t, catalog.searchCalls)
	assert.Zero(t, p.history.appends)
}

func TestRecommend_SearchFailure(t *testing.T) {
	catalog := &fakeCatalog{searchErr: errProvider}
	p := newPipeline(catalog, &memHistory{})

	list, err := p.svc.Recommend(context.Background(), "Matrix")

	require.Error(t, err)
	assert.Nil(t, list)
	assert.ErrorIs(t, err, domainerrors.ErrProviderUnavailable)
	assert.ErrorIs(t, err, errProvider)
	assert.Equal(t, domainerrors.MessageProviderUnavailable, domainerrors.UserMessage(err))
	assert.Zero(t, p.history.appends)
	assert.Empty(t, catalog.recsCalls)
	assert.Equal(t, []string{OutcomeProviderUnavailable}, p.recorder.outcomes)
}

func TestRecommend_NoMatch(t *testing.T) {
	catalog := &fakeCatalog{searchResults: []domain.Movie{}}
	p := newPipeline(catalog, &memHistory{})

	list, err := p.svc.Recommend(context.Background(), "xyzzy")

	require.Error(t, err)
	assert.Nil(t, list)
	assert.ErrorIs(t, err, domainerrors.ErrNoMatchFound)
	assert.False(t, errors.Is(err, domainerrors.ErrProviderUnavailable))
	assert.Equal(t, domainerrors.MessageNoMatchFound, domainerrors.UserMessage(err))
	assert.Zero(t, p.history.appends)
	assert.Empty(t, catalog.recsCalls)
	assert.Equal(t, []string{OutcomeNoMatch}, p.recorder.outcomes)
}

func TestRecommend_RecommendationsFailureDegrades(t *testing.T) {
	catalog := &fakeCatalog{
		searchResults: matrixResults(),
		recsErr:       errProvider,
	}
	p := newPipeline(catalog, &memHistory{})

	list, err := p.svc.Recommend(context.Background(), "Matrix")
	require.NoError(t, err)

	assert.Equal(t, []int{603, 604, 605}, ids(list.Primary))
	assert.Equal(t, 1, p.history.appends)
	assert.Equal(t, []string{SourceRecommendations}, p.recorder.degradations)
	assert.Equal(t, []string{OutcomeOK}, p.recorder.outcomes)
}

func TestRecommend_RanksBeforeMerging(t *testing.T) {
	// Provider relevance order differs from title similarity order.
	catalog := &fakeCatalog{
		searchResults: []domain.Movie{
			movie(10, "Alien Resurrection", 878),
			movie(11, "Alien", 27, 878),
			movie(12, "Aliens", 28, 878),
		},
		recs: map[int][]domain.Movie{11: movies(700, 2)},
	}
	p := newPipeline(catalog, &memHistory{})

	list, err := p.svc.Recommend(context.Background(), "alien")
	require.NoError(t, err)

	assert.Equal(t, 11, list.BestMatch.ID)
	assert.Equal(t, 11, ids(list.Primary)[0])
	assert.Equal(t, 1, list.Matches[0].Position)
	assert.Equal(t, []int{11}, catalog.recsCalls)
	assert.Equal(t, []int{27, 878}, p.history.records[0].GenreIDs)

	for i := 1; i < len(list.Matches); i++ {
		assert.GreaterOrEqual(t, list.Matches[i-1].Score, list.Matches[i].Score)
	}
	assert.Equal(t, []int{700, 701}, ids(list.Primary[3:]))
}

func TestRecommend_PrimaryTruncatedToEight(t *testing.T) {
	results := make([]domain.Movie, 12)
	for i := range results {
		results[i] = movie(100+i, "Star Trek", 878)
	}
	catalog := &fakeCatalog{
		searchResults: results,
		recs:          map[int][]domain.Movie{100: movies(900, 5)},
	}
	p := newPipeline(catalog, &memHistory{})

	list, err := p.svc.Recommend(context.Background(), "star trek")
	require.NoError(t, err)

	assert.Len(t, list.Matches, 8)
	// Equal scores keep provider order, and the recommendations fall off the end.
	assert.Equal(t, []int{100, 101, 102, 103, 104, 105, 106, 107}, ids(list.Primary))
}

func TestRecommend_GenreGroupFromHistory(t *testing.T) {
	history := &memHistory{}
	history.seed([]int{1, 2}, []int{3})
	catalog := &fakeCatalog{
		searchResults: []domain.Movie{movie(42, "Some Film", 2, 5)},
		recs:          map[int][]domain.Movie{42: movies(300, 3)},
		discover:      map[int][]domain.Movie{2: movies(800, 6)},
	}
	p := newPipeline(catalog, history)

	list, err := p.svc.Recommend(context.Background(), "some film")
	require.NoError(t, err)

	assert.Equal(t, []int{2}, catalog.discoverCalls)
	assert.Equal(t, 2, list.SharedGenreID)
	assert.Equal(t, []int{800, 801}, ids(list.GenreBased))
	assert.Equal(t, []int{42, 300, 301, 302}, ids(list.Primary))
	assert.Equal(t, []int{42, 300, 301, 302, 800, 801}, ids(list.All()))
	assert.Len(t, history.records, 3)
}

func TestRecommend_HistoryReadBeforeAppend(t *testing.T) {
	catalog := &fakeCatalog{
		searchResults: matrixResults(),
		discover:      map[int][]domain.Movie{28: movies(800, 3)},
	}
	p := newPipeline(catalog, &memHistory{})

	// The query's own record must not feed its own affinity lookup.
	first, err := p.svc.Recommend(context.Background(), "Matrix")
	require.NoError(t, err)
	assert.Empty(t, first.GenreBased)
	assert.Empty(t, catalog.discoverCalls)

	second, err := p.svc.Recommend(context.Background(), "Matrix")
	require.NoError(t, err)
	assert.Equal(t, []int{28}, catalog.discoverCalls)
	assert.Equal(t, []int{800, 801}, ids(second.GenreBased))
	assert.Equal(t, 2, p.history.appends)
}

func TestRecommend_GenreGroupNotDeduplicated(t *testing.T) {
	history := &memHistory{}
	history.seed([]int{28})
	catalog := &fakeCatalog{
		searchResults: matrixResults(),
		discover:      map[int][]domain.Movie{28: {movie(603, "The Matrix", 28, 878)}},
	}
	p := newPipeline(catalog, history)

	list, err := p.svc.Recommend(context.Background(), "Matrix")
	require.NoError(t, err)

	assert.Equal(t, 603, list.Primary[0].ID)
	assert.Equal(t, []int{603}, ids(list.GenreBased))
}

func TestRecommend_DiscoverFailureDegrades(t *testing.T) {
	history := &memHistory{}
	history.seed([]int{878})
	catalog := &fakeCatalog{
		searchResults: matrixResults(),
		discoverErr:   errProvider,
	}
	p := newPipeline(catalog, history)

	list, err := p.svc.Recommend(context.Background(), "Matrix")
	require.NoError(t, err)

	assert.Empty(t, list.GenreBased)
	assert.Zero(t, list.SharedGenreID)
	assert.Contains(t, p.recorder.degradations, SourceDiscover)
	assert.Equal(t, 1, history.appends)
}

func TestRecommend_HistoryWriteFailureDoesNotFailQuery(t *testing.T) {
	history := &memHistory{appendErr: errors.New("read-only file system")}
	catalog := &fakeCatalog{searchResults: matrixResults()}
	p := newPipeline(catalog, history)

	list, err := p.svc.Recommend(context.Background(), "Matrix")
	require.NoError(t, err)

	assert.Len(t, list.Primary, 3)
	assert.Equal(t, 1, history.appends)
	require.Len(t, p.recorder.appendErrs, 1)
	assert.Error(t, p.recorder.appendErrs[0])
	assert.Contains(t, p.recorder.degradations, SourceHistoryWrite)
}

func TestRecommend_HistoryRecordsBestMatchGenresOnly(t *testing.T) {
	history := &memHistory{}
	history.seed([]int{12})
	catalog := &fakeCatalog{
		searchResults: matrixResults(),
		recs:          map[int][]domain.Movie{603: movies(900, 2, 16, 35)},
		discover:      map[int][]domain.Movie{},
	}
	p := newPipeline(catalog, history)

	_, err := p.svc.Recommend(context.Background(), "Matrix")
	require.NoError(t, err)

	require.Len(t, history.records, 2)
	assert.Equal(t, []int{28, 878}, history.records[1].GenreIDs)
}

func TestRecommend_NilRecorderAllowed(t *testing.T) {
	catalog := &fakeCatalog{searchResults: matrixResults()}
	history := &memHistory{}
	affinity := NewAffinityEngine(history, catalog, nil, testLogger())
	svc := NewRecommendationService(catalog, affinity, history, nil, testLogger())

	_, err := svc.Recommend(context.Background(), "Matrix")
	assert.NoError(t, err)
}
