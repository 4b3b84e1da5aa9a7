package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cinematch/cinematch-server/internal/domain"
	domainerrors "github.com/cinematch/cinematch-server/internal/errors"
	"github.com/cinematch/cinematch-server/internal/match"
	"github.com/cinematch/cinematch-server/internal/store"
	"github.com/cinematch/cinematch-server/internal/validation"
)

const (
	// PrimaryLimit caps ranked matches plus content-based recommendations.
	PrimaryLimit = 8
	// GenreGroupLimit caps the trailing history-informed group.
	GenreGroupLimit = 2
)

// Result groups reported to the Recorder.
const (
	GroupMatches         = "matches"
	GroupRecommendations = "recommendations"
	GroupGenre           = "genre"
)

// RecommendRequest is the validated input of a recommendation query.
type RecommendRequest struct {
	Query string `json:"query" validate:"required,max=200"`
}

// RecommendationService is the recommendation aggregator. It owns the full
// flow of one query: search, rank, recommend, affinity, and history append.
type RecommendationService struct {
	catalog   CatalogProvider
	affinity  *AffinityEngine
	history   store.HistoryStore
	validator *validation.Validator
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecommendationService creates a recommendation service.
func NewRecommendationService(
	catalog CatalogProvider,
	affinity *AffinityEngine,
	history store.HistoryStore,
	recorder Recorder,
	logger *slog.Logger,
) *RecommendationService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &RecommendationService{
		catalog:   catalog,
		affinity:  affinity,
		history:   history,
		validator: validation.New(),
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// Recommend runs the pipeline for one query.
//
// It fails with EmptyQuery for a blank query, ProviderUnavailable when the
// title search fails, and NoMatchFound when the search returns nothing. In
// those cases history is left untouched. Every later failure degrades to
// fewer results.
func (s *RecommendationService) Recommend(ctx context.Context, query string) (*domain.RecommendationList, error) {
	start := s.now()

	list, outcome, err := s.recommend(ctx, query)
	s.recorder.ObserveQuery(outcome, s.now().Sub(start))
	return list, err
}

func (s *RecommendationService) recommend(ctx context.Context, query string) (*domain.RecommendationList, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, OutcomeEmptyQuery, domainerrors.EmptyQuery()
	}
	if err := s.validator.Validate(RecommendRequest{Query: query}); err != nil {
		return nil, OutcomeInvalid, err
	}

	results, err := s.catalog.SearchByTitle(ctx, query)
	if err != nil {
		s.logger.Error("title search failed", "query", query, "error", err)
		return nil, OutcomeProviderUnavailable, domainerrors.ProviderUnavailable(err)
	}
	if len(results) == 0 {
		s.logger.Info("no movies matched query", "query", query)
		return nil, OutcomeNoMatch, domainerrors.NoMatchFound()
	}

	ranked := rankResults(query, results)
	best := ranked[0].Movie

	// Content-based recommendations and the history-informed affinity lookup
	// are independent; neither fails the query. History must be read before
	// this query's own record is appended.
	var (
		additional []domain.Movie
		affinity   Affinity
		g          errgroup.Group
	)
	g.Go(func() error {
		movies, err := s.catalog.RecommendationsFor(ctx, best.ID)
		if err != nil {
			s.recorder.ObserveDegradation(SourceRecommendations)
			s.logger.Warn("recommendations unavailable, continuing with title matches only",
				"movie_id", best.ID,
				"error", err,
			)
			return nil
		}
		additional = movies
		return nil
	})
	g.Go(func() error {
		affinity = s.affinity.Recommend(ctx, best.GenreIDs)
		return nil
	})
	_ = g.Wait()

	s.appendHistory(ctx, domain.NewSearchRecord(query, best.GenreIDs, s.now()))

	primary := make([]domain.Movie, 0, PrimaryLimit)
	for _, m := range ranked {
		primary = append(primary, m.Movie)
	}
	primary = append(primary, additional...)
	if len(primary) > PrimaryLimit {
		primary = primary[:PrimaryLimit]
	}

	genreBased := affinity.Movies
	if len(genreBased) > GenreGroupLimit {
		genreBased = genreBased[:GenreGroupLimit]
	}

	s.recorder.ObserveResults(GroupMatches, len(ranked))
	s.recorder.ObserveResults(GroupRecommendations, len(additional))
	s.recorder.ObserveResults(GroupGenre, len(genreBased))

	s.logger.Info("recommendations ready",
		"query", query,
		"best_match", best.Title,
		"best_match_id", best.ID,
		"primary", len(primary),
		"genre_based", len(genreBased),
		"shared_genre_id", affinity.GenreID,
	)

	return &domain.RecommendationList{
		Query:         query,
		BestMatch:     best,
		Matches:       ranked,
		Primary:       primary,
		GenreBased:    genreBased,
		SharedGenreID: affinity.GenreID,
	}, OutcomeOK, nil
}

// appendHistory records the query. A failed write is logged, not returned:
// the recommendations have already been computed.
func (s *RecommendationService) appendHistory(ctx context.Context, record domain.SearchRecord) {
	err := s.history.Append(ctx, record)
	s.recorder.ObserveHistoryAppend(err)
	if err != nil {
		s.recorder.ObserveDegradation(SourceHistoryWrite)
		s.logger.Error("failed to append search history",
			"query", record.Query,
			"error", err,
		)
	}
}

// rankResults orders search results by title similarity, keeping the top
// match.DefaultLimit.
func rankResults(query string, results []domain.Movie) []domain.RankedMatch {
	titles := make([]string, len(results))
	for i, m := range results {
		titles[i] = m.Title
	}

	matches := match.Rank(query, titles, match.DefaultLimit)
	ranked := make([]domain.RankedMatch, len(matches))
	for i, m := range matches {
		ranked[i] = domain.RankedMatch{
			Movie:    results[m.Index],
			Score:    m.Score,
			Position: m.Index,
		}
	}
	return ranked
}
