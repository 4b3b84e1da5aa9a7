package dto

import (
	"context"
	"strings"

	"github.com/cinematch/cinematch-server/internal/domain"
	"github.com/cinematch/cinematch-server/internal/genre"
)

// GenreNamer resolves genre ids to display names.
type GenreNamer interface {
	Names(ctx context.Context, ids []int) []string
	Name(ctx context.Context, id int) string
}

// Enricher turns domain values into display-ready DTOs.
// Missing data is filled with placeholders, never reported as an error.
type Enricher struct {
	genres       GenreNamer
	imageBaseURL string
}

// NewEnricher creates a new enricher. imageBaseURL is prefixed to poster paths.
func NewEnricher(genres GenreNamer, imageBaseURL string) *Enricher {
	return &Enricher{
		genres:       genres,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
	}
}

// EnrichMovie projects a single catalog entry.
func (e *Enricher) EnrichMovie(ctx context.Context, m domain.Movie) Movie {
	ids := genreIDs(&m)
	return Movie{
		ID:          m.ID,
		Title:       orDefault(m.Title, UnknownTitle),
		ReleaseDate: orDefault(m.ReleaseDate, UnknownReleaseDate),
		Overview:    orDefault(m.Overview, NoOverview),
		PosterURL:   e.posterURL(&m),
		GenreIDs:    ids,
		Genres:      e.genres.Names(ctx, ids),
	}
}

// EnrichMovies projects a list, preserving order.
func (e *Enricher) EnrichMovies(ctx context.Context, movies []domain.Movie) []Movie {
	out := make([]Movie, len(movies))
	for i, m := range movies {
		out[i] = e.EnrichMovie(ctx, m)
	}
	return out
}

// EnrichRecommendations projects a full recommendation list.
func (e *Enricher) EnrichRecommendations(ctx context.Context, list *domain.RecommendationList) Recommendations {
	matches := make([]RankedMatch, len(list.Matches))
	for i, m := range list.Matches {
		matches[i] = RankedMatch{
			Movie:    e.EnrichMovie(ctx, m.Movie),
			Score:    m.Score,
			Position: m.Position,
		}
	}

	out := Recommendations{
		Query:      list.Query,
		BestMatch:  e.EnrichMovie(ctx, list.BestMatch),
		Matches:    matches,
		Primary:    e.EnrichMovies(ctx, list.Primary),
		GenreBased: e.EnrichMovies(ctx, list.GenreBased),
	}
	if list.SharedGenreID != 0 {
		g := e.EnrichGenre(domain.Genre{ID: list.SharedGenreID, Name: e.genres.Name(ctx, list.SharedGenreID)})
		out.SharedGenre = &g
	}
	return out
}

// EnrichGenre adds the slug to a genre.
func (e *Enricher) EnrichGenre(g domain.Genre) Genre {
	return Genre{ID: g.ID, Name: g.Name, Slug: genre.Slugify(g.Name)}
}

// EnrichGenres projects a genre list.
func (e *Enricher) EnrichGenres(genres []domain.Genre) []Genre {
	out := make([]Genre, len(genres))
	for i, g := range genres {
		out[i] = e.EnrichGenre(g)
	}
	return out
}

// EnrichHistory projects search records, preserving order.
func (e *Enricher) EnrichHistory(ctx context.Context, records []domain.SearchRecord) []SearchRecord {
	out := make([]SearchRecord, len(records))
	for i, r := range records {
		ids := r.GenreIDs
		if ids == nil {
			ids = []int{}
		}
		out[i] = SearchRecord{
			Query:     r.Query,
			GenreIDs:  ids,
			Genres:    e.genres.Names(ctx, ids),
			Timestamp: r.Timestamp,
		}
	}
	return out
}

func (e *Enricher) posterURL(m *domain.Movie) string {
	if !m.HasPoster() {
		return ""
	}
	return e.imageBaseURL + "/" + strings.TrimLeft(m.PosterPath, "/")
}
