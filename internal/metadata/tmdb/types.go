// Package tmdb provides a client for The Movie Database (TMDB) v3 API, the
// catalog provider behind search, recommendations, discovery and genres.
package tmdb

import "github.com/cinematch/cinematch-server/internal/domain"

// Operation names, also used as rate limiter keys and metric labels.
const (
	OpSearch          = "search"
	OpRecommendations = "recommendations"
	OpDiscover        = "discover"
	OpGenres          = "genres"
)

// rawMovie mirrors a movie object in TMDB list responses.
// Nullable strings decode to "".
type rawMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	GenreIDs    []int  `json:"genre_ids"`
	PosterPath  string `json:"poster_path"`
}

type rawPage struct {
	Page         int        `json:"page"`
	Results      []rawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type rawGenreList struct {
	Genres []rawGenre `json:"genres"`
}

type rawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawStatus struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (r *rawMovie) toDomain() domain.Movie {
	genres := r.GenreIDs
	if genres == nil {
		genres = []int{}
	}
	return domain.Movie{
		ID:          r.ID,
		Title:       r.Title,
		ReleaseDate: r.ReleaseDate,
		Overview:    r.Overview,
		GenreIDs:    genres,
		PosterPath:  r.PosterPath,
	}
}

func toMovies(raw []rawMovie) []domain.Movie {
	movies := make([]domain.Movie, 0, len(raw))
	for i := range raw {
		movies = append(movies, raw[i].toDomain())
	}
	return movies
}
