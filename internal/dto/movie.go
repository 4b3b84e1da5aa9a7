// Package dto provides client-facing representations of pipeline results.
//
// DTOs carry display-ready fields (genre names, poster URLs, placeholder
// text for missing values) alongside the raw ids, so any front end can
// render an entry without further lookups.
package dto

import (
	"time"

	"github.com/cinematch/cinematch-server/internal/domain"
)

// Placeholders shown for missing catalog fields.
const (
	UnknownTitle       = "Unknown Title"
	UnknownReleaseDate = "Unknown Release Date"
	NoOverview         = "No overview available."
)

// Movie is the client-facing representation of a catalog entry.
type Movie struct {
	ID          int      `json:"id" doc:"Catalog movie ID"`
	Title       string   `json:"title" doc:"Title, or a placeholder when missing"`
	ReleaseDate string   `json:"release_date" doc:"Release date (YYYY-MM-DD), or a placeholder when missing"`
	Overview    string   `json:"overview" doc:"Plot overview, or a placeholder when missing"`
	PosterURL   string   `json:"poster_url,omitempty" doc:"Absolute poster image URL"`
	GenreIDs    []int    `json:"genre_ids" doc:"Catalog genre IDs"`
	Genres      []string `json:"genres" doc:"Genre names, Unknown for unmapped IDs"`
}

// RankedMatch is a title match with its similarity score.
type RankedMatch struct {
	Movie
	Score    float64 `json:"score" doc:"Title similarity, 0-100"`
	Position int     `json:"position" doc:"Index in the catalog's search results"`
}

// Genre is the client-facing representation of a genre.
type Genre struct {
	ID   int    `json:"id" doc:"Catalog genre ID"`
	Name string `json:"name" doc:"Genre name"`
	Slug string `json:"slug" doc:"URL-safe genre slug"`
}

// Recommendations is the client-facing recommendation list.
type Recommendations struct {
	Query       string        `json:"query" doc:"Query as searched, trimmed"`
	BestMatch   Movie         `json:"best_match" doc:"Highest ranked title match"`
	Matches     []RankedMatch `json:"matches" doc:"Ranked title matches (did you mean)"`
	Primary     []Movie       `json:"primary" doc:"Title matches followed by recommendations for the best match"`
	GenreBased  []Movie       `json:"genre_based" doc:"Movies from a genre shared with recent searches"`
	SharedGenre *Genre        `json:"shared_genre,omitempty" doc:"Genre used for genre_based"`
}

// SearchRecord is the client-facing representation of a history entry.
type SearchRecord struct {
	Query     string    `json:"query" doc:"Searched text"`
	GenreIDs  []int     `json:"genre_ids" doc:"Genres of the best match"`
	Genres    []string  `json:"genres" doc:"Genre names"`
	Timestamp time.Time `json:"timestamp" doc:"When the search ran"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func genreIDs(m *domain.Movie) []int {
	if m.GenreIDs == nil {
		return []int{}
	}
	return m.GenreIDs
}
