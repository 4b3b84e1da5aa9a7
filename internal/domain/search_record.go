package domain

import (
	"slices"
	"time"
)

// SearchRecord is one entry of the append-only search history.
// GenreIDs are the genres of the best match at the time of the search.
type SearchRecord struct {
	Query     string    `json:"query"`
	GenreIDs  []int     `json:"genre_ids"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSearchRecord creates a record for a query, copying the genre list so later
// mutation of the caller's slice cannot alter history.
func NewSearchRecord(query string, genreIDs []int, at time.Time) SearchRecord {
	ids := slices.Clone(genreIDs)
	if ids == nil {
		ids = []int{}
	}
	return SearchRecord{
		Query:     query,
		GenreIDs:  ids,
		Timestamp: at,
	}
}

// Equal reports whether two records hold the same query, genres and instant.
func (r SearchRecord) Equal(other SearchRecord) bool {
	return r.Query == other.Query &&
		slices.Equal(r.GenreIDs, other.GenreIDs) &&
		r.Timestamp.Equal(other.Timestamp)
}
