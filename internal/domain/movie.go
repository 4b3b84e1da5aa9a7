// Package domain contains the core types shared by the recommendation pipeline.
package domain

// Movie is a catalog entry as returned by the catalog provider.
// Values are treated as immutable once fetched.
type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"` // "YYYY-MM-DD" or empty when unknown
	Overview    string `json:"overview,omitempty"`
	GenreIDs    []int  `json:"genre_ids"`
	PosterPath  string `json:"poster_path,omitempty"`
}

// HasPoster reports whether the entry carries a poster reference.
func (m *Movie) HasPoster() bool {
	return m.PosterPath != ""
}

// Genre is one entry of the provider's genre taxonomy.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
