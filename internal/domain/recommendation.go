package domain

// RankedMatch pairs a search result with its title similarity score and its
// position in the provider's original result list.
type RankedMatch struct {
	Movie    Movie   `json:"movie"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

// RecommendationList is the outcome of one successful query.
//
// Primary holds the ranked title matches followed by the content-based
// recommendations for the best match, truncated to the display limit.
// GenreBased is the trailing history-informed group. It is not deduplicated
// against Primary.
type RecommendationList struct {
	Query      string        `json:"query"`
	BestMatch  Movie         `json:"best_match"`
	Matches    []RankedMatch `json:"matches"`
	Primary    []Movie       `json:"primary"`
	GenreBased []Movie       `json:"genre_based"`

	// SharedGenreID is the genre used for the trailing group, 0 when history
	// shared no genre with the best match.
	SharedGenreID int `json:"shared_genre_id,omitempty"`
}

// All returns Primary followed by GenreBased.
func (l *RecommendationList) All() []Movie {
	out := make([]Movie, 0, len(l.Primary)+len(l.GenreBased))
	out = append(out, l.Primary...)
	return append(out, l.GenreBased...)
}
