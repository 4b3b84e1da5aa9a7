// Package match ranks catalog titles against a free-text query using an
// edit-distance tolerant similarity score.
package match

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// DefaultLimit is the number of ranked matches kept per query.
const DefaultLimit = 8

// Scores for substring and reordered-token comparisons are discounted so an
// exact whole-string match always ranks first.
const (
	partialScale       = 0.9
	farPartialScale    = 0.6
	tokenScale         = 0.95
	partialLenRatio    = 1.5
	farPartialLenRatio = 8.0
)

// Match is one ranked candidate.
type Match struct {
	Title string
	Score float64 // 0-100
	Index int     // position in the candidate slice passed to Rank
}

// Rank scores every title against query and returns the best limit matches
// in descending score order. Equal scores keep their input order.
// A non-positive limit returns every candidate.
func Rank(query string, titles []string, limit int) []Match {
	matches := make([]Match, 0, len(titles))
	if len(titles) == 0 {
		return matches
	}

	q := Normalize(query)
	for i, title := range titles {
		matches = append(matches, Match{
			Title: title,
			Score: similarity(q, Normalize(title)),
			Index: i,
		})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Similarity returns a 0-100 score for how closely a and b match.
// Case, accents, punctuation and word order differences are tolerated.
func Similarity(a, b string) float64 {
	return similarity(Normalize(a), Normalize(b))
}

// Normalize folds s for comparison: accents are stripped, letters lowercased,
// and every run of non-alphanumeric characters becomes a single space.
// "Amélie (2001)" -> "amelie 2001".
func Normalize(s string) string {
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		default:
			space = true
		}
	}
	return b.String()
}

// similarity expects normalized input.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	best := ratio(a, b)
	best = max(best, tokenScale*ratio(sortTokens(a), sortTokens(b)))

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))
	if lenRatio >= partialLenRatio {
		scale := partialScale
		if lenRatio >= farPartialLenRatio {
			scale = farPartialScale
		}
		best = max(best, scale*partialRatio(a, b))
		best = max(best, scale*tokenScale*partialRatio(sortTokens(a), sortTokens(b)))
	}

	return math.Round(best*100) / 100
}

// ratio is the normalized edit-distance similarity of two strings.
func ratio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

// partialRatio slides the shorter string across the longer one and returns
// the best window ratio.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		score := ratio(s, string(long[i:i+len(short)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}
