package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a genre name to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "TV Movie" -> "tv-movie".
// "Ciência & Ficção" -> "ciencia-ficcao".
func Slugify(s string) string {
	// Decompose accented characters, then drop anything outside ASCII.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// aliases maps common spellings to the slug of a catalog genre name.
var aliases = map[string]string{
	"sci-fi":      "science-fiction",
	"scifi":       "science-fiction",
	"sf":          "science-fiction",
	"romcom":      "romance",
	"rom-com":     "romance",
	"doc":         "documentary",
	"docs":        "documentary",
	"animated":    "animation",
	"cartoon":     "animation",
	"kids":        "family",
	"suspense":    "thriller",
	"whodunit":    "mystery",
	"biopic":      "history",
	"musical":     "music",
	"cowboy":      "western",
	"war-film":    "war",
	"scary":       "horror",
	"slasher":     "horror",
	"funny":       "comedy",
	"heist":       "crime",
	"tv":          "tv-movie",
	"made-for-tv": "tv-movie",
}

// canonicalSlug slugifies key and resolves it through the alias table.
func canonicalSlug(key string) string {
	slug := Slugify(key)
	if target, ok := aliases[slug]; ok {
		return target
	}
	return slug
}
