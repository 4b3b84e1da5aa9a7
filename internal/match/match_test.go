package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Matrix", "the matrix"},
		{"Amélie (2001)", "amelie 2001"},
		{"  Spider-Man:   No Way Home ", "spider man no way home"},
		{"WALL·E", "wall e"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Run("identical after folding", func(t *testing.T) {
		assert.InDelta(t, 100, Similarity("The Matrix", "the matrix!"), 0.001)
	})

	t.Run("empty input scores zero", func(t *testing.T) {
		assert.Zero(t, Similarity("", "The Matrix"))
		assert.Zero(t, Similarity("The Matrix", "..."))
	})

	t.Run("reordered words", func(t *testing.T) {
		assert.InDelta(t, 95, Similarity("matrix the", "The Matrix"), 0.001)
	})

	t.Run("substring of longer title", func(t *testing.T) {
		assert.InDelta(t, 90, Similarity("matrix", "The Matrix Reloaded"), 0.001)
	})

	t.Run("typo tolerated", func(t *testing.T) {
		score := Similarity("matirx", "Matrix")
		assert.Greater(t, score, 60.0)
		assert.Less(t, score, 100.0)
	})

	t.Run("unrelated titles score low", func(t *testing.T) {
		assert.Less(t, Similarity("matrix", "Finding Nemo"), 50.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, Similarity("inception", "Inception 2"), Similarity("Inception 2", "inception"), 0.001)
	})
}

func TestRank_OrdersByScore(t *testing.T) {
	titles := []string{"Finding Nemo", "The Matrix Reloaded", "Matrix"}

	got := Rank("matrix", titles, DefaultLimit)
	require.Len(t, got, 3)

	assert.Equal(t, "Matrix", got[0].Title)
	assert.Equal(t, 2, got[0].Index)
	assert.InDelta(t, 100, got[0].Score, 0.001)

	assert.Equal(t, "The Matrix Reloaded", got[1].Title)
	assert.Equal(t, 1, got[1].Index)

	assert.Equal(t, "Finding Nemo", got[2].Title)
	assert.Equal(t, 0, got[2].Index)
}

func TestRank_StableTies(t *testing.T) {
	// Both candidates contain the query verbatim and score identically.
	titles := []string{"The Matrix Reloaded", "The Matrix", "Matrix"}

	got := Rank("matrix", titles, DefaultLimit)
	require.Len(t, got, 3)

	assert.Equal(t, 2, got[0].Index)
	assert.Equal(t, got[1].Score, got[2].Score)
	assert.Equal(t, 0, got[1].Index)
	assert.Equal(t, 1, got[2].Index)
}

func TestRank_Limit(t *testing.T) {
	titles := make([]string, 12)
	for i := range titles {
		titles[i] = fmt.Sprintf("Movie %d", i)
	}

	assert.Len(t, Rank("movie", titles, DefaultLimit), DefaultLimit)
	assert.Len(t, Rank("movie", titles[:3], DefaultLimit), 3)
	assert.Len(t, Rank("movie", titles, 0), 12)
}

func TestRank_EmptyCandidates(t *testing.T) {
	got := Rank("matrix", nil, DefaultLimit)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRank_Properties(t *testing.T) {
	titles := []string{
		"The Matrix", "The Matrix Reloaded", "The Matrix Revolutions",
		"The Matrix Resurrections", "The Animatrix", "Matrix of Leadership",
		"A Glitch in the Matrix", "Enter the Matrix", "The Matrix Recalibrated",
		"Return to Source: The Philosophy of The Matrix",
	}

	for _, query := range []string{"matrix", "The Matrix", "matrx reloded", "animatrix", "zzz"} {
		t.Run(query, func(t *testing.T) {
			got := Rank(query, titles, DefaultLimit)

			assert.LessOrEqual(t, len(got), min(DefaultLimit, len(titles)))

			seen := map[int]bool{}
			for i, m := range got {
				assert.Equal(t, titles[m.Index], m.Title)
				assert.False(t, seen[m.Index], "duplicate index %d", m.Index)
				seen[m.Index] = true

				assert.GreaterOrEqual(t, m.Score, 0.0)
				assert.LessOrEqual(t, m.Score, 100.0)

				if i > 0 {
					prev := got[i-1]
					assert.GreaterOrEqual(t, prev.Score, m.Score)
					if prev.Score == m.Score {
						assert.Less(t, prev.Index, m.Index)
					}
				}
			}
		})
	}
}
