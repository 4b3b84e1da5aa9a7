package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematch/cinematch-server/internal/dto"
)

func movieIDs(movies []dto.Movie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestGetRecommendations_FirstQuery(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/recommendations?q=The%20Matrix")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[dto.Recommendations](t, resp)
	assert.True(t, env.Success)

	rec := env.Data
	assert.Equal(t, "The Matrix", rec.Query)
	assert.Equal(t, 603, rec.BestMatch.ID)
	assert.Equal(t, []string{"Action", "Science Fiction"}, rec.BestMatch.Genres)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", rec.BestMatch.PosterURL)

	require.Len(t, rec.Matches, 3)
	assert.Equal(t, 603, rec.Matches[0].ID)
	assert.InDelta(t, 100, rec.Matches[0].Score, 0.001)
	assert.Equal(t, 0, rec.Matches[0].Position)

	// Ranked matches first, then recommendations for the best match.
	assert.Equal(t, []int{603, 604, 684428, 605, 27205}, movieIDs(rec.Primary))

	// No history yet, so no shared genre.
	assert.Empty(t, rec.GenreBased)
	assert.Nil(t, rec.SharedGenre)

	records, err := ts.history.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "The Matrix", records[0].Query)
	assert.Equal(t, []int{28, 878}, records[0].GenreIDs)
}

func TestGetRecommendations_GenreAffinityFromHistory(t *testing.T) {
	ts := setupTestServer(t)

	require.Equal(t, http.StatusOK, ts.api.Get("/api/v1/recommendations?q=matrix").Code)

	resp := ts.api.Get("/api/v1/recommendations?q=matrix")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	rec := decode[dto.Recommendations](t, resp).Data

	// 28 and 878 are shared, the lowest id wins.
	require.NotNil(t, rec.SharedGenre)
	assert.Equal(t, 28, rec.SharedGenre.ID)
	assert.Equal(t, "Action", rec.SharedGenre.Name)
	assert.Equal(t, "action", rec.SharedGenre.Slug)
	assert.Equal(t, []int{245891, 155}, movieIDs(rec.GenreBased))
}

func TestGetRecommendations_Placeholders(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/recommendations?q=Recalibrated")
	require.Equal(t, http.StatusOK, resp.Code)

	rec := decode[dto.Recommendations](t, resp).Data
	require.Len(t, rec.Primary, 3)

	// Reloaded has no overview and no poster.
	var reloaded dto.Movie
	for _, m := range rec.Primary {
		if m.ID == 604 {
			reloaded = m
		}
	}
	assert.Equal(t, dto.NoOverview, reloaded.Overview)
	assert.Empty(t, reloaded.PosterURL)
}

func TestGetRecommendations_Errors(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		configure func(*fakeCatalog, *Options)
		status    int
		code      string
	}{
		{
			name:   "missing query",
			query:  "",
			status: http.StatusBadRequest,
			code:   "EMPTY_QUERY",
		},
		{
			name:   "blank query",
			query:  "%20%20%20",
			status: http.StatusBadRequest,
			code:   "EMPTY_QUERY",
		},
		{
			name:   "query too long",
			query:  strings.Repeat("a", 201),
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:  "no match",
			query: "zzzz",
			configure: func(c *fakeCatalog, _ *Options) {
				c.search = nil
			},
			status: http.StatusNotFound,
			code:   "NO_MATCH_FOUND",
		},
		{
			name:  "provider down",
			query: "matrix",
			configure: func(c *fakeCatalog, _ *Options) {
				c.searchErr = errUpstream
			},
			status: http.StatusBadGateway,
			code:   "PROVIDER_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var configure []func(*fakeCatalog, *Options)
			if tt.configure != nil {
				configure = append(configure, tt.configure)
			}
			ts := setupTestServer(t, configure...)

			resp := ts.api.Get("/api/v1/recommendations?q=" + tt.query)
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())

			env := decode[any](t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Code)
			assert.NotEmpty(t, env.Message)

			records, err := ts.history.ReadAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, records, "failed queries must not be recorded")
		})
	}
}

func TestGetRecommendations_DiscoverFailureDegrades(t *testing.T) {
	ts := setupTestServer(t, func(c *fakeCatalog, _ *Options) {
		c.discoverErr = errUpstream
	})

	require.Equal(t, http.StatusOK, ts.api.Get("/api/v1/recommendations?q=matrix").Code)

	resp := ts.api.Get("/api/v1/recommendations?q=matrix")
	require.Equal(t, http.StatusOK, resp.Code)

	rec := decode[dto.Recommendations](t, resp).Data
	assert.Empty(t, rec.GenreBased)
	assert.Nil(t, rec.SharedGenre)
	assert.NotEmpty(t, rec.Primary)
}
