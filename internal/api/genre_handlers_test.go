package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematch/cinematch-server/internal/dto"
)

type genreList struct {
	Genres []dto.Genre `json:"genres"`
}

type genreMovies struct {
	Genre  dto.Genre   `json:"genre"`
	Movies []dto.Movie `json:"movies"`
}

func TestListGenres(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/genres")
	require.Equal(t, http.StatusOK, resp.Code)

	genres := decode[genreList](t, resp).Data.Genres
	require.Len(t, genres, 6)
	assert.Equal(t, dto.Genre{ID: 878, Name: "Science Fiction", Slug: "science-fiction"}, genres[5])
}

func TestListGenres_CatalogUnavailable(t *testing.T) {
	ts := setupTestServer(t, func(c *fakeCatalog, _ *Options) {
		c.genresErr = errUpstream
	})

	resp := ts.api.Get("/api/v1/genres")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[genreList](t, resp).Data.Genres)
}

func TestGetGenreMovies(t *testing.T) {
	for _, key := range []string{"878", "science-fiction", "Science%20Fiction", "sci-fi"} {
		t.Run(key, func(t *testing.T) {
			ts := setupTestServer(t)

			resp := ts.api.Get("/api/v1/genres/" + key + "/movies")
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			data := decode[genreMovies](t, resp).Data
			assert.Equal(t, 878, data.Genre.ID)
			assert.Equal(t, []int{157336}, movieIDs(data.Movies))
			assert.Equal(t, []string{"Science Fiction", "Adventure"}, data.Movies[0].Genres)
		})
	}
}

func TestGetGenreMovies_UnknownGenre(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/genres/polka/movies")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	env := decode[any](t, resp)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, map[string]any{"genre": "polka"}, env.Details)
}

func TestGetGenreMovies_ProviderDown(t *testing.T) {
	ts := setupTestServer(t, func(c *fakeCatalog, _ *Options) {
		c.discoverErr = errUpstream
	})

	resp := ts.api.Get("/api/v1/genres/28/movies")
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Equal(t, "PROVIDER_UNAVAILABLE", decode[any](t, resp).Code)
}
