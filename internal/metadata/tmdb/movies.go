package tmdb

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cinematch/cinematch-server/internal/domain"
)

// SearchByTitle returns the first page of movies matching a free-text query,
// in the provider's relevance order.
func (c *Client) SearchByTitle(ctx context.Context, query string) ([]domain.Movie, error) {
	if query == "" {
		return nil, wrapError(OpSearch, 0, ErrBadRequest)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", "1")

	return c.fetchPage(ctx, OpSearch, 0, "/search/movie", params)
}

// RecommendationsFor returns the provider's content-based recommendations for a movie.
func (c *Client) RecommendationsFor(ctx context.Context, movieID int) ([]domain.Movie, error) {
	if movieID <= 0 {
		return nil, wrapError(OpRecommendations, movieID, ErrInvalidID)
	}

	path := "/movie/" + strconv.Itoa(movieID) + "/recommendations"
	return c.fetchPage(ctx, OpRecommendations, movieID, path, url.Values{"page": {"1"}})
}

// DiscoverByGenre returns popular movies tagged with a single genre.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID int) ([]domain.Movie, error) {
	if genreID <= 0 {
		return nil, wrapError(OpDiscover, genreID, ErrInvalidID)
	}

	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	params.Set("page", "1")

	return c.fetchPage(ctx, OpDiscover, genreID, "/discover/movie", params)
}

// ListGenres returns the movie genre taxonomy.
func (c *Client) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	body, err := c.doRequest(ctx, OpGenres, "/genre/movie/list", nil)
	if err != nil {
		return nil, wrapError(OpGenres, 0, err)
	}

	var resp rawGenreList
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError(OpGenres, 0, fmt.Errorf("parse response: %w", err))
	}

	genres := make([]domain.Genre, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

func (c *Client) fetchPage(ctx context.Context, op string, id int, path string, params url.Values) ([]domain.Movie, error) {
	body, err := c.doRequest(ctx, op, path, params)
	if err != nil {
		return nil, wrapError(op, id, err)
	}

	var resp rawPage
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError(op, id, fmt.Errorf("parse response: %w", err))
	}

	return toMovies(resp.Results), nil
}

func isErr(err, target error) bool {
	return errors.Is(err, target)
}
