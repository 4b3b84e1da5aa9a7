package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinematch/cinematch-server/internal/dto"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns the cached catalog genre taxonomy",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenreMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{genre}/movies",
		Summary:     "Get genre movies",
		Description: "Returns popular movies for a genre given by ID, name, slug, or common alias",
		Tags:        []string{"Genres"},
	}, s.handleGetGenreMovies)
}

// ListGenresOutput contains the genre list.
type ListGenresOutput struct {
	Body struct {
		Genres []dto.Genre `json:"genres" doc:"Catalog genres"`
	}
}

func (s *Server) handleListGenres(ctx context.Context, _ *struct{}) (*ListGenresOutput, error) {
	out := &ListGenresOutput{}
	out.Body.Genres = s.services.Enricher.EnrichGenres(s.services.Genre.ListGenres(ctx))
	return out, nil
}

// GenreMoviesInput identifies a genre.
type GenreMoviesInput struct {
	Genre string `path:"genre" doc:"Genre ID, name, slug, or alias (e.g. 878, science-fiction, sci-fi)"`
}

// GenreMoviesOutput contains a genre and its popular movies.
type GenreMoviesOutput struct {
	Body struct {
		Genre  dto.Genre   `json:"genre" doc:"Resolved genre"`
		Movies []dto.Movie `json:"movies" doc:"Popular movies in the genre"`
	}
}

func (s *Server) handleGetGenreMovies(ctx context.Context, input *GenreMoviesInput) (*GenreMoviesOutput, error) {
	g, movies, err := s.services.Genre.Discover(ctx, input.Genre)
	if err != nil {
		return nil, toAPIError(err)
	}

	out := &GenreMoviesOutput{}
	out.Body.Genre = s.services.Enricher.EnrichGenre(g)
	out.Body.Movies = s.services.Enricher.EnrichMovies(ctx, movies)
	return out, nil
}
