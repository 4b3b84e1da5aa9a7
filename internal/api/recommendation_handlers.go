package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinematch/cinematch-server/internal/dto"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations",
		Summary:     "Get recommendations",
		Description: "Resolves a title query to the best catalog match and returns ranked matches, " +
			"recommendations for the best match, and movies from a genre shared with recent searches. " +
			"Each successful query is appended to the search history.",
		Tags: []string{"Recommendations"},
	}, s.handleGetRecommendations)
}

// RecommendationsInput contains parameters for a recommendation query.
type RecommendationsInput struct {
	Query string `query:"q" doc:"Movie title to search for"`
}

// RecommendationsOutput contains the recommendation list.
type RecommendationsOutput struct {
	Body dto.Recommendations
}

func (s *Server) handleGetRecommendations(ctx context.Context, input *RecommendationsInput) (*RecommendationsOutput, error) {
	list, err := s.services.Recommendation.Recommend(ctx, input.Query)
	if err != nil {
		return nil, toAPIError(err)
	}

	return &RecommendationsOutput{
		Body: s.services.Enricher.EnrichRecommendations(ctx, list),
	}, nil
}
