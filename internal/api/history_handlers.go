package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinematch/cinematch-server/internal/dto"
)

func (s *Server) registerHistoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSearchHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "List search history",
		Description: "Returns recent searches, newest first",
		Tags:        []string{"History"},
	}, s.handleListHistory)
}

// ListHistoryInput contains pagination for the history list.
type ListHistoryInput struct {
	Limit int `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum number of searches to return"`
}

// ListHistoryOutput contains recent searches.
type ListHistoryOutput struct {
	Body struct {
		Searches []dto.SearchRecord `json:"searches" doc:"Recent searches, newest first"`
	}
}

func (s *Server) handleListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	records, err := s.services.History.Recent(ctx, input.Limit)
	if err != nil {
		return nil, toAPIError(err)
	}

	out := &ListHistoryOutput{}
	out.Body.Searches = s.services.Enricher.EnrichHistory(ctx, records)
	return out, nil
}
