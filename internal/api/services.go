package api

import (
	"github.com/cinematch/cinematch-server/internal/dto"
	"github.com/cinematch/cinematch-server/internal/service"
)

// Services groups the business logic used by the API server.
type Services struct {
	Recommendation *service.RecommendationService
	Genre          *service.GenreService
	History        *service.HistoryService
	Enricher       *dto.Enricher
}
