package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"history": s.checkHistory(ctx),
		"genres":  s.checkGenres(ctx),
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkHistory verifies the history store is readable.
func (s *Server) checkHistory(ctx context.Context) ComponentHealth {
	if s.services == nil || s.services.History == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "history not configured",
		}
	}

	start := time.Now()
	_, err := s.services.History.Recent(ctx, 1)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "history read failed",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkGenres reports whether the genre catalog was fetched. An empty
// catalog only degrades output (genres show as Unknown).
func (s *Server) checkGenres(ctx context.Context) ComponentHealth {
	if s.services == nil || s.services.Genre == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "genre catalog not configured",
		}
	}

	if len(s.services.Genre.ListGenres(ctx)) == 0 {
		return ComponentHealth{
			Status:  "degraded",
			Message: "genre catalog unavailable",
		}
	}

	return ComponentHealth{Status: "healthy"}
}
