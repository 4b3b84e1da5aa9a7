// Package api provides the HTTP API server and handlers for Cinematch.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cinematch/cinematch-server/internal/http/response"
	"github.com/cinematch/cinematch-server/internal/metrics"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	RateLimit      int // requests per minute per client on /api/v1, 0 disables
	RateBurst      int
	Version        string
	// TrustProxy mounts chi's RealIP so X-Forwarded-For and X-Real-IP set the
	// client address. Enable only behind a reverse proxy that overwrites them.
	TrustProxy bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	router   *chi.Mux
	api      huma.API
	metrics  *metrics.Metrics
	limiter  *RateLimiter
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// m may be nil, in which case no metrics are recorded or exposed.
func NewServer(services *Services, opts Options, m *metrics.Metrics, logger *slog.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	s := &Server{
		services: services,
		router:   chi.NewRouter(),
		metrics:  m,
		logger:   logger,
	}
	if opts.RateLimit > 0 {
		s.limiter = NewRateLimiter(opts.RateLimit, time.Minute, opts.RateBurst)
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Cinematch API", opts.Version)
	humaConfig.Info.Description = "Movie recommendations from title search, catalog recommendations and search history."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the underlying huma API.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	if opts.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	if s.limiter != nil {
		s.router.Use(limitPrefix("/api/", RateLimitMiddleware(s.limiter, s.logger)))
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerRecommendationRoutes()
	s.registerGenreRoutes()
	s.registerHistoryRoutes()

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}
}
