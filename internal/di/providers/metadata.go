package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinematch/cinematch-server/internal/config"
	"github.com/cinematch/cinematch-server/internal/logger"
	"github.com/cinematch/cinematch-server/internal/metadata/tmdb"
	"github.com/cinematch/cinematch-server/internal/metrics"
)

// TMDBClientHandle wraps the TMDB client with shutdown capability.
type TMDBClientHandle struct {
	*tmdb.Client
}

// Shutdown implements do.Shutdownable.
func (h *TMDBClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideTMDBClient provides the catalog API client.
func ProvideTMDBClient(i do.Injector) (*TMDBClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	client := tmdb.New(tmdb.Options{
		BaseURL:     cfg.TMDB.BaseURL,
		APIKey:      cfg.TMDB.APIKey,
		AccessToken: cfg.TMDB.AccessToken,
		Language:    cfg.TMDB.Language,
		Timeout:     cfg.TMDB.Timeout,
		RPS:         cfg.TMDB.RPS,
		Burst:       cfg.TMDB.Burst,

		BreakerFailures: cfg.TMDB.BreakerFailures,
		BreakerTimeout:  cfg.TMDB.BreakerTimeout,
	}, log.Component("tmdb"))
	client.SetObserver(m)

	log.Debug("TMDB client initialized",
		"base_url", cfg.TMDB.BaseURL,
		"timeout", cfg.TMDB.Timeout,
		"rps", cfg.TMDB.RPS,
		"breaker_failures", cfg.TMDB.BreakerFailures,
	)

	return &TMDBClientHandle{Client: client}, nil
}
