package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/cinematch/cinematch-server/internal/config"
	"github.com/cinematch/cinematch-server/internal/logger"
	"github.com/cinematch/cinematch-server/internal/store"
	"github.com/cinematch/cinematch-server/internal/store/sqlite"
	"github.com/cinematch/cinematch-server/internal/store/tabular"
)

// HistoryStoreHandle wraps the configured history backend with shutdown capability.
type HistoryStoreHandle struct {
	store.HistoryStore
}

// Shutdown implements do.Shutdownable.
func (h *HistoryStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideHistoryStore opens the history backend selected in the configuration.
func ProvideHistoryStore(i do.Injector) (*HistoryStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storeLog := log.Component("history")

	var (
		hs  store.HistoryStore
		err error
	)
	switch cfg.History.Backend {
	case config.HistoryBackendSQLite:
		hs, err = sqlite.Open(cfg.History.Path, storeLog)
	case config.HistoryBackendBadger:
		hs, err = store.New(cfg.History.Path, storeLog)
	default:
		hs, err = tabular.Open(cfg.History.Path, storeLog)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s history at %s: %w", cfg.History.Backend, cfg.History.Path, err)
	}

	log.Debug("Search history opened",
		"backend", cfg.History.Backend,
		"path", cfg.History.Path,
	)

	return &HistoryStoreHandle{HistoryStore: hs}, nil
}
