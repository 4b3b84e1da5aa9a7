package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinematch/cinematch-server/internal/config"
	"github.com/cinematch/cinematch-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger. With LOG_FILE set, records
// are also appended to that file as JSON; the container closes it on shutdown.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	logCfg := logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}

	log := logger.New(logCfg)
	if cfg.Logger.File != "" {
		fileLog, err := logger.OpenFile(logCfg, cfg.Logger.File)
		if err != nil {
			log.Error("failed to open log file, using console only", "file", cfg.Logger.File, "error", err)
		} else {
			log = fileLog
		}
	}

	log.Debug("Configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"log_file", cfg.Logger.File,
		"data_path", cfg.Data.BasePath,
		"history_backend", cfg.History.Backend,
		"history_path", cfg.History.Path,
	)

	return log, nil
}
