package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/samber/do/v2"

	"github.com/cinematch/cinematch-server/internal/config"
	"github.com/cinematch/cinematch-server/internal/di"
	"github.com/cinematch/cinematch-server/internal/logger"
)

// errUsage signals that usage was already printed.
var errUsage = errors.New("usage requested")

// session is a bootstrapped container plus the arguments left after flag parsing.
type session struct {
	injector *do.RootScope
	args     []string
}

func (s *session) close() {
	_ = s.injector.Shutdown()
}

// openSession parses the shared configuration flags, plus any registered by
// extra, and bootstraps the pipeline without the HTTP server.
func openSession(name string, args []string, stderr io.Writer, extra func(*flag.FlagSet)) (*session, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	noColor := fs.Bool("no-color", false, "Disable colored output")
	if extra != nil {
		extra(fs)
	}

	cfg, err := config.Load(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return nil, errUsage
	}
	if err != nil {
		return nil, err
	}
	if *noColor {
		color.NoColor = true
	}

	injector := di.NewContainer()
	do.OverrideValue(injector, cfg)
	// Logs go to stderr so stdout carries only the output.
	do.Override(injector, func(do.Injector) (*logger.Logger, error) {
		logCfg := logger.Config{
			Writer:      stderr,
			Level:       logger.ParseLevel(cfg.Logger.Level),
			Environment: cfg.App.Environment,
		}
		if cfg.Logger.File != "" {
			return logger.OpenFile(logCfg, cfg.Logger.File)
		}
		return logger.New(logCfg), nil
	})

	if err := di.Bootstrap(injector, false); err != nil {
		_ = injector.Shutdown()
		return nil, fmt.Errorf("failed to start: %w", err)
	}

	return &session{injector: injector, args: fs.Args()}, nil
}
