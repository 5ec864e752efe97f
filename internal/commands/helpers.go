// Package commands holds the CLI command handlers.
package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/roamweb/enhance"
	"github.com/gerunddev/roamweb/internal/api"
	"github.com/gerunddev/roamweb/internal/config"
	"github.com/gerunddev/roamweb/internal/logger"
	"github.com/gerunddev/roamweb/styles"
)

// env is everything a command needs: config, logger and optional style
// overrides.
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	styles  *enhance.Styles
	cleanup func()
}

// setup loads config, opens the log file and reads the styles override file
// when one is configured.
func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, cleanup, err := logger.NewFileLogger(cfg.LogFile)
	if err != nil {
		// A broken log path should not stop the CLI.
		log = logger.New(os.Stderr)
		cleanup = func() {}
	}

	var overrides *enhance.Styles
	if cfg.StylesFile != "" {
		overrides, err = enhance.LoadStyles(cfg.StylesFile)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to load styles: %w", err)
		}
		log.StylesLoaded(cfg.StylesFile)
	}

	return &env{cfg: cfg, log: log, styles: overrides, cleanup: cleanup}, nil
}

func (e *env) apiClient() (*api.Client, error) {
	return api.New(e.cfg.APIBaseURL, e.cfg.RequestTimeout, e.log)
}

// fail prints a styled error and exits.
func fail(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

func success(format string, args ...any) {
	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf(format, args...)))
}
