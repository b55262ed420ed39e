package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tessera/internal/config"
	"tessera/internal/journal"
	"tessera/internal/logging"
	"tessera/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	closeLog   func() error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// loggerFor builds the CLI logger once. Failures fall back to a no-op logger
// so a broken log directory never blocks a resolution.
func (c *commandContext) loggerFor(cfg *config.Config) *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, closeLog, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger, closeLog = logging.NewNop(), nil
		}
		c.logger = logger
		c.closeLog = closeLog
	})
	return c.logger
}

// closeLogger releases the log file opened by loggerFor.
func (c *commandContext) closeLogger() {
	if c.closeLog != nil {
		_ = c.closeLog()
		c.closeLog = nil
	}
}

func (c *commandContext) openJournal(ctx context.Context, cfg *config.Config) (*journal.Journal, error) {
	j, err := journal.Open(ctx, cfg.Paths.JournalPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "journal", "open", cfg.Paths.JournalPath, err)
	}
	return j, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
