package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizePipeline()
	c.normalizeJournal()
	c.normalizeAttributes()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TESSERA_JOURNAL_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Paths.JournalPath = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = defaultJournalPath
	}
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("TESSERA_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.Workers < 0 {
		c.Pipeline.Workers = 0
	}
}

func (c *Config) normalizeJournal() {
	if c.Journal.RetentionDays < 0 {
		c.Journal.RetentionDays = 0
	}
}

func (c *Config) normalizeAttributes() {
	if len(c.Attributes) == 0 {
		return
	}
	normalized := make(map[string]Attribute, len(c.Attributes))
	for id, attr := range c.Attributes {
		sources := make([]string, 0, len(attr.Sources))
		for _, source := range attr.Sources {
			sources = append(sources, strings.ToLower(strings.TrimSpace(source)))
		}
		if attr.Sources != nil {
			attr.Sources = sources
		}
		attr.Policy = strings.ToLower(strings.TrimSpace(attr.Policy))
		attr.TieBreak = strings.ToLower(strings.TrimSpace(attr.TieBreak))
		normalized[strings.ToLower(strings.TrimSpace(id))] = attr
	}
	c.Attributes = normalized
}
