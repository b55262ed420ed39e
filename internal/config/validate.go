package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"tessera/internal/aggregation"
	"tessera/internal/evidence"
)

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

var validSources = []evidence.Kind{
	evidence.KindFilename,
	evidence.KindFolder,
	evidence.KindMediaInfo,
	evidence.KindRelease,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	if err := c.validateAttributes(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level %q must be one of %s", c.Logging.Level, strings.Join(validLogLevels, ", "))
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 0 {
		return errors.New("pipeline.workers must be >= 0")
	}
	return nil
}

func (c *Config) validateJournal() error {
	if c.Journal.Enabled && strings.TrimSpace(c.Paths.JournalPath) == "" {
		return errors.New("paths.journal_path must be set when journal.enabled is true")
	}
	if c.Journal.RetentionDays < 0 {
		return errors.New("journal.retention_days must be >= 0")
	}
	return nil
}

func (c *Config) validateAttributes() error {
	ids := make([]string, 0, len(c.Attributes))
	for id := range c.Attributes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		attr := c.Attributes[id]
		if id == "" {
			return errors.New("attributes: table name must not be empty")
		}
		if attr.Policy != "" {
			if _, err := aggregation.ParsePolicy(attr.Policy); err != nil {
				return fmt.Errorf("attributes.%s.policy: %w", id, err)
			}
		}
		if attr.TieBreak != "" {
			if _, err := aggregation.ParseTieBreak(attr.TieBreak); err != nil {
				return fmt.Errorf("attributes.%s.tie_break: %w", id, err)
			}
		}
		seen := make(map[string]struct{}, len(attr.Sources))
		for _, source := range attr.Sources {
			if !slices.Contains(validSources, evidence.Kind(source)) {
				return fmt.Errorf("attributes.%s.sources: unknown source %q", id, source)
			}
			if _, dup := seen[source]; dup {
				return fmt.Errorf("attributes.%s.sources: %q listed twice", id, source)
			}
			seen[source] = struct{}{}
		}
	}
	return nil
}
