package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	LogDir      string `toml:"log_dir"`
	JournalPath string `toml:"journal_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Pipeline contains scheduling knobs for attribute resolution.
type Pipeline struct {
	// Workers bounds how many attributes resolve concurrently. Zero resolves
	// every attribute at once.
	Workers int `toml:"workers"`
	// ParallelAugmenters evaluates the augmenters of one attribute
	// concurrently.
	ParallelAugmenters bool `toml:"parallel_augmenters"`
}

// Journal contains configuration for the resolution journal.
type Journal struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// Attribute overrides how one attribute is resolved. Empty fields keep the
// attribute's built-in behaviour.
type Attribute struct {
	// Sources lists evidence sources in registration order. Order breaks
	// ties between equal-confidence candidates.
	Sources  []string `toml:"sources"`
	Policy   string   `toml:"policy"`
	TieBreak string   `toml:"tie_break"`
	// Default toggles the fallback value. Nil keeps it enabled.
	Default *bool `toml:"default"`
}

// DefaultEnabled reports whether the attribute falls back to its default.
func (a Attribute) DefaultEnabled() bool {
	return a.Default == nil || *a.Default
}

// Config encapsulates all configuration values for Tessera.
//
// Configuration sections:
//   - Paths: log directory and journal database location
//   - Logging: log format and level
//   - Pipeline: attribute and augmenter concurrency
//   - Journal: resolution journal retention
//   - Attributes: per-attribute source order, policy, and fallback
type Config struct {
	Paths      Paths                `toml:"paths"`
	Logging    Logging              `toml:"logging"`
	Pipeline   Pipeline             `toml:"pipeline"`
	Journal    Journal              `toml:"journal"`
	Attributes map[string]Attribute `toml:"attributes"`
}

// Aggregation is the slice of configuration the attribute pipeline is built
// from.
type Aggregation struct {
	Workers            int
	ParallelAugmenters bool
	Attributes         map[string]Attribute
}

// Aggregation returns the pipeline settings.
func (c *Config) Aggregation() Aggregation {
	attrs := make(map[string]Attribute, len(c.Attributes))
	for id, attr := range c.Attributes {
		attrs[id] = attr
	}
	return Aggregation{
		Workers:            c.Pipeline.Workers,
		ParallelAugmenters: c.Pipeline.ParallelAugmenters,
		Attributes:         attrs,
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tessera.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and, when the journal is
// enabled, the directory holding the journal database.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Journal.Enabled {
		dirs = append(dirs, filepath.Dir(c.Paths.JournalPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
