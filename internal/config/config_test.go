package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tessera/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantJournal := filepath.Join(tempHome, ".local", "share", "tessera", "journal.db")
	if cfg.Paths.JournalPath != wantJournal {
		t.Fatalf("unexpected journal path: got %q want %q", cfg.Paths.JournalPath, wantJournal)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "tessera", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Pipeline.Workers != config.Default().Pipeline.Workers {
		t.Fatalf("unexpected workers: %d", cfg.Pipeline.Workers)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.JournalPath)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tessera.toml")

	type attribute struct {
		Sources  []string `toml:"sources"`
		Policy   string   `toml:"policy"`
		TieBreak string   `toml:"tie_break"`
		Default  bool     `toml:"default"`
	}
	type payload struct {
		Paths struct {
			JournalPath string `toml:"journal_path"`
		} `toml:"paths"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
		Pipeline struct {
			Workers            int  `toml:"workers"`
			ParallelAugmenters bool `toml:"parallel_augmenters"`
		} `toml:"pipeline"`
		Attributes map[string]attribute `toml:"attributes"`
	}
	custom := payload{}
	custom.Paths.JournalPath = filepath.Join(tempDir, "journal", "tessera.db")
	custom.Logging.Format = " JSON "
	custom.Logging.Level = "Debug"
	custom.Pipeline.Workers = 1
	custom.Pipeline.ParallelAugmenters = true
	custom.Attributes = map[string]attribute{
		"Release_Group": {Sources: []string{" Release ", "filename"}, TieBreak: "last_registered"},
	}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.JournalPath != custom.Paths.JournalPath {
		t.Fatalf("unexpected journal path: %q", cfg.Paths.JournalPath)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}

	agg := cfg.Aggregation()
	if agg.Workers != 1 || !agg.ParallelAugmenters {
		t.Fatalf("unexpected pipeline settings: %+v", agg)
	}
	attr, ok := agg.Attributes["release_group"]
	if !ok {
		t.Fatalf("expected normalized attribute key, got %v", agg.Attributes)
	}
	if strings.Join(attr.Sources, ",") != "release,filename" {
		t.Fatalf("sources not normalized: %v", attr.Sources)
	}
	if attr.DefaultEnabled() {
		t.Fatal("explicit default = false should disable the fallback")
	}
}

func TestAttributeDefaultEnabled(t *testing.T) {
	var attr config.Attribute
	if !attr.DefaultEnabled() {
		t.Fatal("absent default key should keep the fallback")
	}
	on := true
	attr.Default = &on
	if !attr.DefaultEnabled() {
		t.Fatal("default = true should keep the fallback")
	}
}

func TestLogLevelEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TESSERA_LOG_LEVEL", "WARN")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env override, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadAttributes(t *testing.T) {
	tests := []struct {
		name    string
		attr    config.Attribute
		wantErr string
	}{
		{"bad policy", config.Attribute{Policy: "majority"}, "attributes.edition.policy"},
		{"bad tie break", config.Attribute{TieBreak: "random"}, "attributes.edition.tie_break"},
		{"unknown source", config.Attribute{Sources: []string{"nfo"}}, "unknown source"},
		{"duplicate source", config.Attribute{Sources: []string{"folder", "folder"}}, "listed twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Attributes = map[string]config.Attribute{"edition": tt.attr}
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Attributes["subtitle_languages"].Policy != "confidence_union" {
		t.Fatalf("unexpected sample attributes: %+v", cfg.Attributes)
	}
}
