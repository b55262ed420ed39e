package config

const (
	defaultConfigPath           = "~/.config/tessera/config.toml"
	defaultLogDir               = "~/.local/share/tessera/logs"
	defaultJournalPath          = "~/.local/share/tessera/journal.db"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultWorkers              = 4
	defaultJournalEnabled       = true
	defaultJournalRetentionDays = 90
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Pipeline: Pipeline{
			Workers: defaultWorkers,
		},
		Journal: Journal{
			Enabled:       defaultJournalEnabled,
			RetentionDays: defaultJournalRetentionDays,
		},
	}
}
