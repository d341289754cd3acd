package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks a configuration for inconsistencies. It assumes defaults
// have already been applied.
func Validate(cfg *Config) error {
	switch cfg.Validation.Mode {
	case "strict", "loose":
	default:
		return fmt.Errorf("validation.mode must be \"strict\" or \"loose\", got %q", cfg.Validation.Mode)
	}

	switch cfg.Registry.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("registry.backend must be \"memory\" or \"sqlite\", got %q", cfg.Registry.Backend)
	}

	if cfg.Registry.Backend == "sqlite" && cfg.Registry.SQLite.Path == "" {
		return fmt.Errorf("registry.sqlite.path is required for the sqlite backend")
	}

	if cfg.Registry.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Registry.Retention.Schedule); err != nil {
			return fmt.Errorf("registry.retention.schedule is not a valid cron expression: %w", err)
		}
	}
	if cfg.Registry.Retention.KeepRevisions < 1 {
		return fmt.Errorf("registry.retention.keep_revisions must be at least 1, got %d", cfg.Registry.Retention.KeepRevisions)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be \"json\" or \"text\", got %q", cfg.Logging.Format)
	}

	if cfg.Schemas.DebounceInterval < 0 {
		return fmt.Errorf("schemas.debounce_interval cannot be negative")
	}

	return nil
}
