package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention TYPEDICT_SECTION_FIELD (e.g. TYPEDICT_VALIDATION_MODE) and
// always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies TYPEDICT_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Schemas overrides
	if val := os.Getenv("TYPEDICT_SCHEMAS_DIRS"); val != "" {
		cfg.Schemas.Dirs = strings.Split(val, ",")
	}
	if val := os.Getenv("TYPEDICT_SCHEMAS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schemas.Watch = b
		}
	}
	if val := os.Getenv("TYPEDICT_SCHEMAS_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Schemas.DebounceInterval = d
		}
	}

	// Validation overrides
	if val := os.Getenv("TYPEDICT_VALIDATION_MODE"); val != "" {
		cfg.Validation.Mode = val
	}
	if val := os.Getenv("TYPEDICT_VALIDATION_DISABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.Disabled = b
		}
	}
	if val := os.Getenv("TYPEDICT_VALIDATION_EXHAUSTIVE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.Exhaustive = b
		}
	}

	// Registry overrides
	if val := os.Getenv("TYPEDICT_REGISTRY_BACKEND"); val != "" {
		cfg.Registry.Backend = val
	}
	if val := os.Getenv("TYPEDICT_REGISTRY_SQLITE_PATH"); val != "" {
		cfg.Registry.SQLite.Path = val
	}
	if val := os.Getenv("TYPEDICT_REGISTRY_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Registry.SQLite.BusyTimeout = d
		}
	}
	if val := os.Getenv("TYPEDICT_REGISTRY_RETENTION_SCHEDULE"); val != "" {
		cfg.Registry.Retention.Schedule = val
	}
	if val := os.Getenv("TYPEDICT_REGISTRY_RETENTION_KEEP_REVISIONS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Registry.Retention.KeepRevisions = i
		}
	}
	if val := os.Getenv("TYPEDICT_REGISTRY_RETENTION_MAX_AGE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Registry.Retention.MaxAge = d
		}
	}

	// Logging overrides
	if val := os.Getenv("TYPEDICT_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("TYPEDICT_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("TYPEDICT_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.AddSource = b
		}
	}

	// Metrics overrides
	if val := os.Getenv("TYPEDICT_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("TYPEDICT_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}
	if val := os.Getenv("TYPEDICT_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}
}
