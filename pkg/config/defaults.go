package config

import "time"

// Default values applied to unset fields.
const (
	DefaultMode             = "loose"
	DefaultBackend          = "memory"
	DefaultSQLitePath       = "typedict.db"
	DefaultBusyTimeout      = 5 * time.Second
	DefaultDebounceInterval = 100 * time.Millisecond
	DefaultKeepRevisions    = 5
	DefaultMaxAge           = 30 * 24 * time.Hour
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsNamespace = "typedict"
	DefaultMetricsAddress   = ":9090"
	DefaultMetricsPath      = "/metrics"
)

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Schemas.DebounceInterval == 0 {
		cfg.Schemas.DebounceInterval = DefaultDebounceInterval
	}

	if cfg.Validation.Mode == "" {
		cfg.Validation.Mode = DefaultMode
	}

	if cfg.Registry.Backend == "" {
		cfg.Registry.Backend = DefaultBackend
	}
	if cfg.Registry.SQLite.Path == "" {
		cfg.Registry.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Registry.SQLite.BusyTimeout == 0 {
		cfg.Registry.SQLite.BusyTimeout = DefaultBusyTimeout
	}
	if cfg.Registry.Retention.KeepRevisions == 0 {
		cfg.Registry.Retention.KeepRevisions = DefaultKeepRevisions
	}
	if cfg.Registry.Retention.MaxAge == 0 {
		cfg.Registry.Retention.MaxAge = DefaultMaxAge
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsAddress
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}
