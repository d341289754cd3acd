package config

import "time"

// Config is the root configuration for the typedict tooling. All sections
// have working defaults; an empty file is a valid configuration.
type Config struct {
	// Schemas configures schema definition discovery.
	Schemas SchemasConfig `yaml:"schemas"`

	// Validation configures the validation engine.
	Validation ValidationConfig `yaml:"validation"`

	// Registry configures schema persistence.
	Registry RegistryConfig `yaml:"registry"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// SchemasConfig configures where schema definition files live and whether
// they are hot reloaded.
type SchemasConfig struct {
	// Dirs are the directories scanned for *.yaml / *.yml schema files.
	Dirs []string `yaml:"dirs"`

	// Watch enables hot reload of schema files.
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period before a reload triggers.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// ValidationConfig configures the validation engine.
type ValidationConfig struct {
	// Mode is the default validation mode ("strict" or "loose").
	Mode string `yaml:"mode"`

	// Disabled turns validation off entirely; every check passes.
	Disabled bool `yaml:"disabled"`

	// Exhaustive reports every violation instead of stopping at the first.
	Exhaustive bool `yaml:"exhaustive"`
}

// RegistryConfig configures schema persistence.
type RegistryConfig struct {
	// Backend selects the store: "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention configures pruning of superseded schema revisions.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures the SQLite schema store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for locks before failing.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig configures revision pruning.
type RetentionConfig struct {
	// Schedule is a cron expression; empty disables scheduled pruning.
	Schedule string `yaml:"schedule"`

	// KeepRevisions is the minimum revisions kept per schema.
	KeepRevisions int `yaml:"keep_revisions"`

	// MaxAge is how long superseded revisions are kept.
	MaxAge time.Duration `yaml:"max_age"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric recording on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem prefix.
	Subsystem string `yaml:"subsystem"`

	// ListenAddress is where the watch command serves metrics.
	ListenAddress string `yaml:"listen_address"`

	// Path is the metrics endpoint path.
	Path string `yaml:"path"`

	// DurationBuckets overrides the validation latency histogram buckets.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}
