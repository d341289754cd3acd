package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Echo-Logic-Interactive/typedict/pkg/config"
	"github.com/Echo-Logic-Interactive/typedict/pkg/registry"
	"github.com/Echo-Logic-Interactive/typedict/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile    string
	verbose    bool
	schemaDirs []string
)

var rootCmd = &cobra.Command{
	Use:   "typedict",
	Short: "Typedict - schema toolchain for runtime-validated records",
	Long: `Typedict manages YAML schema definitions for runtime validation of
dynamically-typed key/value records.

It provides:
  - Schema file linting with source locations
  - Data file validation in strict or loose mode
  - Schema inspection and export (JSON, TypeScript)
  - Hot reload of schema directories with revision persistence`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "typedict.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringSliceVar(&schemaDirs, "schemas", nil, "schema directories (overrides config)")
}

// loadConfig loads the configuration file, tolerating a missing file at the
// default path. Explicitly named files must exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !rootCmd.PersistentFlags().Changed("config") {
			return config.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config file %q does not exist", cfgFile)
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// newLogger builds the process logger from config and the verbose flag.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg)
}

// effectiveSchemaDirs resolves the schema directories: the --schemas flag
// wins over the config file.
func effectiveSchemaDirs(cfg *config.Config) []string {
	if len(schemaDirs) > 0 {
		return schemaDirs
	}
	return cfg.Schemas.Dirs
}

// loadRegistry builds an in-memory registry from the configured schema
// directories.
func loadRegistry(cfg *config.Config, logger *slog.Logger) (*registry.Memory, error) {
	dirs := effectiveSchemaDirs(cfg)
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no schema directories configured (set schemas.dirs or pass --schemas)")
	}

	reg := registry.NewMemory()
	for _, dir := range dirs {
		if _, err := registry.LoadDir(dir, reg, logger); err != nil {
			return nil, fmt.Errorf("failed to load schemas from %q: %w", dir, err)
		}
	}
	if reg.Len() == 0 {
		return nil, fmt.Errorf("no schemas found in %v", dirs)
	}
	return reg, nil
}
