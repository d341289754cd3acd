package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Echo-Logic-Interactive/typedict/pkg/cli"
	"github.com/Echo-Logic-Interactive/typedict/pkg/config"
	"github.com/Echo-Logic-Interactive/typedict/pkg/registry"
	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
	"github.com/Echo-Logic-Interactive/typedict/pkg/telemetry/metrics"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch schema directories and keep the registry current",
	Long: `Watch the configured schema directories, reloading schemas on change.

Each successful reload persists the schemas as a new revision in the
configured store, so a bad edit can be recovered. When metrics are
enabled, validation metrics and the registered schema count are served
over HTTP.

The command runs until interrupted.`,
	RunE: watchSchemas,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchSchemas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger = logger.With("component", "typedict.watch")

	dirs := effectiveSchemaDirs(cfg)
	if len(dirs) == 0 {
		return fmt.Errorf("no schema directories configured (set schemas.dirs or pass --schemas)")
	}

	ctx := cli.SetupSignalHandler()

	// Store for schema revisions.
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Metrics endpoint.
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Metrics, nil)
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, collector.Handler())
		server := &http.Server{Addr: cfg.Metrics.ListenAddress, Handler: mux}

		go func() {
			logger.Info("metrics endpoint started",
				"address", cfg.Metrics.ListenAddress,
				"path", cfg.Metrics.Path,
			)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	reg := registry.NewMemory()
	reload := func() error {
		total := 0
		for _, dir := range dirs {
			count, err := registry.LoadDir(dir, reg, logger)
			if err != nil {
				return err
			}
			total += count
		}

		if err := persistSchemas(ctx, store, reg); err != nil {
			logger.Warn("failed to persist schema revisions", "error", err)
		}
		if collector != nil {
			collector.SetRegisteredSchemas(reg.Len())
		}

		logger.Info("registry reloaded", "schemas", reg.Len(), "loaded", total)
		return nil
	}

	if err := reload(); err != nil {
		return err
	}
	if reg.Len() == 0 {
		return fmt.Errorf("no schemas found in %v", dirs)
	}

	// Retention pruning on the revision store.
	if cfg.Registry.Retention.Schedule != "" {
		scheduler := registry.NewRetentionScheduler(store, registry.RetentionConfig{
			Schedule:      cfg.Registry.Retention.Schedule,
			KeepRevisions: cfg.Registry.Retention.KeepRevisions,
			MaxAge:        cfg.Registry.Retention.MaxAge,
		})
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
	}

	// One watcher per schema directory, all feeding the same reload.
	errCh := make(chan error, len(dirs))
	for _, dir := range dirs {
		wcfg := registry.DefaultWatcherConfig()
		wcfg.Path = dir
		wcfg.DebounceInterval = cfg.Schemas.DebounceInterval

		watcher, err := registry.NewWatcher(wcfg, logger)
		if err != nil {
			return err
		}
		go func() {
			errCh <- watcher.Watch(ctx, reload)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

// openStore builds the configured revision store.
func openStore(cfg *config.Config) (registry.Store, error) {
	switch cfg.Registry.Backend {
	case "sqlite":
		return registry.NewSQLiteStoreWithConfig(registry.SQLiteStoreConfig{
			DBPath:      cfg.Registry.SQLite.Path,
			BusyTimeout: cfg.Registry.SQLite.BusyTimeout,
		})
	default:
		return registry.NewMemoryStore(), nil
	}
}

// persistSchemas saves a rendered definition of every registered schema.
// Unchanged schemas are skipped so repeated reloads do not pile up
// identical revisions.
func persistSchemas(ctx context.Context, store registry.Store, reg *registry.Memory) error {
	for _, name := range reg.Names() {
		s, ok := reg.Resolve(name)
		if !ok {
			continue
		}
		def := renderDefinition(s)

		latest, err := store.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("schema %q: %w", name, err)
		}
		if latest != nil && bytes.Equal(latest.Definition, def) {
			continue
		}

		if _, err := store.Save(ctx, name, def); err != nil {
			return fmt.Errorf("schema %q: %w", name, err)
		}
	}
	return nil
}

// renderDefinition renders a schema back into its YAML block form,
// preserving field declaration order.
func renderDefinition(s *schema.Schema) []byte {
	var b strings.Builder
	b.WriteString("fields:\n")
	for _, f := range s.Fields() {
		fmt.Fprintf(&b, "  %s: %s\n", f.Name, f.Descriptor)
	}
	return []byte(b.String())
}
