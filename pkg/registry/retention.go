package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls pruning of superseded schema revisions.
type RetentionConfig struct {
	// Schedule is a cron expression for when pruning runs
	// (e.g. "0 3 * * *" for daily at 3 AM). Empty disables the scheduler.
	Schedule string

	// KeepRevisions is the minimum number of revisions kept per schema
	// regardless of age. Default: 5
	KeepRevisions int

	// MaxAge is how long superseded revisions are kept. Default: 30 days
	MaxAge time.Duration
}

// DefaultRetentionConfig returns the default retention configuration.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		Schedule:      "0 3 * * *",
		KeepRevisions: 5,
		MaxAge:        30 * 24 * time.Hour,
	}
}

// RetentionScheduler prunes old schema revisions from a Store on a cron
// schedule, so a long-lived process with frequent schema edits does not
// accumulate revisions without bound.
type RetentionScheduler struct {
	store   Store
	config  RetentionConfig
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewRetentionScheduler creates a retention scheduler for a store.
func NewRetentionScheduler(store Store, config RetentionConfig) *RetentionScheduler {
	if config.KeepRevisions < 1 {
		config.KeepRevisions = 5
	}
	if config.MaxAge <= 0 {
		config.MaxAge = 30 * 24 * time.Hour
	}
	return &RetentionScheduler{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "typedict.retention"),
	}
}

// Start begins scheduled pruning. If the schedule is empty the scheduler
// does nothing. The scheduler stops itself when the context is cancelled.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runPruning(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", s.config.Schedule,
		"keep_revisions", s.config.KeepRevisions,
		"max_age", s.config.MaxAge.String(),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunNow executes one pruning cycle immediately.
func (s *RetentionScheduler) RunNow(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.config.MaxAge)
	return s.store.Prune(ctx, cutoff, s.config.KeepRevisions)
}

// runPruning executes a pruning cycle and logs the outcome.
func (s *RetentionScheduler) runPruning(ctx context.Context) {
	s.logger.Info("starting scheduled revision pruning")

	deleted, err := s.RunNow(ctx)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	} else {
		s.logger.Debug("scheduled pruning completed, no revisions deleted")
	}
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *RetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pruning time.
func (s *RetentionScheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
