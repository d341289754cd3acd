package registry

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// storeUnderTest runs the Store contract tests against an implementation.
func storeUnderTest(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("load unknown", func(t *testing.T) {
		got, err := store.Load(ctx, "RMissing")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != nil {
			t.Errorf("Load of unknown name = %+v, want nil", got)
		}
	})

	t.Run("save assigns increasing revisions", func(t *testing.T) {
		r1, err := store.Save(ctx, "RPlayer", []byte("fields:\n  name: String\n"))
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		r2, err := store.Save(ctx, "RPlayer", []byte("fields:\n  name: String\n  level: int\n"))
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if r1 != 1 || r2 != 2 {
			t.Errorf("revisions = %d, %d, want 1, 2", r1, r2)
		}
	})

	t.Run("load returns latest", func(t *testing.T) {
		got, err := store.Load(ctx, "RPlayer")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected a stored schema")
		}
		if got.Revision != 2 {
			t.Errorf("Revision = %d, want 2", got.Revision)
		}
		if string(got.Definition) != "fields:\n  name: String\n  level: int\n" {
			t.Errorf("Definition = %q, want latest revision", got.Definition)
		}
	})

	t.Run("list sorted by name", func(t *testing.T) {
		if _, err := store.Save(ctx, "RItem", []byte("fields:\n  id: int\n")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		all, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("List returned %d schemas, want 2", len(all))
		}
		if all[0].Name != "RItem" || all[1].Name != "RPlayer" {
			t.Errorf("List order = %q, %q, want RItem, RPlayer", all[0].Name, all[1].Name)
		}
	})

	t.Run("prune keeps latest revisions", func(t *testing.T) {
		// Everything saved so far is in the past relative to this cutoff.
		cutoff := time.Now().Add(time.Hour)

		deleted, err := store.Prune(ctx, cutoff, 1)
		if err != nil {
			t.Fatalf("Prune failed: %v", err)
		}
		// RPlayer had 2 revisions; only the superseded one may go.
		if deleted != 1 {
			t.Errorf("Prune deleted %d revisions, want 1", deleted)
		}

		got, err := store.Load(ctx, "RPlayer")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got == nil || got.Revision != 2 {
			t.Errorf("latest revision must survive pruning, got %+v", got)
		}
	})

	t.Run("delete removes all revisions", func(t *testing.T) {
		if err := store.Delete(ctx, "RPlayer"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		got, err := store.Load(ctx, "RPlayer")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != nil {
			t.Error("expected RPlayer to be gone after Delete")
		}
	})

	t.Run("save empty name", func(t *testing.T) {
		if _, err := store.Save(ctx, "", []byte("x")); err == nil {
			t.Error("expected error saving with empty name")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	storeUnderTest(t, store)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	storeUnderTest(t, store)

	t.Run("close idempotent", func(t *testing.T) {
		if err := store.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
	})
}

func TestSQLiteStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if _, err := store.Save(ctx, "RPlayer", []byte("fields:\n  name: String\n")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx, "RPlayer")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || got.Revision != 1 {
		t.Errorf("expected RPlayer revision 1 to survive restart, got %+v", got)
	}
}

func TestRetentionScheduler(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		store := NewMemoryStore()
		defer store.Close()

		s := NewRetentionScheduler(store, RetentionConfig{Schedule: "not a cron"})
		if err := s.Start(context.Background()); err == nil {
			t.Error("expected error for invalid cron schedule")
		}
	})

	t.Run("empty schedule is a no-op", func(t *testing.T) {
		store := NewMemoryStore()
		defer store.Close()

		s := NewRetentionScheduler(store, RetentionConfig{})
		if err := s.Start(context.Background()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if s.IsRunning() {
			t.Error("scheduler must not run without a schedule")
		}
	})

	t.Run("run now keeps fresh revisions", func(t *testing.T) {
		store := NewMemoryStore()
		defer store.Close()
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			if _, err := store.Save(ctx, "RPlayer", []byte("x")); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}

		// Default MaxAge is 30 days; revisions saved just now are not
		// eligible even with KeepRevisions of 1.
		s := NewRetentionScheduler(store, RetentionConfig{KeepRevisions: 1})
		deleted, err := s.RunNow(ctx)
		if err != nil {
			t.Fatalf("RunNow failed: %v", err)
		}
		if deleted != 0 {
			t.Errorf("RunNow deleted %d fresh revisions, want 0", deleted)
		}
	})

	t.Run("start and stop", func(t *testing.T) {
		store := NewMemoryStore()
		defer store.Close()

		s := NewRetentionScheduler(store, RetentionConfig{Schedule: "0 3 * * *"})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := s.Start(ctx); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if !s.IsRunning() {
			t.Fatal("expected scheduler to be running")
		}
		if s.NextRun() == nil {
			t.Error("expected a next run time")
		}

		s.Stop()
		if s.IsRunning() {
			t.Error("expected scheduler to be stopped")
		}
	})
}
