package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// StoredSchema is a persisted, revisioned schema definition. The definition
// is kept as the raw YAML block it was authored as, so the store never
// needs to understand the descriptor grammar.
type StoredSchema struct {
	// Name is the schema name (e.g. "RPlayer").
	Name string

	// Revision is a monotonically increasing version per name, assigned
	// by the store on save.
	Revision int64

	// Definition is the raw YAML schema block.
	Definition []byte

	// CreatedAt is when this revision was saved.
	CreatedAt time.Time
}

// Store persists schema definitions across restarts. Implementations must
// be safe for concurrent use.
type Store interface {
	// Save persists a new revision of a schema definition and returns
	// the assigned revision number.
	Save(ctx context.Context, name string, definition []byte) (int64, error)

	// Load retrieves the latest revision for a name.
	// Returns nil with no error when the name is unknown.
	Load(ctx context.Context, name string) (*StoredSchema, error)

	// List returns the latest revision of every stored schema, sorted
	// by name.
	List(ctx context.Context) ([]*StoredSchema, error)

	// Delete removes every revision of a schema. No-op for unknown names.
	Delete(ctx context.Context, name string) error

	// Prune removes superseded revisions created before the cutoff,
	// always keeping at least the latest keep revisions per name.
	// It returns the number of revisions deleted.
	Prune(ctx context.Context, olderThan time.Time, keep int) (int, error)

	// Close releases the store's resources.
	Close() error
}

// MemoryStore implements Store in memory. It is the default backend and
// loses everything on process exit.
type MemoryStore struct {
	mu        sync.RWMutex
	revisions map[string][]*StoredSchema
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revisions: make(map[string][]*StoredSchema)}
}

// Save appends a new revision for a name.
func (m *MemoryStore) Save(ctx context.Context, name string, definition []byte) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("schema name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	revs := m.revisions[name]
	next := int64(1)
	if len(revs) > 0 {
		next = revs[len(revs)-1].Revision + 1
	}
	stored := &StoredSchema{
		Name:       name,
		Revision:   next,
		Definition: append([]byte(nil), definition...),
		CreatedAt:  time.Now(),
	}
	m.revisions[name] = append(revs, stored)
	return next, nil
}

// Load returns the latest revision for a name, or nil when unknown.
func (m *MemoryStore) Load(ctx context.Context, name string) (*StoredSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	revs := m.revisions[name]
	if len(revs) == 0 {
		return nil, nil
	}
	return revs[len(revs)-1], nil
}

// List returns the latest revision of every schema, sorted by name.
func (m *MemoryStore) List(ctx context.Context) ([]*StoredSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*StoredSchema, 0, len(m.revisions))
	for _, revs := range m.revisions {
		if len(revs) > 0 {
			out = append(out, revs[len(revs)-1])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes every revision of a schema.
func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.revisions, name)
	return nil
}

// Prune removes superseded revisions created before the cutoff.
func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Time, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for name, revs := range m.revisions {
		if len(revs) <= keep {
			continue
		}
		cut := 0
		limit := len(revs) - keep
		for cut < limit && revs[cut].CreatedAt.Before(olderThan) {
			cut++
		}
		if cut > 0 {
			m.revisions[name] = revs[cut:]
			deleted += cut
		}
	}
	return deleted, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
