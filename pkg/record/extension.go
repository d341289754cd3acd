package record

import (
	"sync"

	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// ExtensionStore holds runtime schema extensions keyed by schema name.
// Records sharing a store see extensions immediately: extending a schema
// retroactively changes the effective schema of every record bound to it.
//
// The store is safe for concurrent use.
type ExtensionStore struct {
	mu     sync.RWMutex
	fields map[string][]schema.Field
}

// NewExtensionStore creates an empty extension store.
func NewExtensionStore() *ExtensionStore {
	return &ExtensionStore{fields: make(map[string][]schema.Field)}
}

// Extend merges fields into the extension component for a schema name.
// A field whose name is already extended replaces the earlier descriptor
// (latest wins) while keeping its position.
func (s *ExtensionStore) Extend(schemaName string, fields ...schema.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.fields[schemaName]
	for _, f := range fields {
		f.Origin = schema.OriginExtension
		replaced := false
		for i, e := range existing {
			if e.Name == f.Name {
				existing[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, f)
		}
	}
	s.fields[schemaName] = existing
}

// FieldsFor returns a copy of the extension fields for a schema name, in
// the order they were first registered.
func (s *ExtensionStore) FieldsFor(schemaName string) []schema.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing := s.fields[schemaName]
	if len(existing) == 0 {
		return nil
	}
	out := make([]schema.Field, len(existing))
	copy(out, existing)
	return out
}

// Clear removes every extension for a schema name.
func (s *ExtensionStore) Clear(schemaName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fields, schemaName)
}
