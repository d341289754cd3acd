package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// Registry resolves schema names to schemas. It is the explicit replacement
// for resolving nested schema types by file naming convention: whoever owns
// the schema set populates it at startup, and resolution is a pure lookup.
//
// Registry satisfies validator.Resolver.
type Registry interface {
	// Resolve answers whether a bare descriptor name refers to a known
	// schema, and returns it.
	Resolve(name string) (*schema.Schema, bool)

	// Register adds a schema under its name. Registering a name again
	// replaces the earlier schema, so hot reload can swap definitions.
	Register(s *schema.Schema) error

	// Names returns every registered schema name in sorted order.
	Names() []string
}

// Memory is the default in-memory registry. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	schemas map[string]*schema.Schema
}

// NewMemory creates an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{schemas: make(map[string]*schema.Schema)}
}

// Resolve looks up a schema by name.
func (m *Memory) Resolve(name string) (*schema.Schema, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schemas[name]
	return s, ok
}

// Register adds or replaces a schema.
func (m *Memory) Register(s *schema.Schema) error {
	if s == nil {
		return fmt.Errorf("cannot register a nil schema")
	}
	if s.Name() == "" {
		return fmt.Errorf("cannot register a schema without a name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemas[s.Name()] = s
	return nil
}

// Unregister removes a schema by name. No-op for unknown names.
func (m *Memory) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.schemas, name)
}

// Names returns every registered schema name in sorted order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.schemas))
	for name := range m.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered schemas.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.schemas)
}
