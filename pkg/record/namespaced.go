package record

import (
	"sort"

	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// The namespaced side-channel lives under the reserved field
// schema.SideChannelField as a mapping from owner ID to an arbitrary
// key/value sub-mapping. It bypasses schema validation entirely: the
// validator exempts the reserved field even in strict mode, so third-party
// extensions can attach data without schema collisions.

// SetNamespacedData stores a value under an owner's namespace, lazily
// creating the owner's sub-mapping on first write.
func (r *Record) SetNamespacedData(ownerID, key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel := r.sideChannelLocked(true)
	owner, ok := channel[ownerID].(map[string]any)
	if !ok {
		owner = make(map[string]any)
		channel[ownerID] = owner
	}
	owner[key] = value
}

// GetNamespacedData returns the value stored under an owner's namespace,
// or def when the owner or key is absent.
func (r *Record) GetNamespacedData(ownerID, key string, def any) any {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel := r.sideChannelLocked(false)
	if channel == nil {
		return def
	}
	owner, ok := channel[ownerID].(map[string]any)
	if !ok {
		return def
	}
	value, ok := owner[key]
	if !ok {
		return def
	}
	return value
}

// HasNamespacedData reports whether the owner has any namespaced data.
func (r *Record) HasNamespacedData(ownerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel := r.sideChannelLocked(false)
	if channel == nil {
		return false
	}
	owner, ok := channel[ownerID].(map[string]any)
	return ok && len(owner) > 0
}

// AllNamespacedData returns a copy of the owner's entire sub-mapping.
// The copy is shallow; callers must not rely on mutating nested values.
func (r *Record) AllNamespacedData(ownerID string) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]any)
	channel := r.sideChannelLocked(false)
	if channel == nil {
		return out
	}
	if owner, ok := channel[ownerID].(map[string]any); ok {
		for k, v := range owner {
			out[k] = v
		}
	}
	return out
}

// ClearNamespacedData removes the owner's namespace entirely.
func (r *Record) ClearNamespacedData(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel := r.sideChannelLocked(false)
	if channel == nil {
		return
	}
	delete(channel, ownerID)
	if len(channel) == 0 {
		delete(r.data, schema.SideChannelField)
	}
}

// NamespaceOwners returns the IDs of every owner with namespaced data, in
// sorted order.
func (r *Record) NamespaceOwners() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel := r.sideChannelLocked(false)
	if channel == nil {
		return nil
	}
	owners := make([]string, 0, len(channel))
	for id := range channel {
		owners = append(owners, id)
	}
	sort.Strings(owners)
	return owners
}

// sideChannelLocked returns the reserved side-channel mapping, creating it
// when create is set. Callers must hold r.mu.
func (r *Record) sideChannelLocked(create bool) map[string]any {
	if channel, ok := r.data[schema.SideChannelField].(map[string]any); ok {
		return channel
	}
	if !create {
		return nil
	}
	channel := make(map[string]any)
	r.data[schema.SideChannelField] = channel
	return channel
}
