package graph

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore is the run-scoped graph store: a single mapping from entity name
// to Entity shared by all files processed within one run. Nothing is ever
// removed; the store's lifetime equals the run's lifetime. Thread-safe via
// sync.RWMutex, though registration is expected to happen from one writer.
type MemStore struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	policy   DuplicatePolicy
}

// NewMemStore returns an initialized MemStore applying the given duplicate
// policy. An empty policy defaults to overwrite.
func NewMemStore(policy DuplicatePolicy) *MemStore {
	if policy == "" {
		policy = PolicyOverwrite
	}
	return &MemStore{
		entities: make(map[string]*Entity),
		policy:   policy,
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddEntity registers entity under its name. Under the overwrite policy a
// later entity with the same name replaces the earlier one in its entirety;
// under the merge policy the records are folded together.
func (m *MemStore) AddEntity(_ context.Context, entity *Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entities[entity.Name]; ok && m.policy == PolicyMerge {
		existing.Merge(entity)
		return nil
	}
	m.entities[entity.Name] = entity
	return nil
}

// GetEntity returns the entity with the given name, or nil if not found.
func (m *MemStore) GetEntity(_ context.Context, name string) (*Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entities[name], nil
}

// ListEntities returns all entities sorted by name.
func (m *MemStore) ListEntities(_ context.Context) ([]*Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Entity, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// QueryEntities returns entities whose name contains query
// (case-insensitive), sorted by name, up to limit results. A limit <= 0
// returns all matches.
func (m *MemStore) QueryEntities(_ context.Context, query string, limit int) ([]*Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lowerQuery := strings.ToLower(query)
	var results []*Entity
	for _, e := range m.entities {
		if strings.Contains(strings.ToLower(e.Name), lowerQuery) {
			results = append(results, e)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Stats returns counts across all registered entities.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &GraphStats{EntityCount: len(m.entities)}
	for _, e := range m.entities {
		stats.PropertyCount += len(e.Properties)
		stats.MethodCount += len(e.Methods)
		for _, method := range e.Methods {
			stats.CallCount += len(method.Calls)
		}
	}
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
