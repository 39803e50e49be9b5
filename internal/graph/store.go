package graph

import (
	"context"
	"io"
)

// Store is the interface for the accumulated dependency graph backend.
// Implementations: MemStore (the run-scoped accumulator), KuzuStore
// (embedded graph database persistence).
type Store interface {
	io.Closer

	// Schema setup — called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// AddEntity registers an entity under its name. How a name collision is
	// handled is up to the store's duplicate policy.
	AddEntity(ctx context.Context, entity *Entity) error

	// GetEntity returns the entity with the given name, or nil if not found.
	GetEntity(ctx context.Context, name string) (*Entity, error)

	// QueryEntities returns entities whose name contains query, sorted by
	// name, up to limit results. A limit <= 0 returns all matches.
	QueryEntities(ctx context.Context, query string, limit int) ([]*Entity, error)

	// ListEntities returns all entities sorted by name, so serialized output
	// is reproducible regardless of file-processing order.
	ListEntities(ctx context.Context) ([]*Entity, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}
