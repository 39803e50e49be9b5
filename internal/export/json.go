// Package export renders an extracted dependency graph to its output
// formats: the JSON graph file and a Mermaid class diagram.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dusk-indust/swiftgraph/internal/graph"
)

// DefaultOutputFile is the fixed name the graph is written under when no
// explicit output path is configured.
const DefaultOutputFile = "dependencies.json"

// EncodeGraph renders entities as a single JSON object keyed by entity name.
// encoding/json sorts map keys, so the output is reproducible regardless of
// the order files were processed in.
func EncodeGraph(entities []*graph.Entity) ([]byte, error) {
	byName := make(map[string]*graph.Entity, len(entities))
	for _, e := range entities {
		byName[e.Name] = e
	}
	out, err := json.MarshalIndent(byName, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return append(out, '\n'), nil
}

// WriteGraph encodes the store's entities and writes them to path.
func WriteGraph(ctx context.Context, store graph.Store, path string) error {
	entities, err := store.ListEntities(ctx)
	if err != nil {
		return fmt.Errorf("list entities: %w", err)
	}
	data, err := EncodeGraph(entities)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
