//go:build cgo

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dusk-indust/swiftgraph/internal/graph"
)

// persistKuzu copies the extracted graph into a file-based KuzuDB at dbPath,
// replacing any graph from an earlier run.
func persistKuzu(ctx context.Context, store graph.Store, dbPath string) error {
	// Remove the old graph to avoid stale data.
	os.RemoveAll(dbPath)

	dst, err := graph.NewKuzuFileStore(dbPath)
	if err != nil {
		return fmt.Errorf("open graph database: %w", err)
	}
	defer dst.Close()

	if err := dst.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return dst.CopyFrom(ctx, store)
}
