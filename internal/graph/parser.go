package graph

import "context"

// FileResult holds the entities extracted from a single source file, in
// declaration order. Duplicate names are preserved here; the store applies
// its duplicate policy when the results are registered.
type FileResult struct {
	Path     string    `json:"path"`
	Entities []*Entity `json:"entities"`
}

// Parser extracts entity records from Swift source files.
// Implementations: SwiftParser (production), stubParser (testing).
type Parser interface {
	// Parse extracts entities from a single source file. source is the file
	// content; path is used only for attribution in errors and results.
	Parse(ctx context.Context, path string, source []byte) (*FileResult, error)

	// Close releases parser resources (tree-sitter C memory).
	Close() error
}
