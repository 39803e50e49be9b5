package graph

import (
	"context"
	"fmt"

	tree_sitter_swift "github.com/alex-pinkus/tree-sitter-swift/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// SwiftParser implements the Parser interface using the tree-sitter Swift
// grammar. A new tree-sitter parser is created per Parse call, so this type
// is safe for concurrent Parse calls on independent files.
type SwiftParser struct {
	language *tree_sitter.Language
}

// Compile-time assertion: *SwiftParser satisfies Parser.
var _ Parser = (*SwiftParser)(nil)

// NewSwiftParser creates a SwiftParser with the Swift grammar registered.
func NewSwiftParser() *SwiftParser {
	return &SwiftParser{
		language: tree_sitter.NewLanguage(tree_sitter_swift.Language()),
	}
}

// Parse builds the syntax tree for one file and extracts its entities.
func (p *SwiftParser) Parse(_ context.Context, path string, source []byte) (*FileResult, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("set swift language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	entities := extractEntities(tree.RootNode(), source)

	return &FileResult{
		Path:     path,
		Entities: entities,
	}, nil
}

// Close is a no-op because parsers are created per Parse call.
func (p *SwiftParser) Close() error {
	return nil
}
