package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/swiftgraph/internal/graph"
	"github.com/dusk-indust/swiftgraph/internal/index"
)

// GraphService holds the store and parser used by MCP tool handlers.
// scan_project replaces the store's contents view by registering into a
// fresh MemStore, so queries always reflect the latest scan.
type GraphService struct {
	parser graph.Parser
	store  graph.Store
}

// NewGraphService creates a GraphService with an empty in-memory store.
func NewGraphService(parser graph.Parser) *GraphService {
	return &GraphService{
		parser: parser,
		store:  graph.NewMemStore(graph.PolicyOverwrite),
	}
}

// ScanProject indexes a directory tree and replaces the served graph.
func (s *GraphService) ScanProject(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanProjectInput,
) (*mcp.CallToolResult, ScanProjectOutput, error) {
	if input.RootPath == "" {
		return nil, ScanProjectOutput{}, fmt.Errorf("rootPath is required")
	}

	policy := graph.PolicyOverwrite
	if input.Merge {
		policy = graph.PolicyMerge
	}
	store := graph.NewMemStore(policy)

	ix := index.New(s.parser, store, index.WithExcludeDirs(input.ExcludeDirs))
	report, err := ix.Run(ctx, input.RootPath)
	if err != nil {
		return nil, ScanProjectOutput{}, fmt.Errorf("scan %s: %w", input.RootPath, err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return nil, ScanProjectOutput{}, fmt.Errorf("stats: %w", err)
	}
	s.store = store

	out := ScanProjectOutput{
		FilesFound:  report.FilesFound,
		FilesParsed: report.FilesParsed,
		Stats:       *stats,
	}
	for _, f := range report.Failures {
		out.Skipped = append(out.Skipped, f.Path)
	}
	return nil, out, nil
}

// GetEntity fetches one entity record by exact name.
func (s *GraphService) GetEntity(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetEntityInput,
) (*mcp.CallToolResult, GetEntityOutput, error) {
	if input.Name == "" {
		return nil, GetEntityOutput{}, fmt.Errorf("name is required")
	}

	entity, err := s.store.GetEntity(ctx, input.Name)
	if err != nil {
		return nil, GetEntityOutput{}, fmt.Errorf("get entity: %w", err)
	}
	return nil, GetEntityOutput{Found: entity != nil, Entity: entity}, nil
}

// QueryEntities searches entities by name substring match.
func (s *GraphService) QueryEntities(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryEntitiesInput,
) (*mcp.CallToolResult, QueryEntitiesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	entities, err := s.store.QueryEntities(ctx, input.Query, limit)
	if err != nil {
		return nil, QueryEntitiesOutput{}, fmt.Errorf("query entities: %w", err)
	}

	// Filter by kind if specified.
	if input.Kind != "" {
		kind := graph.EntityKind(strings.ToLower(input.Kind))
		filtered := entities[:0]
		for _, e := range entities {
			if e.Kind == kind {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	return nil, QueryEntitiesOutput{
		Entities: entities,
		Total:    len(entities),
	}, nil
}

// FindCallers returns every method whose recorded calls contain the given
// callee text. The match is purely textual; recorded references are never
// resolved against declared entities.
func (s *GraphService) FindCallers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindCallersInput,
) (*mcp.CallToolResult, FindCallersOutput, error) {
	if input.Callee == "" {
		return nil, FindCallersOutput{}, fmt.Errorf("callee is required")
	}

	entities, err := s.store.ListEntities(ctx)
	if err != nil {
		return nil, FindCallersOutput{}, fmt.Errorf("list entities: %w", err)
	}

	var out FindCallersOutput
	for _, e := range entities {
		for _, m := range e.Methods {
			count := 0
			for _, call := range m.Calls {
				if call == input.Callee {
					count++
				}
			}
			if count > 0 {
				out.Callers = append(out.Callers, CallSite{
					Entity: e.Name,
					Method: m.Name,
					Count:  count,
				})
			}
		}
	}
	return nil, out, nil
}
