package mcptools

import "github.com/dusk-indust/swiftgraph/internal/graph"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// ScanProjectInput is the input for the scan_project MCP tool.
type ScanProjectInput struct {
	RootPath    string   `json:"rootPath" jsonschema:"the absolute path of the directory to scan for Swift sources"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directory base names to exclude from the scan (e.g. Pods, .build)"`
	Merge       bool     `json:"merge,omitempty" jsonschema:"merge entities declared under the same name instead of keeping only the last one"`
}

// ScanProjectOutput is the result of the scan_project MCP tool.
type ScanProjectOutput struct {
	FilesFound  int              `json:"filesFound"`
	FilesParsed int              `json:"filesParsed"`
	Skipped     []string         `json:"skipped,omitempty"`
	Stats       graph.GraphStats `json:"stats"`
}

// GetEntityInput is the input for the get_entity MCP tool.
type GetEntityInput struct {
	Name string `json:"name" jsonschema:"exact entity name, e.g. Player or Extension_of_Player"`
}

// GetEntityOutput is the result of the get_entity MCP tool.
type GetEntityOutput struct {
	Found  bool          `json:"found"`
	Entity *graph.Entity `json:"entity,omitempty"`
}

// QueryEntitiesInput is the input for the query_entities MCP tool.
type QueryEntitiesInput struct {
	Query string `json:"query" jsonschema:"search query for entity names (substring match)"`
	Kind  string `json:"kind,omitempty" jsonschema:"filter by entity kind: class, struct, enum, protocol, extension"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QueryEntitiesOutput is the result of the query_entities MCP tool.
type QueryEntitiesOutput struct {
	Entities []*graph.Entity `json:"entities"`
	Total    int             `json:"total"`
}

// FindCallersInput is the input for the find_callers MCP tool.
type FindCallersInput struct {
	Callee string `json:"callee" jsonschema:"textual callee reference exactly as written at the call site, e.g. setupTableView or player.play"`
}

// CallSite names a method holding a matching call reference.
type CallSite struct {
	Entity string `json:"entity"`
	Method string `json:"method"`
	Count  int    `json:"count"`
}

// FindCallersOutput is the result of the find_callers MCP tool.
type FindCallersOutput struct {
	Callers []CallSite `json:"callers"`
}
