// Package mcptools exposes the extracted dependency graph over the Model
// Context Protocol.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGraphMCPServer creates an MCP server with the 4 graph tools registered.
func NewGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "swiftgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_project",
		Description: "Scan a directory tree of Swift sources and build the dependency graph. Parses each file with tree-sitter and extracts entities, members, signatures and call references.",
	}, svc.ScanProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_entity",
		Description: "Fetch one entity record by exact name, including its properties, method signatures, inheritance list and recorded calls.",
	}, svc.GetEntity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_entities",
		Description: "Search entities by name substring match. Optionally filter by kind (class, struct, enum, protocol, extension) and limit results.",
	}, svc.QueryEntities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_callers",
		Description: "Find methods whose bodies contain a call to the given textual callee reference. Matching is textual only; references are not resolved to declarations.",
	}, svc.FindCallers)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts an HTTP server exposing the graph MCP tools.
func RunHTTP(ctx context.Context, svc *GraphService, addr string) error {
	server := NewGraphMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
