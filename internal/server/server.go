package server

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codegraph/internal/history"
	"codegraph/internal/trace"
)

const version = "0.3.0"

// Server wires the graph, trace, and transform engines into an MCP server
// speaking over stdio. Collaborators are injected at construction; the
// server holds no hidden global state.
type Server struct {
	mcpServer *mcp.Server

	root    string
	calls   trace.CallLister
	types   trace.TypeLister
	history *history.Store // nil disables the transform log

	systemPrompt string
}

// Options configures a Server.
type Options struct {
	// Root is the workspace root every relative query resolves against.
	Root string
	// Calls and Types supply symbol facts, typically one LSP client.
	Calls trace.CallLister
	Types trace.TypeLister
	// History, when set, records applied transforms.
	History *history.Store
}

// New constructs the server and registers its tools and resources.
func New(opts Options) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "codegraph",
			Version: version,
		}, nil),
		root:         opts.Root,
		calls:        opts.Calls,
		types:        opts.Types,
		history:      opts.History,
		systemPrompt: usageGuidelines,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("failed to encode result: " + err.Error())
	}
	return textResult(string(data))
}
