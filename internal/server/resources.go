package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const usageGuidelines = `# codegraph

Source-code intelligence over MCP.

## Tools

- ` + "`dependency_graph`" + `: package graph of the workspace with cycles
  (strongly connected components of size > 1).
- ` + "`find_dependents`" + ` / ` + "`find_dependencies`" + `: who depends on a
  package, and what it depends on.
- ` + "`call_graph`" + `: outgoing call tree from a callable at file:line:column,
  depth-bounded (default 5 edges). External calls appear as leaves unless
  include_external is set.
- ` + "`type_hierarchy`" + `: ancestors and/or descendants of a type declaration,
  depth-bounded (default 10 edges).
- ` + "`search_pattern`" + ` / ` + "`apply_pattern`" + `: textual pattern matching
  with :[name] placeholders (:[_] matches without capturing). Matching is not
  syntax-aware; placeholders match the shortest viable text. Use dry_run to
  preview a rewrite before applying it.
- ` + "`transform_history`" + `: recently applied rewrites.

Positions are 1-based. Paths may be absolute or relative to the workspace
root.
`

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "codegraph://usage-guidelines",
		Name:        "Usage Guidelines",
		Description: "System prompt and usage guidelines for the codegraph MCP server",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      "codegraph://usage-guidelines",
					MIMEType: "text/markdown",
					Text:     s.systemPrompt,
				},
			},
		}, nil
	})

	// Build a map of tool name -> schema JSON for dynamic dispatch.
	schemaMap := buildSchemaMap()

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "codegraph://schemas/{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		toolName := strings.TrimPrefix(uri, "codegraph://schemas/")
		schemaJSON, ok := schemaMap[toolName]
		if !ok {
			return nil, fmt.Errorf("unknown tool schema: %q", toolName)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/schema+json",
					Text:     schemaJSON,
				},
			},
		}, nil
	})
}

// buildSchemaMap constructs a map from tool name to its JSON schema string.
// Schemas are derived from the args structs using jsonschema inference.
func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[DependencyGraphArgs](m, "dependency_graph")
	addSchema[FindDependentsArgs](m, "find_dependents")
	addSchema[FindDependenciesArgs](m, "find_dependencies")
	addSchema[CallGraphArgs](m, "call_graph")
	addSchema[TypeHierarchyArgs](m, "type_hierarchy")
	addSchema[SearchPatternArgs](m, "search_pattern")
	addSchema[ApplyPatternArgs](m, "apply_pattern")
	addSchema[TransformHistoryArgs](m, "transform_history")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(schemaJSON)
}
