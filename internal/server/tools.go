package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codegraph/internal/graph"
	"codegraph/internal/history"
	"codegraph/internal/manifest"
	"codegraph/internal/trace"
	"codegraph/internal/transform"
)

// Arguments structs

type DependencyGraphArgs struct {
	Root string `json:"root" jsonschema:"description:Workspace root to scan; defaults to the server root"`
}

type FindDependentsArgs struct {
	Package string `json:"package" jsonschema:"required,description:The package name to find dependents of"`
	Root    string `json:"root" jsonschema:"description:Workspace root to scan; defaults to the server root"`
}

type FindDependenciesArgs struct {
	Package string `json:"package" jsonschema:"required,description:The package name to find dependencies of"`
	Root    string `json:"root" jsonschema:"description:Workspace root to scan; defaults to the server root"`
}

type CallGraphArgs struct {
	File            string `json:"file" jsonschema:"required,description:Absolute path of the file containing the root callable"`
	Line            int    `json:"line" jsonschema:"required,description:1-based line of the root callable"`
	Column          int    `json:"column" jsonschema:"required,description:1-based column of the root callable"`
	MaxDepth        int    `json:"max_depth" jsonschema:"description:Maximum call edges from the root (default 5)"`
	IncludeExternal bool   `json:"include_external" jsonschema:"description:Expand calls that resolve outside the project"`
}

type TypeHierarchyArgs struct {
	File            string `json:"file" jsonschema:"required,description:Absolute path of the file containing the type declaration"`
	Line            int    `json:"line" jsonschema:"required,description:1-based line of the type declaration"`
	Column          int    `json:"column" jsonschema:"required,description:1-based column of the type declaration"`
	Direction       string `json:"direction" jsonschema:"description:ancestors, descendants, or both (default both)"`
	MaxDepth        int    `json:"max_depth" jsonschema:"description:Maximum inheritance edges from the root (default 10)"`
	IncludeExternal bool   `json:"include_external" jsonschema:"description:Expand types that resolve outside the project"`
}

type SearchPatternArgs struct {
	Pattern string `json:"pattern" jsonschema:"required,description:Pattern with :[name] placeholders and :[_] for anonymous holes"`
	Path    string `json:"path" jsonschema:"description:File or directory to search; defaults to the server root"`
	Glob    string `json:"glob" jsonschema:"description:Glob filter replacing the default source-file selection"`
}

type ApplyPatternArgs struct {
	Pattern     string `json:"pattern" jsonschema:"required,description:Pattern with :[name] placeholders to match"`
	Replacement string `json:"replacement" jsonschema:"required,description:Rewrite pattern; captured values substitute its placeholders"`
	Path        string `json:"path" jsonschema:"description:File or directory to transform; defaults to the server root"`
	Glob        string `json:"glob" jsonschema:"description:Glob filter replacing the default source-file selection"`
	DryRun      bool   `json:"dry_run" jsonschema:"description:Report changes without writing any file"`
}

type TransformHistoryArgs struct {
	Limit int `json:"limit" jsonschema:"description:Maximum number of runs to return (default 20)"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dependency_graph",
		Description: "Builds the package dependency graph of a workspace and reports its cycles",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DependencyGraphArgs) (*mcp.CallToolResult, any, error) {
		g, err := s.buildGraph(args.Root)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return jsonResult(g), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_dependents",
		Description: "Lists the workspace packages that depend on the given package",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FindDependentsArgs) (*mcp.CallToolResult, any, error) {
		g, err := s.buildGraph(args.Root)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		edges, err := g.Dependents(args.Package)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return jsonResult(edges), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_dependencies",
		Description: "Lists the workspace packages the given package depends on",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FindDependenciesArgs) (*mcp.CallToolResult, any, error) {
		g, err := s.buildGraph(args.Root)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		edges, err := g.Dependencies(args.Package)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return jsonResult(edges), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "call_graph",
		Description: "Expands the outgoing call tree from a callable, bounded by depth",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CallGraphArgs) (*mcp.CallToolResult, any, error) {
		pos, err := s.position(args.File, args.Line, args.Column)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		node, err := trace.NewCallTracer(s.calls).Trace(ctx, pos, trace.CallOptions{
			MaxDepth:        args.MaxDepth,
			IncludeExternal: args.IncludeExternal,
		})
		if err != nil {
			if errors.Is(err, trace.ErrNoSymbolAtPosition) {
				return errorResult(fmt.Sprintf("No callable at %s:%d:%d", args.File, args.Line, args.Column)), nil, nil
			}
			return errorResult(fmt.Sprintf("Call graph failed: %v", err)), nil, nil
		}
		return jsonResult(node), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "type_hierarchy",
		Description: "Expands the ancestor and/or descendant type hierarchy from a declaration",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TypeHierarchyArgs) (*mcp.CallToolResult, any, error) {
		pos, err := s.position(args.File, args.Line, args.Column)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		direction := trace.Direction(args.Direction)
		switch direction {
		case "", trace.DirectionAncestors, trace.DirectionDescendants, trace.DirectionBoth:
		default:
			return errorResult(fmt.Sprintf("Unknown direction %q (want ancestors, descendants, or both)", args.Direction)), nil, nil
		}
		node, err := trace.NewTypeTracer(s.types).Trace(ctx, pos, trace.TypeOptions{
			Direction:       direction,
			MaxDepth:        args.MaxDepth,
			IncludeExternal: args.IncludeExternal,
		})
		if err != nil {
			if errors.Is(err, trace.ErrNoSymbolAtPosition) {
				return errorResult(fmt.Sprintf("No type at %s:%d:%d", args.File, args.Line, args.Column)), nil, nil
			}
			return errorResult(fmt.Sprintf("Type hierarchy failed: %v", err)), nil, nil
		}
		return jsonResult(node), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_pattern",
		Description: "Finds occurrences of a placeholder pattern in source files",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchPatternArgs) (*mcp.CallToolResult, any, error) {
		root := args.Path
		if root == "" {
			root = s.root
		}
		matches, err := transform.Search(ctx, root, args.Pattern, transform.Options{Glob: args.Glob})
		if err != nil {
			return errorResult(fmt.Sprintf("Search failed: %v", err)), nil, nil
		}
		return jsonResult(map[string]any{
			"totalMatches": len(matches),
			"matches":      matches,
		}), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "apply_pattern",
		Description: "Rewrites occurrences of a placeholder pattern; dry_run previews without writing",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ApplyPatternArgs) (*mcp.CallToolResult, any, error) {
		root := args.Path
		if root == "" {
			root = s.root
		}
		started := time.Now()
		result, err := transform.Run(ctx, root, args.Pattern, args.Replacement, transform.Options{
			Glob:   args.Glob,
			DryRun: args.DryRun,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("Transform failed: %v", err)), nil, nil
		}

		if !result.DryRun && s.history != nil && result.TotalMatches > 0 {
			err := s.history.Record(ctx, history.Run{
				StartedAt:     started,
				Pattern:       args.Pattern,
				Replacement:   args.Replacement,
				Root:          root,
				FilesModified: len(result.FilesModified),
				TotalMatches:  result.TotalMatches,
			})
			if err != nil {
				// The transform itself succeeded; report it anyway.
				slog.Warn("failed to record transform run", "error", err)
			}
		}
		return jsonResult(result), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "transform_history",
		Description: "Returns recently applied pattern transforms",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TransformHistoryArgs) (*mcp.CallToolResult, any, error) {
		if s.history == nil {
			return textResult("Transform history is disabled."), nil, nil
		}
		runs, err := s.history.Recent(ctx, args.Limit)
		if err != nil {
			return errorResult(fmt.Sprintf("History query failed: %v", err)), nil, nil
		}
		if len(runs) == 0 {
			return textResult("No transforms applied yet."), nil, nil
		}
		return jsonResult(runs), nil, nil
	})
}

// buildGraph scans the workspace and assembles a fresh dependency graph.
func (s *Server) buildGraph(root string) (*graph.DependencyGraph, error) {
	if root == "" {
		root = s.root
	}
	descriptors, err := manifest.Scan(root)
	if err != nil {
		return nil, err
	}
	return graph.Build(descriptors), nil
}

// position validates tool coordinates and converts them to a trace
// position.
func (s *Server) position(file string, line, column int) (trace.Position, error) {
	if file == "" {
		return trace.Position{}, fmt.Errorf("file is required")
	}
	if line < 1 || column < 1 {
		return trace.Position{}, fmt.Errorf("line and column are 1-based")
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(s.root, file)
	}
	return trace.Position{File: file, Line: line, Column: column}, nil
}
