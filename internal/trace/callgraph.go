package trace

import (
	"context"
	"fmt"
)

// CallTarget is one callable reported by the collaborator.
type CallTarget struct {
	Position   Position
	Name       string
	IsExternal bool
}

// CallLister supplies one-step call facts. Implementations resolve symbols
// out of process (typically a language server).
type CallLister interface {
	// ResolveCallable resolves the callable declared at pos, returning
	// ErrNoSymbolAtPosition when there is none.
	ResolveCallable(ctx context.Context, pos Position) (CallTarget, error)
	// OutgoingCalls lists the targets reachable by one call edge from the
	// callable at pos.
	OutgoingCalls(ctx context.Context, pos Position) ([]CallTarget, error)
}

// CallNode is one node of the expanded call tree. Duplicate targets reached
// via different paths appear independently; this is a call tree, not a
// merged graph.
type CallNode struct {
	Position   Position    `json:"position"`
	Name       string      `json:"name"`
	IsExternal bool        `json:"isExternal"`
	Cycle      bool        `json:"cycle,omitempty"`
	Children   []*CallNode `json:"children,omitempty"`
}

// CallOptions bounds a call-graph trace.
type CallOptions struct {
	// MaxDepth is the maximum number of call edges from the root; zero
	// means DefaultCallDepth.
	MaxDepth int
	// IncludeExternal expands targets that resolve outside the project.
	// When unset, external targets are reported as leaves.
	IncludeExternal bool
}

// CallTracer expands call trees from a root position.
type CallTracer struct {
	calls CallLister
}

// NewCallTracer returns a tracer over the given collaborator.
func NewCallTracer(calls CallLister) *CallTracer {
	return &CallTracer{calls: calls}
}

// Trace expands the call tree rooted at pos. The root sits at depth 0; a
// position revisited along the same path becomes a leaf flagged as a cycle
// closure instead of being expanded again.
func (t *CallTracer) Trace(ctx context.Context, pos Position, opts CallOptions) (*CallNode, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultCallDepth
	}

	root, err := t.calls.ResolveCallable(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("resolving callable at %s: %w", pos, err)
	}

	node := &CallNode{
		Position:   root.Position,
		Name:       root.Name,
		IsExternal: root.IsExternal,
	}
	visited := map[Position]bool{root.Position: true}
	if err := t.expand(ctx, node, 0, maxDepth, visited, opts); err != nil {
		return nil, err
	}
	return node, nil
}

func (t *CallTracer) expand(ctx context.Context, node *CallNode, depth, maxDepth int, visited map[Position]bool, opts CallOptions) error {
	if depth >= maxDepth {
		return nil
	}

	targets, err := t.calls.OutgoingCalls(ctx, node.Position)
	if err != nil {
		return fmt.Errorf("listing calls from %s: %w", node.Position, err)
	}

	for _, target := range targets {
		child := &CallNode{
			Position:   target.Position,
			Name:       target.Name,
			IsExternal: target.IsExternal,
		}
		node.Children = append(node.Children, child)

		if target.IsExternal && !opts.IncludeExternal {
			continue
		}
		if visited[target.Position] {
			child.Cycle = true
			continue
		}

		visited[target.Position] = true
		err := t.expand(ctx, child, depth+1, maxDepth, visited, opts)
		delete(visited, target.Position)
		if err != nil {
			return err
		}
	}

	return nil
}
