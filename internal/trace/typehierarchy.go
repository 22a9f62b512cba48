package trace

import (
	"context"
	"fmt"
)

// Direction selects which side of the type hierarchy to expand.
type Direction string

const (
	DirectionAncestors   Direction = "ancestors"
	DirectionDescendants Direction = "descendants"
	DirectionBoth        Direction = "both"
)

// TypeTarget is one type declaration reported by the collaborator.
type TypeTarget struct {
	Position   Position
	Name       string
	Kind       string // class, interface, enum, ...
	IsExternal bool
}

// TypeLister supplies one-step inheritance facts.
type TypeLister interface {
	// ResolveType resolves the type declared at pos, returning
	// ErrNoSymbolAtPosition when there is none.
	ResolveType(ctx context.Context, pos Position) (TypeTarget, error)
	// Supertypes lists the direct ancestors of the type at pos.
	Supertypes(ctx context.Context, pos Position) ([]TypeTarget, error)
	// Subtypes lists the direct descendants of the type at pos.
	Subtypes(ctx context.Context, pos Position) ([]TypeTarget, error)
}

// TypeNode is one node of the expanded hierarchy. With DirectionBoth the
// ancestor and descendant subtrees are computed independently from the
// root; a type appearing in both is reported in both.
type TypeNode struct {
	Position    Position    `json:"position"`
	Name        string      `json:"name"`
	Kind        string      `json:"kind,omitempty"`
	IsExternal  bool        `json:"isExternal"`
	Cycle       bool        `json:"cycle,omitempty"`
	Ancestors   []*TypeNode `json:"ancestors,omitempty"`
	Descendants []*TypeNode `json:"descendants,omitempty"`
}

// TypeOptions bounds a hierarchy trace.
type TypeOptions struct {
	// Direction defaults to DirectionBoth.
	Direction Direction
	// MaxDepth is the maximum number of inheritance edges from the root;
	// zero means DefaultTypeDepth.
	MaxDepth int
	// IncludeExternal expands types that resolve outside the project.
	IncludeExternal bool
}

// TypeTracer expands type hierarchies from a root position.
type TypeTracer struct {
	types TypeLister
}

// NewTypeTracer returns a tracer over the given collaborator.
func NewTypeTracer(types TypeLister) *TypeTracer {
	return &TypeTracer{types: types}
}

// Trace expands the hierarchy rooted at pos. Depth bounding, per-path cycle
// closure, and external-boundary filtering follow the same rules as the
// call tracer.
func (t *TypeTracer) Trace(ctx context.Context, pos Position, opts TypeOptions) (*TypeNode, error) {
	direction := opts.Direction
	if direction == "" {
		direction = DirectionBoth
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultTypeDepth
	}

	root, err := t.types.ResolveType(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("resolving type at %s: %w", pos, err)
	}

	node := &TypeNode{
		Position:   root.Position,
		Name:       root.Name,
		Kind:       root.Kind,
		IsExternal: root.IsExternal,
	}

	if direction == DirectionAncestors || direction == DirectionBoth {
		visited := map[Position]bool{root.Position: true}
		if err := t.expand(ctx, node, t.types.Supertypes, up, 0, maxDepth, visited, opts); err != nil {
			return nil, err
		}
	}
	if direction == DirectionDescendants || direction == DirectionBoth {
		visited := map[Position]bool{root.Position: true}
		if err := t.expand(ctx, node, t.types.Subtypes, down, 0, maxDepth, visited, opts); err != nil {
			return nil, err
		}
	}

	return node, nil
}

type hierarchySide int

const (
	up hierarchySide = iota
	down
)

type listFunc func(ctx context.Context, pos Position) ([]TypeTarget, error)

func (t *TypeTracer) expand(ctx context.Context, node *TypeNode, list listFunc, side hierarchySide, depth, maxDepth int, visited map[Position]bool, opts TypeOptions) error {
	if depth >= maxDepth {
		return nil
	}

	targets, err := list(ctx, node.Position)
	if err != nil {
		return fmt.Errorf("expanding hierarchy at %s: %w", node.Position, err)
	}

	for _, target := range targets {
		child := &TypeNode{
			Position:   target.Position,
			Name:       target.Name,
			Kind:       target.Kind,
			IsExternal: target.IsExternal,
		}
		if side == up {
			node.Ancestors = append(node.Ancestors, child)
		} else {
			node.Descendants = append(node.Descendants, child)
		}

		if target.IsExternal && !opts.IncludeExternal {
			continue
		}
		if visited[target.Position] {
			child.Cycle = true
			continue
		}

		visited[target.Position] = true
		err := t.expand(ctx, child, list, side, depth+1, maxDepth, visited, opts)
		delete(visited, target.Position)
		if err != nil {
			return err
		}
	}

	return nil
}
