package trace

import (
	"context"
	"errors"
	"testing"
)

type fakeCallLister struct {
	symbols map[Position]CallTarget
	calls   map[Position][]CallTarget
}

func (f *fakeCallLister) ResolveCallable(_ context.Context, pos Position) (CallTarget, error) {
	target, ok := f.symbols[pos]
	if !ok {
		return CallTarget{}, ErrNoSymbolAtPosition
	}
	return target, nil
}

func (f *fakeCallLister) OutgoingCalls(_ context.Context, pos Position) ([]CallTarget, error) {
	return f.calls[pos], nil
}

func pos(file string, line int) Position {
	return Position{File: file, Line: line, Column: 1}
}

func target(file string, line int, name string, external bool) CallTarget {
	return CallTarget{Position: pos(file, line), Name: name, IsExternal: external}
}

func TestCallTracerExpandsTree(t *testing.T) {
	main := pos("main.ts", 1)
	lister := &fakeCallLister{
		symbols: map[Position]CallTarget{main: target("main.ts", 1, "main", false)},
		calls: map[Position][]CallTarget{
			main:            {target("a.ts", 10, "a", false), target("b.ts", 20, "b", false)},
			pos("a.ts", 10): {target("c.ts", 30, "c", false)},
		},
	}

	node, err := NewCallTracer(lister).Trace(context.Background(), main, CallOptions{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	if node.Name != "main" || len(node.Children) != 2 {
		t.Fatalf("root = %s with %d children, want main with 2", node.Name, len(node.Children))
	}
	if len(node.Children[0].Children) != 1 || node.Children[0].Children[0].Name != "c" {
		t.Errorf("expected a -> c, got %+v", node.Children[0].Children)
	}
	if len(node.Children[1].Children) != 0 {
		t.Errorf("expected b to be a leaf")
	}
}

func TestCallTracerDepthBound(t *testing.T) {
	// f0 -> f1 -> f2 -> ... forever.
	lister := &fakeCallLister{
		symbols: map[Position]CallTarget{pos("f.ts", 0): target("f.ts", 0, "f0", false)},
		calls:   map[Position][]CallTarget{},
	}
	for i := 0; i < 100; i++ {
		lister.calls[pos("f.ts", i)] = []CallTarget{target("f.ts", i+1, "f", false)}
	}

	node, err := NewCallTracer(lister).Trace(context.Background(), pos("f.ts", 0), CallOptions{MaxDepth: 3})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	depth := 0
	for n := node; len(n.Children) > 0; n = n.Children[0] {
		depth++
	}
	if depth != 3 {
		t.Errorf("tree depth = %d edges, want 3", depth)
	}
}

func TestCallTracerDefaultDepth(t *testing.T) {
	lister := &fakeCallLister{
		symbols: map[Position]CallTarget{pos("f.ts", 0): target("f.ts", 0, "f0", false)},
		calls:   map[Position][]CallTarget{},
	}
	for i := 0; i < 100; i++ {
		lister.calls[pos("f.ts", i)] = []CallTarget{target("f.ts", i+1, "f", false)}
	}

	node, err := NewCallTracer(lister).Trace(context.Background(), pos("f.ts", 0), CallOptions{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	depth := 0
	for n := node; len(n.Children) > 0; n = n.Children[0] {
		depth++
	}
	if depth != DefaultCallDepth {
		t.Errorf("tree depth = %d edges, want %d", depth, DefaultCallDepth)
	}
}

func TestCallTracerExternalLeaf(t *testing.T) {
	main := pos("main.ts", 1)
	ext := pos("node_modules/lodash/index.js", 5)
	lister := &fakeCallLister{
		symbols: map[Position]CallTarget{main: target("main.ts", 1, "main", false)},
		calls: map[Position][]CallTarget{
			main: {{Position: ext, Name: "map", IsExternal: true}},
			ext:  {target("deep.js", 9, "deep", true)},
		},
	}

	node, err := NewCallTracer(lister).Trace(context.Background(), main, CallOptions{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(node.Children) != 1 || !node.Children[0].IsExternal {
		t.Fatalf("expected one external child, got %+v", node.Children)
	}
	if len(node.Children[0].Children) != 0 {
		t.Error("external target must not be expanded when IncludeExternal is unset")
	}

	node, err = NewCallTracer(lister).Trace(context.Background(), main, CallOptions{IncludeExternal: true})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(node.Children[0].Children) != 1 {
		t.Error("external target should be expanded when IncludeExternal is set")
	}
}

func TestCallTracerCycleClosure(t *testing.T) {
	a, b := pos("a.ts", 1), pos("b.ts", 1)
	lister := &fakeCallLister{
		symbols: map[Position]CallTarget{a: target("a.ts", 1, "a", false)},
		calls: map[Position][]CallTarget{
			a: {target("b.ts", 1, "b", false)},
			b: {target("a.ts", 1, "a", false)},
		},
	}

	node, err := NewCallTracer(lister).Trace(context.Background(), a, CallOptions{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	back := node.Children[0].Children[0]
	if !back.Cycle {
		t.Error("revisited position should be flagged as a cycle closure")
	}
	if len(back.Children) != 0 {
		t.Error("cycle closure must not be expanded")
	}
}

func TestCallTracerNoDedupAcrossBranches(t *testing.T) {
	// Both a and b call shared; shared must appear under each.
	main := pos("main.ts", 1)
	lister := &fakeCallLister{
		symbols: map[Position]CallTarget{main: target("main.ts", 1, "main", false)},
		calls: map[Position][]CallTarget{
			main:             {target("a.ts", 1, "a", false), target("b.ts", 1, "b", false)},
			pos("a.ts", 1):   {target("shared.ts", 1, "shared", false)},
			pos("b.ts", 1):   {target("shared.ts", 1, "shared", false)},
		},
	}

	node, err := NewCallTracer(lister).Trace(context.Background(), main, CallOptions{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	for i, branch := range node.Children {
		if len(branch.Children) != 1 || branch.Children[0].Name != "shared" {
			t.Errorf("branch %d missing shared child: %+v", i, branch.Children)
		}
		if branch.Children[0].Cycle {
			t.Errorf("branch %d: shared wrongly flagged as cycle", i)
		}
	}
}

func TestCallTracerNoSymbol(t *testing.T) {
	lister := &fakeCallLister{symbols: map[Position]CallTarget{}}
	_, err := NewCallTracer(lister).Trace(context.Background(), pos("x.ts", 1), CallOptions{})
	if !errors.Is(err, ErrNoSymbolAtPosition) {
		t.Errorf("expected ErrNoSymbolAtPosition, got %v", err)
	}
}
