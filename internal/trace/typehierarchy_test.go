package trace

import (
	"context"
	"errors"
	"testing"
)

type fakeTypeLister struct {
	symbols map[Position]TypeTarget
	supers  map[Position][]TypeTarget
	subs    map[Position][]TypeTarget
}

func (f *fakeTypeLister) ResolveType(_ context.Context, pos Position) (TypeTarget, error) {
	target, ok := f.symbols[pos]
	if !ok {
		return TypeTarget{}, ErrNoSymbolAtPosition
	}
	return target, nil
}

func (f *fakeTypeLister) Supertypes(_ context.Context, pos Position) ([]TypeTarget, error) {
	return f.supers[pos], nil
}

func (f *fakeTypeLister) Subtypes(_ context.Context, pos Position) ([]TypeTarget, error) {
	return f.subs[pos], nil
}

func typeTarget(file string, line int, name, kind string) TypeTarget {
	return TypeTarget{Position: pos(file, line), Name: name, Kind: kind}
}

func newHierarchy() *fakeTypeLister {
	// Animal <- Dog <- Puppy, Animal <- Cat. Rooted at Dog.
	return &fakeTypeLister{
		symbols: map[Position]TypeTarget{
			pos("dog.ts", 1): typeTarget("dog.ts", 1, "Dog", "class"),
		},
		supers: map[Position][]TypeTarget{
			pos("dog.ts", 1): {typeTarget("animal.ts", 1, "Animal", "class")},
		},
		subs: map[Position][]TypeTarget{
			pos("dog.ts", 1):    {typeTarget("puppy.ts", 1, "Puppy", "class")},
			pos("animal.ts", 1): {typeTarget("dog.ts", 1, "Dog", "class"), typeTarget("cat.ts", 1, "Cat", "class")},
		},
	}
}

func TestTypeTracerBothDirections(t *testing.T) {
	node, err := NewTypeTracer(newHierarchy()).Trace(context.Background(), pos("dog.ts", 1), TypeOptions{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	if node.Name != "Dog" || node.Kind != "class" {
		t.Fatalf("root = %s (%s), want Dog (class)", node.Name, node.Kind)
	}
	if len(node.Ancestors) != 1 || node.Ancestors[0].Name != "Animal" {
		t.Errorf("ancestors = %+v, want [Animal]", node.Ancestors)
	}
	if len(node.Descendants) != 1 || node.Descendants[0].Name != "Puppy" {
		t.Errorf("descendants = %+v, want [Puppy]", node.Descendants)
	}
}

func TestTypeTracerSingleDirection(t *testing.T) {
	tracer := NewTypeTracer(newHierarchy())

	node, err := tracer.Trace(context.Background(), pos("dog.ts", 1), TypeOptions{Direction: DirectionAncestors})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(node.Ancestors) != 1 || len(node.Descendants) != 0 {
		t.Errorf("ancestors-only trace expanded descendants: %+v", node)
	}

	node, err = tracer.Trace(context.Background(), pos("dog.ts", 1), TypeOptions{Direction: DirectionDescendants})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(node.Ancestors) != 0 || len(node.Descendants) != 1 {
		t.Errorf("descendants-only trace expanded ancestors: %+v", node)
	}
}

func TestTypeTracerIndependentSubtrees(t *testing.T) {
	// Base is reachable both as an ancestor of Mid and as a descendant
	// via Leaf. The two traversals keep separate visited state, so Base
	// is reported in both subtrees without a cycle flag.
	lister := &fakeTypeLister{
		symbols: map[Position]TypeTarget{
			pos("mid.ts", 1): typeTarget("mid.ts", 1, "Mid", "class"),
		},
		supers: map[Position][]TypeTarget{
			pos("mid.ts", 1):  {typeTarget("base.ts", 1, "Base", "class")},
		},
		subs: map[Position][]TypeTarget{
			pos("mid.ts", 1):  {typeTarget("leaf.ts", 1, "Leaf", "class")},
			pos("leaf.ts", 1): {typeTarget("base.ts", 1, "Base", "class")},
		},
	}

	node, err := NewTypeTracer(lister).Trace(context.Background(), pos("mid.ts", 1), TypeOptions{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(node.Ancestors) != 1 || node.Ancestors[0].Name != "Base" {
		t.Fatalf("ancestors = %+v", node.Ancestors)
	}
	leaf := node.Descendants[0]
	if len(leaf.Descendants) != 1 || leaf.Descendants[0].Name != "Base" {
		t.Errorf("Base must also appear in the descendant subtree, got %+v", leaf.Descendants)
	}
	if leaf.Descendants[0].Cycle {
		t.Error("Base in the descendant subtree is not a cycle closure")
	}
}

func TestTypeTracerDepthBound(t *testing.T) {
	lister := &fakeTypeLister{
		symbols: map[Position]TypeTarget{pos("t.ts", 0): typeTarget("t.ts", 0, "T0", "class")},
		supers:  map[Position][]TypeTarget{},
		subs:    map[Position][]TypeTarget{},
	}
	for i := 0; i < 50; i++ {
		lister.supers[pos("t.ts", i)] = []TypeTarget{typeTarget("t.ts", i+1, "T", "class")}
	}

	node, err := NewTypeTracer(lister).Trace(context.Background(), pos("t.ts", 0), TypeOptions{Direction: DirectionAncestors, MaxDepth: 4})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	depth := 0
	for n := node; len(n.Ancestors) > 0; n = n.Ancestors[0] {
		depth++
	}
	if depth != 4 {
		t.Errorf("ancestor depth = %d edges, want 4", depth)
	}
}

func TestTypeTracerCycleClosure(t *testing.T) {
	// Mutually referential interfaces.
	a, b := pos("a.ts", 1), pos("b.ts", 1)
	lister := &fakeTypeLister{
		symbols: map[Position]TypeTarget{a: typeTarget("a.ts", 1, "A", "interface")},
		supers: map[Position][]TypeTarget{
			a: {typeTarget("b.ts", 1, "B", "interface")},
			b: {typeTarget("a.ts", 1, "A", "interface")},
		},
		subs: map[Position][]TypeTarget{},
	}

	node, err := NewTypeTracer(lister).Trace(context.Background(), a, TypeOptions{Direction: DirectionAncestors})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	back := node.Ancestors[0].Ancestors[0]
	if !back.Cycle || len(back.Ancestors) != 0 {
		t.Errorf("expected cycle closure leaf, got %+v", back)
	}
}

func TestTypeTracerNoSymbol(t *testing.T) {
	lister := &fakeTypeLister{symbols: map[Position]TypeTarget{}}
	_, err := NewTypeTracer(lister).Trace(context.Background(), pos("x.ts", 1), TypeOptions{})
	if !errors.Is(err, ErrNoSymbolAtPosition) {
		t.Errorf("expected ErrNoSymbolAtPosition, got %v", err)
	}
}
