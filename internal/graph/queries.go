package graph

import (
	"fmt"
	"sort"
	"strings"
)

// PackageNotFoundError reports a query for a package name absent from the
// graph, along with the names that are present.
type PackageNotFoundError struct {
	Name  string
	Known []string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %q not found in graph (known packages: %s)",
		e.Name, strings.Join(e.Known, ", "))
}

// Dependents returns every edge pointing at the named package, i.e. the
// modules that depend on it. The edge set is the same filtered,
// internal-only set the graph was built with.
func (g *DependencyGraph) Dependents(name string) ([]DependencyEdge, error) {
	if err := g.checkKnown(name); err != nil {
		return nil, err
	}
	var edges []DependencyEdge
	for _, e := range g.Edges {
		if e.To == name {
			edges = append(edges, e)
		}
	}
	return edges, nil
}

// Dependencies returns every edge originating at the named package.
func (g *DependencyGraph) Dependencies(name string) ([]DependencyEdge, error) {
	if err := g.checkKnown(name); err != nil {
		return nil, err
	}
	var edges []DependencyEdge
	for _, e := range g.Edges {
		if e.From == name {
			edges = append(edges, e)
		}
	}
	return edges, nil
}

func (g *DependencyGraph) checkKnown(name string) error {
	known := make([]string, 0, len(g.Packages))
	for _, p := range g.Packages {
		if p.Name == name {
			return nil
		}
		known = append(known, p.Name)
	}
	sort.Strings(known)
	return &PackageNotFoundError{Name: name, Known: known}
}
