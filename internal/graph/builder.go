package graph

import "sort"

// Build assembles a DependencyGraph from module descriptors. An edge is
// emitted only when its target names another descriptor; dependencies on
// external packages are silently dropped, and a module never depends on
// itself in the graph. Cycle detection runs over the resulting internal
// edge set.
func Build(descriptors []ModuleDescriptor) *DependencyGraph {
	g := &DependencyGraph{
		Packages: make([]ModuleNode, 0, len(descriptors)),
		Cycles:   [][]string{},
	}

	internal := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		internal[d.Name] = true
		g.Packages = append(g.Packages, ModuleNode{
			Name:         d.Name,
			Path:         d.Path,
			RelativePath: d.RelativePath,
		})
	}

	for _, d := range descriptors {
		for _, kind := range []struct {
			name string
			deps map[string]string
		}{
			{DepRuntime, d.Dependencies},
			{DepDev, d.DevDependencies},
			{DepPeer, d.PeerDependencies},
		} {
			for _, target := range sortedKeys(kind.deps) {
				if target == d.Name || !internal[target] {
					continue
				}
				g.Edges = append(g.Edges, DependencyEdge{
					From:    d.Name,
					To:      target,
					Type:    kind.name,
					Version: kind.deps[target],
				})
			}
		}
	}

	g.Cycles = detectCycles(g)
	return g
}

// detectCycles returns the strongly connected components of size > 1 in
// the graph's edge set.
func detectCycles(g *DependencyGraph) [][]string {
	order := make([]string, 0, len(g.Packages))
	adjacency := make(map[string][]string, len(g.Packages))
	seen := make(map[string]map[string]bool, len(g.Packages))

	for _, p := range g.Packages {
		order = append(order, p.Name)
		adjacency[p.Name] = nil
		seen[p.Name] = make(map[string]bool)
	}
	for _, e := range g.Edges {
		if !seen[e.From][e.To] {
			seen[e.From][e.To] = true
			adjacency[e.From] = append(adjacency[e.From], e.To)
		}
	}

	return stronglyConnectedComponents(order, adjacency)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
