package graph

// Dependency kinds, mirroring the manifest sections they come from.
const (
	DepRuntime = "dependencies"
	DepDev     = "devDependencies"
	DepPeer    = "peerDependencies"
)

// ModuleDescriptor is the raw input for one module: its identity plus the
// declared dependency maps (name -> version requirement) keyed by kind.
type ModuleDescriptor struct {
	Name             string
	Path             string
	RelativePath     string
	Dependencies     map[string]string
	DevDependencies  map[string]string
	PeerDependencies map[string]string
}

// ModuleNode identifies one module in the graph.
type ModuleNode struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	RelativePath string `json:"relativePath"`
}

// DependencyEdge is a directed dependency between two internal modules.
// Multiple edges between the same pair are allowed when kinds differ.
type DependencyEdge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Type    string `json:"type"`
	Version string `json:"version"`
}

// DependencyGraph holds the full node set, the internal-only edge set, and
// the detected cycles. Every edge's endpoints are guaranteed to exist in
// Packages; edges to external or unresolved modules are filtered out during
// construction. Built fresh per query, never persisted.
type DependencyGraph struct {
	Packages []ModuleNode     `json:"packages"`
	Edges    []DependencyEdge `json:"edges"`
	Cycles   [][]string       `json:"cycles"`
}
