package graph

// tarjanFrame is one suspended visit in the iterative traversal. next
// indexes the first unexplored successor of v.
type tarjanFrame struct {
	v    string
	next int
}

// stronglyConnectedComponents runs Tarjan's algorithm over the adjacency
// list using an explicit frame stack, so adversarial graphs cannot exhaust
// the call stack. Components of size 1 are discarded (a singleton without a
// self-loop is not a cycle, and self-edges are filtered before insertion).
// Within a component the reversed pop order restores discovery order;
// components are emitted in the order their roots finish.
func stronglyConnectedComponents(order []string, adjacency map[string][]string) [][]string {
	counter := 0
	index := make(map[string]int, len(order))
	lowLink := make(map[string]int, len(order))
	onStack := make(map[string]bool, len(order))
	stack := make([]string, 0, len(order))
	components := [][]string{}

	for _, root := range order {
		if _, visited := index[root]; visited {
			continue
		}

		frames := []tarjanFrame{{v: root}}
		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			v := f.v

			if f.next == 0 {
				index[v] = counter
				lowLink[v] = counter
				counter++
				stack = append(stack, v)
				onStack[v] = true
			}

			descended := false
			for f.next < len(adjacency[v]) {
				w := adjacency[v][f.next]
				f.next++
				if _, visited := index[w]; !visited {
					frames = append(frames, tarjanFrame{v: w})
					descended = true
					break
				}
				if onStack[w] && index[w] < lowLink[v] {
					lowLink[v] = index[w]
				}
			}
			if descended {
				continue
			}

			if lowLink[v] == index[v] {
				var component []string
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					component = append(component, w)
					if w == v {
						break
					}
				}
				if len(component) > 1 {
					for i, j := 0, len(component)-1; i < j; i, j = i+1, j-1 {
						component[i], component[j] = component[j], component[i]
					}
					components = append(components, component)
				}
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].v
				if lowLink[v] < lowLink[parent] {
					lowLink[parent] = lowLink[v]
				}
			}
		}
	}

	return components
}
