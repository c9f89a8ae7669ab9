package graph

import (
	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// Component is one strongly connected component: the member indices of
// the underlying graph, in discovery order.
type Component []int

// StronglyConnectedComponents computes the SCCs of the graph with
// Tarjan's algorithm and returns the meta-graph over them. Meta-edges
// connect distinct components; components are emitted in reverse
// topological order, so a meta-edge always points from a later-emitted
// component to an earlier one. The node counts over all components sum
// to Size.
func (g *Graph[T]) StronglyConnectedComponents() *Graph[Component] {
	n := len(g.nodes)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	componentOf := make([]int, n)
	for i := range index {
		index[i] = -1
		componentOf[i] = -1
	}

	var (
		stack      []int
		counter    int
		components []Component
	)

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.successors[v] {
			if index[w] < 0 {
				strongConnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var component Component
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				componentOf[w] = len(components)
				component = append(component, w)
				if w == v {
					break
				}
			}
			components = append(components, component)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] < 0 {
			strongConnect(v)
		}
	}

	total := 0
	for _, c := range components {
		total += len(c)
	}
	errors.MessageAssertf(total == n, "graph: SCC node count %d does not match graph size %d", total, n)

	metaSuccessors := make([][]int, len(components))
	seen := make([]map[int]bool, len(components))
	for v := 0; v < n; v++ {
		from := componentOf[v]
		for _, w := range g.successors[v] {
			to := componentOf[w]
			if from == to {
				continue
			}
			if seen[from] == nil {
				seen[from] = make(map[int]bool)
			}
			if !seen[from][to] {
				seen[from][to] = true
				metaSuccessors[from] = append(metaSuccessors[from], to)
			}
		}
	}

	return &Graph[Component]{nodes: components, successors: metaSuccessors}
}
