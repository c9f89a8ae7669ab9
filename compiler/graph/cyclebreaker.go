package graph

import (
	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// Breaker is one node chosen to break a cycle, with whatever info the
// chooser attached to its decision.
type Breaker[Info any] struct {
	Node int
	Info Info
}

// BreakCycles removes nodes from the graph described by the successor
// lists until none remain. Nodes whose in-degree or out-degree reaches
// zero are removed for free; when only cyclic nodes remain, a cycle is
// located by walking forward from any live node, the chooser picks one
// of its members to break, and that member is removed. The breakers are
// returned in removal order.
func BreakCycles[Info any](successors [][]int, chooser func(cycle []int) (int, Info)) []Breaker[Info] {
	n := len(successors)
	inDegree := make([]int, n)
	outDegree := make([]int, n)
	predecessors := make([][]int, n)
	for from, succs := range successors {
		outDegree[from] = len(succs)
		for _, to := range succs {
			inDegree[to]++
			predecessors[to] = append(predecessors[to], from)
		}
	}

	done := make([]bool, n)
	remaining := n
	var breakers []Breaker[Info]

	remove := func(node int) {
		done[node] = true
		remaining--
		for _, s := range successors[node] {
			if !done[s] {
				inDegree[s]--
			}
		}
		for _, p := range predecessors[node] {
			if !done[p] {
				outDegree[p]--
			}
		}
	}

	removeFree := func() {
		for {
			removed := false
			for i := 0; i < n; i++ {
				if !done[i] && (inDegree[i] == 0 || outDegree[i] == 0) {
					remove(i)
					removed = true
				}
			}
			if !removed {
				return
			}
		}
	}

	// Walks forward from start through live nodes until a node repeats,
	// returning the cycle between the two visits.
	findCycle := func(start int) []int {
		var path []int
		position := make(map[int]int)
		node := start
		for {
			if at, seen := position[node]; seen {
				cycle := path[at:]
				for _, member := range cycle {
					errors.MessageAssert(!done[member], "graph: cycle member already removed")
				}
				return cycle
			}
			position[node] = len(path)
			path = append(path, node)
			next := -1
			for _, s := range successors[node] {
				if !done[s] {
					next = s
					break
				}
			}
			errors.MessageAssert(next >= 0, "graph: claimed cycle is not a cycle")
			node = next
		}
	}

	for {
		removeFree()
		if remaining == 0 {
			return breakers
		}
		start := -1
		for i := 0; i < n; i++ {
			if !done[i] {
				start = i
				break
			}
		}
		cycle := findCycle(start)
		breaker, info := chooser(cycle)
		inCycle := false
		for _, member := range cycle {
			if member == breaker {
				inCycle = true
				break
			}
		}
		errors.MessageAssertf(inCycle, "graph: chosen breaker %d is not a member of the cycle", breaker)
		remove(breaker)
		breakers = append(breakers, Breaker[Info]{Node: breaker, Info: info})
	}
}
