// Package graph provides the generic directed-graph machinery the
// type-graph core builds on: roots, depth-first traversal, strongly
// connected components, and cycle breaking.
package graph

import (
	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// TraversalOrder selects when the visit callback fires during DFS.
type TraversalOrder int

const (
	PreOrder TraversalOrder = iota
	PostOrder
)

// Graph is a directed graph over an ordered node sequence. Edges are
// kept as successor index lists parallel to the nodes.
type Graph[T any] struct {
	nodes      []T
	successors [][]int
}

// New builds a graph from nodes and raw successor index lists. When
// invert is set, the edges are reversed; an inverted input must be
// acyclic, and a cycle is a fatal error.
func New[T any](nodes []T, successors [][]int, invert bool) *Graph[T] {
	errors.MessageAssertf(len(nodes) == len(successors),
		"graph: %d nodes but %d successor lists", len(nodes), len(successors))
	for _, succs := range successors {
		for _, s := range succs {
			errors.MessageAssertf(s >= 0 && s < len(nodes), "graph: successor index %d out of range", s)
		}
	}
	if invert {
		errors.MessageAssert(!hasCycle(successors), "graph: cycle in inverted graph input")
		inverted := make([][]int, len(nodes))
		for from, succs := range successors {
			for _, to := range succs {
				inverted[to] = append(inverted[to], from)
			}
		}
		successors = inverted
	}
	return &Graph[T]{nodes: nodes, successors: successors}
}

// NewFromChildren builds a graph from nodes and a function producing
// each node's child set. Children not present in the node sequence are
// ignored.
func NewFromChildren[T comparable](nodes []T, childrenOf func(T) []T) *Graph[T] {
	indexOf := make(map[T]int, len(nodes))
	for i, n := range nodes {
		indexOf[n] = i
	}
	successors := make([][]int, len(nodes))
	for i, n := range nodes {
		for _, c := range childrenOf(n) {
			if j, ok := indexOf[c]; ok {
				successors[i] = append(successors[i], j)
			}
		}
	}
	return &Graph[T]{nodes: nodes, successors: successors}
}

// Size returns the number of nodes.
func (g *Graph[T]) Size() int {
	return len(g.nodes)
}

// Nodes returns the node sequence in insertion order.
func (g *Graph[T]) Nodes() []T {
	return g.nodes
}

// Node returns the node at the given index.
func (g *Graph[T]) Node(index int) T {
	return g.nodes[index]
}

// Successors returns the successor indices of the node at index.
func (g *Graph[T]) Successors(index int) []int {
	return g.successors[index]
}

// FindRoots returns the indices of all nodes with in-degree zero, in
// insertion order.
func (g *Graph[T]) FindRoots() []int {
	inDegree := make([]int, len(g.nodes))
	for _, succs := range g.successors {
		for _, s := range succs {
			inDegree[s]++
		}
	}
	var roots []int
	for i := range g.nodes {
		if inDegree[i] == 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// DFSTraversal walks the graph from root, visiting each reachable node
// once in the requested order.
func (g *Graph[T]) DFSTraversal(root int, order TraversalOrder, visit func(index int)) {
	visited := make([]bool, len(g.nodes))
	var walk func(index int)
	walk = func(index int) {
		if visited[index] {
			return
		}
		visited[index] = true
		if order == PreOrder {
			visit(index)
		}
		for _, s := range g.successors[index] {
			walk(s)
		}
		if order == PostOrder {
			visit(index)
		}
	}
	walk(root)
}

// hasCycle reports whether the successor lists contain a directed cycle.
func hasCycle(successors [][]int) bool {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make([]int, len(successors))
	var walk func(index int) bool
	walk = func(index int) bool {
		switch state[index] {
		case onStack:
			return true
		case done:
			return false
		}
		state[index] = onStack
		for _, s := range successors[index] {
			if walk(s) {
				return true
			}
		}
		state[index] = done
		return false
	}
	for i := range successors {
		if state[i] == unvisited && walk(i) {
			return true
		}
	}
	return false
}
