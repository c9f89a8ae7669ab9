package graph

import (
	"reflect"
	"testing"
)

func TestFindRoots(t *testing.T) {
	g := New([]string{"a", "b", "c", "d"}, [][]int{{1}, {2}, {}, {2}}, false)
	roots := g.FindRoots()
	if !reflect.DeepEqual(roots, []int{0, 3}) {
		t.Errorf("roots = %v, want [0 3]", roots)
	}
}

func TestDFSTraversalOrders(t *testing.T) {
	g := New([]int{0, 1, 2}, [][]int{{1}, {2}, {}}, false)

	var pre []int
	g.DFSTraversal(0, PreOrder, func(i int) { pre = append(pre, i) })
	if !reflect.DeepEqual(pre, []int{0, 1, 2}) {
		t.Errorf("preorder = %v", pre)
	}

	var post []int
	g.DFSTraversal(0, PostOrder, func(i int) { post = append(post, i) })
	if !reflect.DeepEqual(post, []int{2, 1, 0}) {
		t.Errorf("postorder = %v", post)
	}
}

func TestInvertedConstruction(t *testing.T) {
	g := New([]string{"a", "b"}, [][]int{{1}, {}}, true)
	if succs := g.Successors(1); !reflect.DeepEqual(succs, []int{0}) {
		t.Errorf("inverted successors of b = %v, want [0]", succs)
	}
}

func TestInvertedCycleIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on cycle in inverted input")
		}
	}()
	New([]string{"a", "b"}, [][]int{{1}, {0}}, true)
}

func TestStronglyConnectedComponents(t *testing.T) {
	// 0 -> 1 -> 2 -> 0 form a cycle; 3 hangs off it; 4 is isolated.
	g := New([]int{0, 1, 2, 3, 4}, [][]int{{1}, {2}, {0, 3}, {}, {}}, false)
	sccs := g.StronglyConnectedComponents()

	total := 0
	for _, c := range sccs.Nodes() {
		total += len(c)
	}
	if total != g.Size() {
		t.Errorf("SCC node count %d != graph size %d", total, g.Size())
	}

	var cycle Component
	for _, c := range sccs.Nodes() {
		if len(c) == 3 {
			cycle = c
		}
	}
	if cycle == nil {
		t.Fatal("expected one SCC with three members")
	}
	members := map[int]bool{}
	for _, m := range cycle {
		members[m] = true
	}
	if !members[0] || !members[1] || !members[2] {
		t.Errorf("cycle SCC = %v, want {0,1,2}", cycle)
	}

	// Every meta-edge connects distinct components.
	for i := range sccs.Nodes() {
		for _, s := range sccs.Successors(i) {
			if s == i {
				t.Error("meta-edge within a single SCC")
			}
		}
	}
}

func TestBreakCyclesAcyclic(t *testing.T) {
	breakers := BreakCycles([][]int{{1}, {2}, {}}, func(cycle []int) (int, string) {
		t.Fatalf("chooser called for acyclic graph with cycle %v", cycle)
		return 0, ""
	})
	if len(breakers) != 0 {
		t.Errorf("breakers = %v, want none", breakers)
	}
}

func TestBreakCyclesSingleCycle(t *testing.T) {
	breakers := BreakCycles([][]int{{1}, {2}, {0}}, func(cycle []int) (int, string) {
		if len(cycle) != 3 {
			t.Errorf("cycle = %v, want length 3", cycle)
		}
		return cycle[0], "info"
	})
	if len(breakers) != 1 {
		t.Fatalf("breakers = %v, want exactly one", breakers)
	}
	if breakers[0].Info != "info" {
		t.Errorf("info = %q", breakers[0].Info)
	}
}

func TestBreakCyclesTwoCycles(t *testing.T) {
	// Two disjoint 2-cycles.
	successors := [][]int{{1}, {0}, {3}, {2}}
	breakers := BreakCycles(successors, func(cycle []int) (int, int) {
		return cycle[0], len(cycle)
	})
	if len(breakers) != 2 {
		t.Fatalf("breakers = %v, want one per cycle", breakers)
	}
}
