package typegraph

import (
	"sort"

	"github.com/typegraph-dev/typegraph/compiler/errors"
	"github.com/typegraph-dev/typegraph/compiler/graph"
)

// DeclarationKind distinguishes forward declarations from definitions.
type DeclarationKind int

const (
	ForwardDeclaration DeclarationKind = iota
	DefineDeclaration
)

func (k DeclarationKind) String() string {
	if k == ForwardDeclaration {
		return "forward"
	}
	return "define"
}

// Declaration is one entry of the declaration schedule.
type Declaration struct {
	Kind DeclarationKind
	Type TypeRef
}

// DeclarationIR is the topologically ordered declaration schedule for a
// graph, with the set of types that had to be forward-declared to break
// cycles.
type DeclarationIR struct {
	Declarations   []Declaration
	ForwardedTypes map[TypeRef]struct{}
}

// DeclarationPolicy supplies the target-language rules declaration
// scheduling depends on.
type DeclarationPolicy struct {
	// ChildrenOf restricts the graph to the edges that matter for
	// declaration order.
	ChildrenOf func(TypeRef) []TypeRef
	// NeedsDeclaration reports whether a type appears in the schedule
	// at all.
	NeedsDeclaration func(TypeRef) bool
	// CanBeForwardDeclared reports whether a forward declaration of the
	// type is expressible. Nil means no forward declarations at all.
	CanBeForwardDeclared func(TypeRef) bool
}

// Declarations produces the declaration schedule: definitions follow
// the definitions of their children, and cyclic components are broken
// with forward declarations. A cycle with no forward-declarable member
// is a structural error.
func Declarations(g *TypeGraph, policy DeclarationPolicy) (*DeclarationIR, error) {
	errors.MessageAssert(policy.ChildrenOf != nil, "declaration policy without ChildrenOf")
	errors.MessageAssert(policy.NeedsDeclaration != nil, "declaration policy without NeedsDeclaration")

	nodes := g.AllTypesUnordered()
	indexOf := make(map[TypeRef]int, len(nodes))
	for i, ref := range nodes {
		indexOf[ref] = i
	}
	successors := make([][]int, len(nodes))
	for i, ref := range nodes {
		for _, child := range policy.ChildrenOf(ref) {
			if j, ok := indexOf[child]; ok {
				successors[i] = append(successors[i], j)
			}
		}
	}
	typeGraph := graph.New(nodes, successors, false)

	ir := &DeclarationIR{ForwardedTypes: map[TypeRef]struct{}{}}
	if err := scheduleComponents(g, typeGraph, policy, ir); err != nil {
		return nil, err
	}
	return ir, nil
}

func scheduleComponents(g *TypeGraph, typeGraph *graph.Graph[TypeRef], policy DeclarationPolicy, ir *DeclarationIR) error {
	sccs := typeGraph.StronglyConnectedComponents()

	// Post-order DFS over the meta-graph from its roots: children
	// declare before the components that use them.
	roots := sccs.FindRoots()
	if len(roots) == 0 && sccs.Size() > 0 {
		// Fully cyclic meta-graphs cannot happen; SCC condensation is
		// acyclic. Every nonempty condensation has a root.
		errors.Panic("SCC meta-graph has no roots")
	}

	visited := make(map[int]struct{})
	var err error
	var visit func(component int)
	visit = func(component int) {
		if err != nil {
			return
		}
		if _, seen := visited[component]; seen {
			return
		}
		visited[component] = struct{}{}
		for _, next := range sccs.Successors(component) {
			visit(next)
		}
		if err == nil {
			err = declareComponent(g, typeGraph, sccs.Node(component), policy, ir)
		}
	}
	for _, root := range roots {
		visit(root)
	}
	// Components unreachable from any root would imply a cycle in the
	// condensation; all components must be visited.
	errors.MessageAssertf(err != nil || len(visited) == sccs.Size(),
		"declaration scheduling visited %d of %d components", len(visited), sccs.Size())
	return err
}

func declareComponent(g *TypeGraph, typeGraph *graph.Graph[TypeRef], component graph.Component, policy DeclarationPolicy, ir *DeclarationIR) error {
	if len(component) == 1 {
		ref := typeGraph.Node(component[0])
		if !selfCycle(typeGraph, component[0]) {
			if policy.NeedsDeclaration(ref) {
				ir.Declarations = append(ir.Declarations, Declaration{Kind: DefineDeclaration, Type: ref})
			}
			return nil
		}
	}

	members := make([]TypeRef, 0, len(component))
	for _, index := range sortedComponent(component) {
		ref := typeGraph.Node(index)
		if policy.NeedsDeclaration(ref) {
			members = append(members, ref)
		}
	}
	if len(members) == 0 {
		return nil
	}
	if len(members) == 1 && len(component) > 1 {
		// The cycle runs through types that need no declaration; the
		// single declarable member can simply be defined.
		ir.Declarations = append(ir.Declarations, Declaration{Kind: DefineDeclaration, Type: members[0]})
		return nil
	}

	return declareCycle(g, members, policy, ir)
}

// declareCycle emits forwards for the forward-declarable subset,
// recursively schedules the rest, then defines the forwarded types.
func declareCycle(g *TypeGraph, members []TypeRef, policy DeclarationPolicy, ir *DeclarationIR) error {
	if len(members) == 1 {
		ir.Declarations = append(ir.Declarations, Declaration{Kind: DefineDeclaration, Type: members[0]})
		return nil
	}

	var forwardable []TypeRef
	var rest []TypeRef
	for _, ref := range members {
		if policy.CanBeForwardDeclared != nil && policy.CanBeForwardDeclared(ref) {
			forwardable = append(forwardable, ref)
		} else {
			rest = append(rest, ref)
		}
	}
	if len(forwardable) == 0 {
		return errors.New(errors.ErrNoForwardDeclarableTypeInCycle,
			errors.Properties{"count": len(members)})
	}

	for _, ref := range forwardable {
		ir.Declarations = append(ir.Declarations, Declaration{Kind: ForwardDeclaration, Type: ref})
		ir.ForwardedTypes[ref] = struct{}{}
	}
	if len(rest) > 0 {
		if err := declareCycle(g, rest, policy, ir); err != nil {
			return err
		}
	}
	for _, ref := range forwardable {
		ir.Declarations = append(ir.Declarations, Declaration{Kind: DefineDeclaration, Type: ref})
	}
	return nil
}

func selfCycle(typeGraph *graph.Graph[TypeRef], index int) bool {
	for _, s := range typeGraph.Successors(index) {
		if s == index {
			return true
		}
	}
	return false
}

func sortedComponent(component graph.Component) []int {
	out := append([]int(nil), component...)
	sort.Ints(out)
	return out
}

// CycleBreakingTypes walks the type graph from its top levels and
// picks, for every cycle not already broken by an implicit breaker, the
// nearest path member that may break it. A cycle with no such member is
// a structural error.
func CycleBreakingTypes(g *TypeGraph, isImplicitBreaker func(TypeRef) bool, canBreak func(TypeRef) bool) (map[TypeRef]struct{}, error) {
	breakers := map[TypeRef]struct{}{}
	onPath := map[TypeRef]int{}
	var path []TypeRef
	done := map[TypeRef]struct{}{}

	var walk func(ref TypeRef) error
	walk = func(ref TypeRef) error {
		if _, broken := breakers[ref]; broken {
			return nil
		}
		if at, cyclic := onPath[ref]; cyclic {
			if isImplicitBreaker != nil && isImplicitBreaker(ref) {
				return nil
			}
			// Pick the path member nearest to the revisit that can
			// break the cycle.
			cycle := path[at:]
			for i := len(cycle) - 1; i >= 0; i-- {
				if canBreak != nil && canBreak(cycle[i]) {
					breakers[cycle[i]] = struct{}{}
					return nil
				}
			}
			return errors.New(errors.ErrNoForwardDeclarableTypeInCycle,
				errors.Properties{"count": len(cycle)})
		}
		if _, finished := done[ref]; finished {
			return nil
		}
		onPath[ref] = len(path)
		path = append(path, ref)
		for _, child := range g.Children(ref) {
			if err := walk(child); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(onPath, ref)
		done[ref] = struct{}{}
		return nil
	}

	for _, name := range g.TopLevelNames() {
		ref, _ := g.TopLevel(name)
		if err := walk(ref); err != nil {
			return nil, err
		}
	}
	return breakers, nil
}
