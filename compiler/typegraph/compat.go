package typegraph

import (
	"sort"
)

type refPair struct {
	a TypeRef
	b TypeRef
}

// StructurallyCompatible reports whether two types have the same shape.
// The comparison is a breadth-first walk over child pairs, memoizing
// visited pairs in canonical order so cyclic types terminate. With
// conflateNumbers, integer and double are compatible.
func StructurallyCompatible(ga *TypeGraph, a TypeRef, gb *TypeGraph, b TypeRef, conflateNumbers bool) bool {
	visited := make(map[refPair]struct{})
	queue := []refPair{canonicalPair(a, b)}

	for len(queue) > 0 {
		pair := queue[0]
		queue = queue[1:]
		if _, seen := visited[pair]; seen {
			continue
		}
		visited[pair] = struct{}{}

		enqueue := func(x, y TypeRef) {
			queue = append(queue, canonicalPair(x, y))
		}
		// The pair may have been flipped into canonical order; resolve
		// each side against the graph its serial names.
		ta := resolveEither(ga, gb, pair.a)
		tb := resolveEither(ga, gb, pair.b)
		if !structuralEqualityStep(resolveGraph(ga, gb, pair.a), ta, resolveGraph(ga, gb, pair.b), tb, conflateNumbers, enqueue) {
			return false
		}
	}
	return true
}

func canonicalPair(a, b TypeRef) refPair {
	if b.serial < a.serial || (b.serial == a.serial && b.index < a.index) {
		return refPair{a: b, b: a}
	}
	return refPair{a: a, b: b}
}

func resolveGraph(ga, gb *TypeGraph, ref TypeRef) *TypeGraph {
	if ref.serial == ga.serial {
		return ga
	}
	return gb
}

func resolveEither(ga, gb *TypeGraph, ref TypeRef) Type {
	return resolveGraph(ga, gb, ref).Resolve(ref)
}

// structuralEqualityStep compares the kind-specific shape of two types
// and enqueues child pairs for further comparison.
func structuralEqualityStep(ga *TypeGraph, ta Type, gb *TypeGraph, tb Type, conflateNumbers bool, enqueue func(a, b TypeRef)) bool {
	ka, kb := ta.Kind(), tb.Kind()
	if ka != kb {
		if conflateNumbers && isNumberPair(ka, kb) {
			return true
		}
		return false
	}

	switch a := ta.(type) {
	case *PrimitiveType:
		return true

	case *EnumType:
		b := tb.(*EnumType)
		if len(a.cases) != len(b.cases) {
			return false
		}
		sa, sb := a.SortedCases(), b.SortedCases()
		for i := range sa {
			if sa[i] != sb[i] {
				return false
			}
		}
		return true

	case *ArrayType:
		b := tb.(*ArrayType)
		enqueue(a.Items(), b.Items())
		return true

	case *ObjectType:
		b := tb.(*ObjectType)
		if a.isFixed != b.isFixed {
			return false
		}
		pa, pb := a.SortedProperties(), b.SortedProperties()
		if len(pa) != len(pb) {
			return false
		}
		for i := range pa {
			if pa[i].Name != pb[i].Name || pa[i].Optional != pb[i].Optional {
				return false
			}
			enqueue(pa[i].Type, pb[i].Type)
		}
		addA, okA := a.AdditionalProperties()
		addB, okB := b.AdditionalProperties()
		if okA != okB {
			return false
		}
		if okA {
			enqueue(addA, addB)
		}
		return true

	case *SetOperationType:
		b := tb.(*SetOperationType)
		ma, mb := a.Members(), b.Members()
		if len(ma) != len(mb) {
			return false
		}
		sa := sortMembersByKind(ga, ma)
		sb := sortMembersByKind(gb, mb)
		for i := range sa {
			enqueue(sa[i], sb[i])
		}
		return true

	default:
		return false
	}
}

func isNumberPair(a, b TypeKind) bool {
	return (a == KindInteger && b == KindDouble) || (a == KindDouble && b == KindInteger)
}

func sortMembersByKind(g *TypeGraph, members []TypeRef) []TypeRef {
	out := append([]TypeRef(nil), members...)
	sort.Slice(out, func(i, j int) bool {
		ki := g.Resolve(out[i]).Kind()
		kj := g.Resolve(out[j]).Kind()
		if ki != kj {
			return ki < kj
		}
		return out[i].index < out[j].index
	})
	return out
}
