package typegraph

import (
	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// TypeGraph is a frozen arena of types: an ordered array of types
// indexed by ref, a parallel array of attributes, and the named
// top-level entry points. Frozen graphs never mutate; rewrites produce
// new graphs.
type TypeGraph struct {
	serial        GraphSerial
	types         []Type
	attributes    []TypeAttributes
	topLevelNames []string
	topLevels     map[string]TypeRef
}

// Serial returns the graph's identity for ref assertions.
func (g *TypeGraph) Serial() GraphSerial { return g.serial }

// Size returns the number of types in the arena.
func (g *TypeGraph) Size() int { return len(g.types) }

// Resolve returns the type a ref points at. The ref must belong to
// this graph.
func (g *TypeGraph) Resolve(ref TypeRef) Type {
	ref.assertGraph(g.serial)
	errors.MessageAssertf(ref.index >= 0 && ref.index < len(g.types),
		"type ref index %d out of range", ref.index)
	return g.types[ref.index]
}

// Attributes returns the attributes attached to a ref.
func (g *TypeGraph) Attributes(ref TypeRef) TypeAttributes {
	ref.assertGraph(g.serial)
	return g.attributes[ref.index]
}

// TopLevelNames returns the top-level names in the order they were
// added.
func (g *TypeGraph) TopLevelNames() []string {
	return g.topLevelNames
}

// TopLevel returns the ref registered under a top-level name.
func (g *TypeGraph) TopLevel(name string) (TypeRef, bool) {
	ref, ok := g.topLevels[name]
	return ref, ok
}

// TopLevels returns the top-level mapping; iterate TopLevelNames for a
// stable order.
func (g *TypeGraph) TopLevels() map[string]TypeRef {
	return g.topLevels
}

// AllTypesUnordered returns a ref for every type in the arena.
func (g *TypeGraph) AllTypesUnordered() []TypeRef {
	out := make([]TypeRef, len(g.types))
	for i := range g.types {
		out[i] = TypeRef{serial: g.serial, index: i}
	}
	return out
}

// Ref builds the ref for an arena index.
func (g *TypeGraph) Ref(index int) TypeRef {
	errors.MessageAssertf(index >= 0 && index < len(g.types), "type index %d out of range", index)
	return TypeRef{serial: g.serial, index: index}
}

// Children returns a type's full child set: structural children plus
// the children reported by each attribute.
func (g *TypeGraph) Children(ref TypeRef) []TypeRef {
	t := g.Resolve(ref)
	children := t.NonAttributeChildren()
	children = append(children, attributesChildren(g.Attributes(ref))...)
	return dedupeRefs(children)
}

// NamedTypes groups the nameable types of a graph for renderers.
type NamedTypes struct {
	Objects []TypeRef
	Enums   []TypeRef
	Unions  []TypeRef
}

// AllNamedTypesSeparated partitions the reachable nameable types:
// classes and fixed objects, enums, and unions, each in arena order.
func (g *TypeGraph) AllNamedTypesSeparated() NamedTypes {
	reachable := g.reachableFromTopLevels()
	var out NamedTypes
	for _, ref := range g.AllTypesUnordered() {
		if _, ok := reachable[ref]; !ok {
			continue
		}
		switch g.Resolve(ref).Kind() {
		case KindClass, KindObject:
			out.Objects = append(out.Objects, ref)
		case KindEnum:
			out.Enums = append(out.Enums, ref)
		case KindUnion:
			out.Unions = append(out.Unions, ref)
		}
	}
	return out
}

func (g *TypeGraph) reachableFromTopLevels() map[TypeRef]struct{} {
	reachable := make(map[TypeRef]struct{})
	var walk func(ref TypeRef)
	walk = func(ref TypeRef) {
		if _, seen := reachable[ref]; seen {
			return
		}
		reachable[ref] = struct{}{}
		for _, child := range g.Children(ref) {
			walk(child)
		}
	}
	for _, name := range g.topLevelNames {
		walk(g.topLevels[name])
	}
	return reachable
}

// IsNullable reports whether a type admits null: the null, any and none
// primitives do, a union does when a member does. Querying an
// intersection is a fatal error.
func (g *TypeGraph) IsNullable(ref TypeRef) bool {
	t := g.Resolve(ref)
	switch t.Kind() {
	case KindNull, KindAny, KindNone:
		return true
	case KindUnion:
		for _, m := range t.(*SetOperationType).Members() {
			if g.IsNullable(m) {
				return true
			}
		}
		return false
	case KindIntersection:
		errors.Panic("nullability of an intersection is not queryable")
		return false
	default:
		return false
	}
}

// UnionIsCanonical reports whether a union needs no flattening: more
// than one member, all member kinds distinct, no nested set operations,
// no none or any members, not both string and enum, and at most one
// object kind.
func (g *TypeGraph) UnionIsCanonical(ref TypeRef) bool {
	t := g.Resolve(ref)
	union, ok := t.(*SetOperationType)
	if !ok || union.Kind() != KindUnion {
		return false
	}
	members := union.Members()
	if len(members) <= 1 {
		return false
	}
	kinds := make(map[TypeKind]struct{}, len(members))
	objectKinds := 0
	hasString := false
	hasEnum := false
	for _, m := range members {
		kind := g.Resolve(m).Kind()
		if _, dup := kinds[kind]; dup {
			return false
		}
		kinds[kind] = struct{}{}
		switch {
		case kind.IsSetOperation():
			return false
		case kind == KindNone || kind == KindAny:
			return false
		case kind.IsObject():
			objectKinds++
		case kind == KindString:
			hasString = true
		case kind == KindEnum:
			hasEnum = true
		}
	}
	if hasString && hasEnum {
		return false
	}
	return objectKinds <= 1
}
