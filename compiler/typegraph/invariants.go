package typegraph

import (
	"fmt"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// CheckInvariants verifies the structural invariants of a frozen graph:
// every ref resolves, identities are unique, unions are non-empty, and
// the object kinds have their required shapes. Violations are fatal.
func CheckInvariants(g *TypeGraph) {
	identities := map[string]TypeRef{}

	for _, ref := range g.AllTypesUnordered() {
		t := g.Resolve(ref)
		errors.MessageAssertf(t != nil, "type %s missing from arena", ref)

		switch t := t.(type) {
		case *ObjectType:
			_, hasAdd := t.AdditionalProperties()
			switch t.kind {
			case KindClass:
				errors.MessageAssert(!hasAdd, "class with additional properties")
			case KindMap:
				errors.MessageAssert(len(t.Properties()) == 0, "map with named properties")
				errors.MessageAssert(hasAdd, "map without a value type")
			case KindObject:
				errors.MessageAssert(t.isFixed, "non-fixed plain object")
			}
		case *SetOperationType:
			if t.kind == KindUnion {
				errors.MessageAssert(len(t.Members()) >= 1, "union with no members")
			}
		}

		for _, child := range g.Children(ref) {
			child.assertGraph(g.serial)
		}

		if identity, ok := graphTypeIdentity(g, ref); ok {
			if prev, dup := identities[identity]; dup {
				errors.Panicf("types %s and %s share identity", prev, ref)
			}
			identities[identity] = ref
		}
	}
}

// graphTypeIdentity recomputes a committed type's identity the way the
// builder derived it, for uniqueness checking.
func graphTypeIdentity(g *TypeGraph, ref TypeRef) (string, bool) {
	attrs := g.Attributes(ref)
	t := g.Resolve(ref)
	switch t := t.(type) {
	case *PrimitiveType:
		return typeIdentity(attrs, "prim", t.kind.String())
	case *EnumType:
		return typeIdentity(attrs, "enum", fmt.Sprintf("%v", t.SortedCases()))
	default:
		// Arrays, objects and set operations may legitimately exist in
		// several structurally equal copies after rewrites that built
		// them as unique types; only value-shaped identities are
		// checked.
		return "", false
	}
}
