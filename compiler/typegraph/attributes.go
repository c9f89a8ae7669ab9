package typegraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// CombinationKind selects how attribute values are merged when types
// are composed.
type CombinationKind int

const (
	CombineUnion CombinationKind = iota
	CombineIntersect
)

// AttributeKind is the behavior of one attribute family. Kinds are
// singletons registered into the process-wide registry; identity is the
// stable kind name, never pointer identity.
type AttributeKind interface {
	// Name is the stable identifier used for registry lookup, equality
	// and fingerprints.
	Name() string
	// AppliesToKind reports whether the attribute may attach to a type
	// of kind k.
	AppliesToKind(k TypeKind) bool
	// InIdentity reports whether the attribute participates in type
	// identity.
	InIdentity() bool
	// RequiresUniqueIdentity reports whether this value forces a fresh
	// type regardless of identity.
	RequiresUniqueIdentity(value interface{}) bool
	// Combine merges values under union composition. Returning false
	// drops the attribute.
	Combine(values []interface{}) (interface{}, bool)
	// MakeInferred demotes the value to an inferred one, or drops it.
	MakeInferred(value interface{}) (interface{}, bool)
	// IncreaseDistance widens the value's namedness distance, or drops
	// it.
	IncreaseDistance(value interface{}) (interface{}, bool)
	// Children returns the type refs the value transitively owns.
	Children(value interface{}) []TypeRef
	// Reconstitute rebuilds the value across a graph rewrite.
	Reconstitute(rec *GraphReconstituter, value interface{}) interface{}
	// ValueString renders the value for fingerprints and debugging.
	ValueString(value interface{}) string
}

// Intersecter is implemented by kinds whose intersection merge differs
// from Combine; kinds without it reuse Combine under intersection.
type Intersecter interface {
	Intersect(values []interface{}) (interface{}, bool)
}

// attributeKindBase provides the default behaviors shared by most
// kinds.
type attributeKindBase struct {
	name       string
	inIdentity bool
}

func (b attributeKindBase) Name() string                 { return b.name }
func (b attributeKindBase) InIdentity() bool             { return b.inIdentity }
func (b attributeKindBase) AppliesToKind(TypeKind) bool  { return true }
func (b attributeKindBase) RequiresUniqueIdentity(interface{}) bool { return false }

func (b attributeKindBase) MakeInferred(interface{}) (interface{}, bool) {
	return nil, false
}

func (b attributeKindBase) IncreaseDistance(value interface{}) (interface{}, bool) {
	return value, true
}

func (b attributeKindBase) Children(interface{}) []TypeRef { return nil }

func (b attributeKindBase) Reconstitute(_ *GraphReconstituter, value interface{}) interface{} {
	return value
}

func (b attributeKindBase) ValueString(value interface{}) string {
	return fmt.Sprintf("%v", value)
}

// attributeRegistry maps kind names to their singletons.
var attributeRegistry = map[string]AttributeKind{}

// RegisterAttributeKind adds a kind to the process-wide registry.
// Registering two kinds under the same name is a fatal error.
func RegisterAttributeKind(kind AttributeKind) {
	_, exists := attributeRegistry[kind.Name()]
	errors.MessageAssertf(!exists, "attribute kind %q registered twice", kind.Name())
	attributeRegistry[kind.Name()] = kind
}

// LookupAttributeKind finds a registered kind by name.
func LookupAttributeKind(name string) (AttributeKind, bool) {
	kind, ok := attributeRegistry[name]
	return kind, ok
}

type attrBinding struct {
	kind  AttributeKind
	value interface{}
}

// TypeAttributes is an immutable mapping from attribute kind to value.
// The zero value is the empty mapping.
type TypeAttributes struct {
	bindings map[string]attrBinding
}

// EmptyAttributes returns the empty mapping.
func EmptyAttributes() TypeAttributes {
	return TypeAttributes{}
}

// SingleAttribute returns a mapping holding exactly one binding.
func SingleAttribute(kind AttributeKind, value interface{}) TypeAttributes {
	return TypeAttributes{bindings: map[string]attrBinding{
		kind.Name(): {kind: kind, value: value},
	}}
}

// Size returns the number of bindings.
func (a TypeAttributes) Size() int {
	return len(a.bindings)
}

// Get returns the value bound to kind, if any.
func (a TypeAttributes) Get(kind AttributeKind) (interface{}, bool) {
	b, ok := a.bindings[kind.Name()]
	if !ok {
		return nil, false
	}
	return b.value, true
}

// Has reports whether kind is bound.
func (a TypeAttributes) Has(kind AttributeKind) bool {
	_, ok := a.bindings[kind.Name()]
	return ok
}

// With returns a copy with kind bound to value.
func (a TypeAttributes) With(kind AttributeKind, value interface{}) TypeAttributes {
	out := make(map[string]attrBinding, len(a.bindings)+1)
	for name, b := range a.bindings {
		out[name] = b
	}
	out[kind.Name()] = attrBinding{kind: kind, value: value}
	return TypeAttributes{bindings: out}
}

// Without returns a copy with kind removed.
func (a TypeAttributes) Without(kind AttributeKind) TypeAttributes {
	if !a.Has(kind) {
		return a
	}
	out := make(map[string]attrBinding, len(a.bindings)-1)
	for name, b := range a.bindings {
		if name != kind.Name() {
			out[name] = b
		}
	}
	return TypeAttributes{bindings: out}
}

// ForEach visits every binding in kind-name order.
func (a TypeAttributes) ForEach(visit func(kind AttributeKind, value interface{})) {
	names := make([]string, 0, len(a.bindings))
	for name := range a.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b := a.bindings[name]
		visit(b.kind, b.value)
	}
}

// String renders the attributes for debug output.
func (a TypeAttributes) String() string {
	var parts []string
	a.ForEach(func(kind AttributeKind, value interface{}) {
		parts = append(parts, fmt.Sprintf("%s=%s", kind.Name(), kind.ValueString(value)))
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

// CombineAttributes merges attribute sets under union or intersection
// composition. Kinds present in only one set pass through; kinds whose
// merge rule declines are dropped.
func CombineAttributes(mode CombinationKind, sets ...TypeAttributes) TypeAttributes {
	grouped := make(map[string][]interface{})
	kinds := make(map[string]AttributeKind)
	var order []string
	for _, set := range sets {
		set.ForEach(func(kind AttributeKind, value interface{}) {
			if _, seen := kinds[kind.Name()]; !seen {
				kinds[kind.Name()] = kind
				order = append(order, kind.Name())
			}
			grouped[kind.Name()] = append(grouped[kind.Name()], value)
		})
	}
	sort.Strings(order)

	out := make(map[string]attrBinding)
	for _, name := range order {
		kind := kinds[name]
		values := grouped[name]
		if len(values) == 1 {
			out[name] = attrBinding{kind: kind, value: values[0]}
			continue
		}
		var merged interface{}
		var keep bool
		if mode == CombineIntersect {
			if intersecter, ok := kind.(Intersecter); ok {
				merged, keep = intersecter.Intersect(values)
			} else {
				merged, keep = kind.Combine(values)
			}
		} else {
			merged, keep = kind.Combine(values)
		}
		if keep {
			out[name] = attrBinding{kind: kind, value: merged}
		}
	}
	if len(out) == 0 {
		return EmptyAttributes()
	}
	return TypeAttributes{bindings: out}
}

// MakeInferredAttributes demotes every binding to an inferred one,
// dropping kinds whose rule declines.
func MakeInferredAttributes(a TypeAttributes) TypeAttributes {
	return a.mapValues(func(kind AttributeKind, value interface{}) (interface{}, bool) {
		return kind.MakeInferred(value)
	})
}

// IncreaseDistanceAttributes widens every binding's namedness distance,
// dropping kinds whose rule declines.
func IncreaseDistanceAttributes(a TypeAttributes) TypeAttributes {
	return a.mapValues(func(kind AttributeKind, value interface{}) (interface{}, bool) {
		return kind.IncreaseDistance(value)
	})
}

func (a TypeAttributes) mapValues(f func(AttributeKind, interface{}) (interface{}, bool)) TypeAttributes {
	if len(a.bindings) == 0 {
		return a
	}
	out := make(map[string]attrBinding)
	a.ForEach(func(kind AttributeKind, value interface{}) {
		if mapped, keep := f(kind, value); keep {
			out[kind.Name()] = attrBinding{kind: kind, value: mapped}
		}
	})
	if len(out) == 0 {
		return EmptyAttributes()
	}
	return TypeAttributes{bindings: out}
}

// attributesChildren collects the type refs owned by every binding.
func attributesChildren(a TypeAttributes) []TypeRef {
	var children []TypeRef
	a.ForEach(func(kind AttributeKind, value interface{}) {
		children = append(children, kind.Children(value)...)
	})
	return children
}

// reconstituteAttributes rebuilds every binding across a rewrite.
func reconstituteAttributes(rec *GraphReconstituter, a TypeAttributes) TypeAttributes {
	return a.mapValues(func(kind AttributeKind, value interface{}) (interface{}, bool) {
		return kind.Reconstitute(rec, value), true
	})
}

// identityFingerprint renders the identity-affecting bindings, and
// reports whether any binding demands a unique identity.
func identityFingerprint(a TypeAttributes) (fingerprint string, unique bool) {
	var parts []string
	a.ForEach(func(kind AttributeKind, value interface{}) {
		if kind.RequiresUniqueIdentity(value) {
			unique = true
		}
		if kind.InIdentity() {
			parts = append(parts, kind.Name()+"="+kind.ValueString(value))
		}
	})
	return strings.Join(parts, ";"), unique
}
