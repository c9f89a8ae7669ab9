package typegraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// Type is the tagged variant over all type kinds. Concrete types hold
// only structural data and child refs; attributes live in the graph's
// parallel store.
type Type interface {
	Kind() TypeKind
	// NonAttributeChildren returns the direct type refs from structural
	// fields only.
	NonAttributeChildren() []TypeRef
}

// PrimitiveType covers the primitive kinds including the
// transformed-string refinements.
type PrimitiveType struct {
	kind TypeKind
}

func (t *PrimitiveType) Kind() TypeKind                  { return t.kind }
func (t *PrimitiveType) NonAttributeChildren() []TypeRef { return nil }

// EnumType is a set of string cases.
type EnumType struct {
	cases []string
}

func (t *EnumType) Kind() TypeKind                  { return KindEnum }
func (t *EnumType) NonAttributeChildren() []TypeRef { return nil }

// Cases returns the enum's cases in insertion order.
func (t *EnumType) Cases() []string { return t.cases }

// SortedCases returns the cases sorted.
func (t *EnumType) SortedCases() []string {
	out := append([]string(nil), t.cases...)
	sort.Strings(out)
	return out
}

// ArrayType has one item type, settable once.
type ArrayType struct {
	items    TypeRef
	itemsSet bool
}

func (t *ArrayType) Kind() TypeKind { return KindArray }

func (t *ArrayType) NonAttributeChildren() []TypeRef {
	if !t.itemsSet {
		return nil
	}
	return []TypeRef{t.items}
}

// Items returns the item type. Reading it before it was set is a fatal
// error.
func (t *ArrayType) Items() TypeRef {
	errors.MessageAssert(t.itemsSet, "array item type read before it was set")
	return t.items
}

func (t *ArrayType) setItems(items TypeRef) {
	errors.MessageAssert(!t.itemsSet, "array item type set twice")
	t.items = items
	t.itemsSet = true
}

// Property is one named object property.
type Property struct {
	Name     string
	Type     TypeRef
	Optional bool
}

// ObjectType covers the object kinds: the object base, class (fixed
// named properties, no additional), and map (only an
// additional-properties type).
type ObjectType struct {
	kind          TypeKind
	isFixed       bool
	propertiesSet bool
	properties    []Property
	additional    *TypeRef
}

func (t *ObjectType) Kind() TypeKind { return t.kind }

func (t *ObjectType) NonAttributeChildren() []TypeRef {
	var children []TypeRef
	for _, p := range t.properties {
		children = append(children, p.Type)
	}
	if t.additional != nil {
		children = append(children, *t.additional)
	}
	return children
}

// IsFixed reports whether the property set is closed.
func (t *ObjectType) IsFixed() bool { return t.isFixed }

// Properties returns the named properties in their stored order.
func (t *ObjectType) Properties() []Property {
	errors.MessageAssert(t.propertiesSet, "object properties read before they were set")
	return t.properties
}

// SortedProperties returns the properties sorted by name.
func (t *ObjectType) SortedProperties() []Property {
	out := append([]Property(nil), t.Properties()...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PropertyByName finds a property by name.
func (t *ObjectType) PropertyByName(name string) (Property, bool) {
	for _, p := range t.Properties() {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// AdditionalProperties returns the additional-properties type, if any.
func (t *ObjectType) AdditionalProperties() (TypeRef, bool) {
	if t.additional == nil {
		return TypeRef{}, false
	}
	return *t.additional, true
}

func (t *ObjectType) setProperties(properties []Property, additional *TypeRef) {
	errors.MessageAssert(!t.propertiesSet, "object properties set twice")
	switch t.kind {
	case KindClass:
		errors.MessageAssert(additional == nil, "class with additional properties")
	case KindMap:
		errors.MessageAssert(len(properties) == 0, "map with named properties")
		errors.MessageAssert(additional != nil, "map without a value type")
	}
	t.properties = properties
	t.additional = additional
	t.propertiesSet = true
}

// SetOperationType covers unions and intersections: a member set,
// settable once. Empty unions are forbidden.
type SetOperationType struct {
	kind       TypeKind
	membersSet bool
	members    []TypeRef
}

func (t *SetOperationType) Kind() TypeKind { return t.kind }

func (t *SetOperationType) NonAttributeChildren() []TypeRef {
	return append([]TypeRef(nil), t.members...)
}

// Members returns the member refs in insertion order. Reading them
// before they were set is a fatal error.
func (t *SetOperationType) Members() []TypeRef {
	errors.MessageAssert(t.membersSet, "set operation members read before they were set")
	return t.members
}

func (t *SetOperationType) setMembers(members []TypeRef) {
	errors.MessageAssert(!t.membersSet, "set operation members set twice")
	if t.kind == KindUnion && len(members) == 0 {
		panic(errors.New(errors.ErrNoEmptyUnions, errors.Properties{"name": "union"}))
	}
	t.members = dedupeRefs(members)
	t.membersSet = true
}

func dedupeRefs(refs []TypeRef) []TypeRef {
	seen := make(map[TypeRef]struct{}, len(refs))
	var out []TypeRef
	for _, r := range refs {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func refsKey(refs []TypeRef) string {
	sorted := append([]TypeRef(nil), refs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].index < sorted[j].index })
	var parts []string
	for _, r := range sorted {
		parts = append(parts, fmt.Sprintf("%d", r.index))
	}
	return strings.Join(parts, ",")
}
