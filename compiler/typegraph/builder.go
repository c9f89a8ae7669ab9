package typegraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// StringTypeMapping decides what becomes of the transformed-string
// kinds: each may be preserved or fall back to plain string.
type StringTypeMapping map[TypeKind]TypeKind

// PreserveTransformedStrings keeps every transformed-string kind.
func PreserveTransformedStrings() StringTypeMapping {
	return StringTypeMapping{}
}

// TransformedStringsToString maps every transformed-string kind down to
// plain string.
func TransformedStringsToString() StringTypeMapping {
	m := StringTypeMapping{}
	for k := KindDate; k <= KindBoolString; k++ {
		m[k] = KindString
	}
	return m
}

func (m StringTypeMapping) mapKind(kind TypeKind) TypeKind {
	if mapped, ok := m[kind]; ok {
		return mapped
	}
	return kind
}

// TypeBuilder is the mutable construction phase of a graph. Types are
// created through its factory methods, deduplicated by identity, and
// committed exactly once to their reserved index. Finish freezes the
// result.
type TypeBuilder struct {
	serial          GraphSerial
	types           []Type
	attributes      []TypeAttributes
	topLevelNames   []string
	topLevels       map[string]TypeRef
	typeForIdentity map[string]TypeRef

	stringTypeMapping StringTypeMapping
	canonicalOrder    bool

	// madeForwardingIntersection is raised when identity deduplication
	// had to satisfy a forwarding ref with a one-member intersection;
	// the resulting graph needs intersection resolution.
	madeForwardingIntersection bool

	finished bool
}

// NewTypeBuilder creates an empty builder. With canonicalOrder, object
// properties are stored sorted by name.
func NewTypeBuilder(mapping StringTypeMapping, canonicalOrder bool) *TypeBuilder {
	return &TypeBuilder{
		serial:            nextGraphSerial(),
		topLevels:         map[string]TypeRef{},
		typeForIdentity:   map[string]TypeRef{},
		stringTypeMapping: mapping,
		canonicalOrder:    canonicalOrder,
	}
}

// Serial returns the serial the finished graph will carry.
func (b *TypeBuilder) Serial() GraphSerial { return b.serial }

// MadeForwardingIntersection reports whether deduplication introduced
// forwarding intersections.
func (b *TypeBuilder) MadeForwardingIntersection() bool {
	return b.madeForwardingIntersection
}

// ReserveRef reserves an index for a type whose body is not yet known;
// the forwarding ref breaks cycles during construction.
func (b *TypeBuilder) ReserveRef() TypeRef {
	b.assertMutable()
	b.types = append(b.types, nil)
	b.attributes = append(b.attributes, EmptyAttributes())
	return TypeRef{serial: b.serial, index: len(b.types) - 1}
}

// Resolve returns the committed type behind a ref.
func (b *TypeBuilder) Resolve(ref TypeRef) Type {
	ref.assertGraph(b.serial)
	t := b.types[ref.index]
	errors.MessageAssertf(t != nil, "type %s resolved before commit", ref)
	return t
}

// AttributesOf returns the attributes attached to a ref so far.
func (b *TypeBuilder) AttributesOf(ref TypeRef) TypeAttributes {
	ref.assertGraph(b.serial)
	return b.attributes[ref.index]
}

func (b *TypeBuilder) assertMutable() {
	errors.MessageAssert(!b.finished, "type builder used after finish")
}

func (b *TypeBuilder) commit(ref TypeRef, t Type, attrs TypeAttributes) {
	ref.assertGraph(b.serial)
	errors.MessageAssertf(b.types[ref.index] == nil, "type %s committed twice", ref)
	b.types[ref.index] = t
	b.attributes[ref.index] = filterAttributesForKind(t.Kind(), attrs)
}

// filterAttributesForKind drops attributes that cannot attach to the
// kind; composition routinely offers e.g. string attributes to the
// union that replaced a string.
func filterAttributesForKind(kind TypeKind, attrs TypeAttributes) TypeAttributes {
	applicable := true
	attrs.ForEach(func(ak AttributeKind, _ interface{}) {
		if !ak.AppliesToKind(kind) {
			applicable = false
		}
	})
	if applicable {
		return attrs
	}
	out := EmptyAttributes()
	attrs.ForEach(func(ak AttributeKind, value interface{}) {
		if ak.AppliesToKind(kind) {
			out = out.With(ak, value)
		}
	})
	return out
}

// getOrAdd is the identity-deduplication path shared by every factory.
// An absent identity always creates a fresh type. On a cache hit the
// caller's non-identity attributes are merged in; if the caller brought
// a forwarding ref it is satisfied with a one-member intersection that
// forwards to the hit.
func (b *TypeBuilder) getOrAdd(identity string, hasIdentity bool, attrs TypeAttributes, forwardingRef *TypeRef, create func(ref TypeRef) Type) TypeRef {
	b.assertMutable()
	if hasIdentity {
		if hit, ok := b.typeForIdentity[identity]; ok {
			b.addNonIdentityAttributes(hit, attrs)
			if forwardingRef != nil {
				fwd := *forwardingRef
				inter := &SetOperationType{kind: KindIntersection}
				inter.setMembers([]TypeRef{hit})
				b.commit(fwd, inter, EmptyAttributes())
				b.madeForwardingIntersection = true
				return fwd
			}
			return hit
		}
	}

	var ref TypeRef
	if forwardingRef != nil {
		ref = *forwardingRef
		ref.assertGraph(b.serial)
	} else {
		ref = b.ReserveRef()
	}
	t := create(ref)
	b.commit(ref, t, attrs)
	if hasIdentity {
		b.typeForIdentity[identity] = ref
	}
	return ref
}

func (b *TypeBuilder) addNonIdentityAttributes(ref TypeRef, attrs TypeAttributes) {
	filtered := EmptyAttributes()
	attrs.ForEach(func(kind AttributeKind, value interface{}) {
		if !kind.InIdentity() {
			filtered = filtered.With(kind, value)
		}
	})
	if filtered.Size() > 0 {
		b.AddAttributes(ref, filtered)
	}
}

// AddAttributes attaches attributes to an existing type. Identity
// attributes may never change after the fact: an identity kind in attrs
// must be identical to the value already present.
func (b *TypeBuilder) AddAttributes(ref TypeRef, attrs TypeAttributes) {
	b.assertMutable()
	ref.assertGraph(b.serial)
	existing := b.attributes[ref.index]
	attrs.ForEach(func(kind AttributeKind, value interface{}) {
		if !kind.InIdentity() {
			return
		}
		current, ok := existing.Get(kind)
		errors.MessageAssertf(ok && kind.ValueString(current) == kind.ValueString(value),
			"identity attribute %q added after type creation", kind.Name())
	})
	kind := TypeKind(-1)
	if b.types[ref.index] != nil {
		kind = b.types[ref.index].Kind()
	}
	merged := CombineAttributes(CombineUnion, existing, attrs)
	if kind >= 0 {
		merged = filterAttributesForKind(kind, merged)
	}
	b.attributes[ref.index] = merged
}

// identity helpers

func identityKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// typeIdentity computes the identity for a prospective type, or reports
// that the attributes force uniqueness.
func typeIdentity(attrs TypeAttributes, parts ...string) (string, bool) {
	attrFp, unique := identityFingerprint(attrs)
	if unique {
		return "", false
	}
	return identityKey(append(parts, attrFp)...), true
}

// factory methods

// GetPrimitiveType returns the primitive of the given kind,
// deduplicated. Transformed-string kinds are first mapped through the
// builder's string-type mapping. forwardingRef may be nil.
func (b *TypeBuilder) GetPrimitiveType(kind TypeKind, attrs TypeAttributes, forwardingRef *TypeRef) TypeRef {
	errors.MessageAssertf(kind.IsPrimitive(), "%s is not a primitive kind", kind)
	kind = b.stringTypeMapping.mapKind(kind)
	identity, hasIdentity := typeIdentity(attrs, "prim", kind.String())
	return b.getOrAdd(identity, hasIdentity, attrs, forwardingRef, func(TypeRef) Type {
		return &PrimitiveType{kind: kind}
	})
}

// GetStringType returns the string primitive carrying the given
// string-types attribute; a nil stringTypes leaves the attribute
// untouched.
func (b *TypeBuilder) GetStringType(attrs TypeAttributes, stringTypes *StringTypes, forwardingRef *TypeRef) TypeRef {
	if stringTypes != nil {
		attrs = attrs.With(StringTypesAttribute, *stringTypes)
	}
	return b.GetPrimitiveType(KindString, attrs, forwardingRef)
}

// GetEnumType returns the enum over the given cases, deduplicated by
// case set.
func (b *TypeBuilder) GetEnumType(attrs TypeAttributes, cases []string, forwardingRef *TypeRef) TypeRef {
	deduped := dedupeStrings(cases)
	sorted := append([]string(nil), deduped...)
	sort.Strings(sorted)
	identity, hasIdentity := typeIdentity(attrs, "enum", strings.Join(sorted, "\x01"))
	return b.getOrAdd(identity, hasIdentity, attrs, forwardingRef, func(TypeRef) Type {
		return &EnumType{cases: deduped}
	})
}

// GetArrayType returns the array over items, deduplicated by item type.
func (b *TypeBuilder) GetArrayType(attrs TypeAttributes, items TypeRef, forwardingRef *TypeRef) TypeRef {
	items.assertGraph(b.serial)
	identity, hasIdentity := typeIdentity(attrs, "array", fmt.Sprintf("%d", items.index))
	return b.getOrAdd(identity, hasIdentity, attrs, forwardingRef, func(TypeRef) Type {
		t := &ArrayType{}
		t.setItems(items)
		return t
	})
}

// GetUniqueArrayType returns a fresh array whose item type is set
// later.
func (b *TypeBuilder) GetUniqueArrayType(attrs TypeAttributes, forwardingRef *TypeRef) TypeRef {
	return b.getOrAdd("", false, attrs, forwardingRef, func(TypeRef) Type {
		return &ArrayType{}
	})
}

// SetArrayItems sets an array's item type; allowed at most once.
func (b *TypeBuilder) SetArrayItems(ref TypeRef, items TypeRef) {
	b.assertMutable()
	items.assertGraph(b.serial)
	array, ok := b.Resolve(ref).(*ArrayType)
	errors.MessageAssertf(ok, "SetArrayItems on %s type", b.Resolve(ref).Kind())
	array.setItems(items)
}

func (b *TypeBuilder) orderProperties(properties []Property) []Property {
	out := append([]Property(nil), properties...)
	if b.canonicalOrder {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out
}

func propertiesIdentity(properties []Property) string {
	sorted := append([]Property(nil), properties...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	var parts []string
	for _, p := range sorted {
		parts = append(parts, fmt.Sprintf("%s:%d:%t", p.Name, p.Type.index, p.Optional))
	}
	return strings.Join(parts, "\x01")
}

// GetClassType returns the class with the given fixed properties,
// deduplicated by property map.
func (b *TypeBuilder) GetClassType(attrs TypeAttributes, properties []Property) TypeRef {
	for _, p := range properties {
		p.Type.assertGraph(b.serial)
	}
	ordered := b.orderProperties(properties)
	identity, hasIdentity := typeIdentity(attrs, "class", propertiesIdentity(ordered))
	return b.getOrAdd(identity, hasIdentity, attrs, nil, func(TypeRef) Type {
		t := &ObjectType{kind: KindClass, isFixed: true}
		t.setProperties(ordered, nil)
		return t
	})
}

// GetUniqueClassType returns a fresh class; nil properties may be set
// later with SetObjectProperties.
func (b *TypeBuilder) GetUniqueClassType(attrs TypeAttributes, isFixed bool, properties []Property, forwardingRef *TypeRef) TypeRef {
	return b.getOrAdd("", false, attrs, forwardingRef, func(TypeRef) Type {
		t := &ObjectType{kind: KindClass, isFixed: isFixed}
		if properties != nil {
			t.setProperties(b.orderProperties(properties), nil)
		}
		return t
	})
}

// GetMapType returns the map over the given value type, deduplicated.
func (b *TypeBuilder) GetMapType(attrs TypeAttributes, values TypeRef, forwardingRef *TypeRef) TypeRef {
	values.assertGraph(b.serial)
	identity, hasIdentity := typeIdentity(attrs, "map", fmt.Sprintf("%d", values.index))
	return b.getOrAdd(identity, hasIdentity, attrs, forwardingRef, func(TypeRef) Type {
		t := &ObjectType{kind: KindMap, isFixed: false}
		v := values
		t.setProperties(nil, &v)
		return t
	})
}

// GetUniqueMapType returns a fresh map whose value type is set later.
func (b *TypeBuilder) GetUniqueMapType(attrs TypeAttributes, forwardingRef *TypeRef) TypeRef {
	return b.getOrAdd("", false, attrs, forwardingRef, func(TypeRef) Type {
		return &ObjectType{kind: KindMap, isFixed: false}
	})
}

// GetUniqueObjectType returns a fresh object; properties and the
// additional-properties type may be set later. Objects are always
// fixed.
func (b *TypeBuilder) GetUniqueObjectType(attrs TypeAttributes, properties []Property, additional *TypeRef, forwardingRef *TypeRef) TypeRef {
	if additional != nil {
		additional.assertGraph(b.serial)
	}
	return b.getOrAdd("", false, attrs, forwardingRef, func(TypeRef) Type {
		t := &ObjectType{kind: KindObject, isFixed: true}
		if properties != nil || additional != nil {
			t.setProperties(b.orderProperties(properties), additional)
		}
		return t
	})
}

// SetObjectProperties sets an object-kind type's properties and
// additional-properties type; allowed at most once.
func (b *TypeBuilder) SetObjectProperties(ref TypeRef, properties []Property, additional *TypeRef) {
	b.assertMutable()
	for _, p := range properties {
		p.Type.assertGraph(b.serial)
	}
	if additional != nil {
		additional.assertGraph(b.serial)
	}
	object, ok := b.Resolve(ref).(*ObjectType)
	errors.MessageAssertf(ok, "SetObjectProperties on %s type", b.Resolve(ref).Kind())
	object.setProperties(b.orderProperties(properties), additional)
}

// GetUnionType returns the union over members, deduplicated by member
// set. Empty unions are forbidden.
func (b *TypeBuilder) GetUnionType(attrs TypeAttributes, members []TypeRef, forwardingRef *TypeRef) TypeRef {
	if len(members) == 0 {
		panic(errors.New(errors.ErrNoEmptyUnions, errors.Properties{"name": "union"}))
	}
	return b.getSetOperation(KindUnion, attrs, members, forwardingRef)
}

// GetUniqueUnionType returns a fresh union; nil members may be set
// later.
func (b *TypeBuilder) GetUniqueUnionType(attrs TypeAttributes, members []TypeRef, forwardingRef *TypeRef) TypeRef {
	return b.getUniqueSetOperation(KindUnion, attrs, members, forwardingRef)
}

// GetIntersectionType returns the intersection over members,
// deduplicated by member set.
func (b *TypeBuilder) GetIntersectionType(attrs TypeAttributes, members []TypeRef, forwardingRef *TypeRef) TypeRef {
	return b.getSetOperation(KindIntersection, attrs, members, forwardingRef)
}

// GetUniqueIntersectionType returns a fresh intersection; nil members
// may be set later.
func (b *TypeBuilder) GetUniqueIntersectionType(attrs TypeAttributes, members []TypeRef, forwardingRef *TypeRef) TypeRef {
	return b.getUniqueSetOperation(KindIntersection, attrs, members, forwardingRef)
}

func (b *TypeBuilder) getSetOperation(kind TypeKind, attrs TypeAttributes, members []TypeRef, forwardingRef *TypeRef) TypeRef {
	for _, m := range members {
		m.assertGraph(b.serial)
	}
	members = dedupeRefs(members)
	identity, hasIdentity := typeIdentity(attrs, kind.String(), refsKey(members))
	return b.getOrAdd(identity, hasIdentity, attrs, forwardingRef, func(TypeRef) Type {
		t := &SetOperationType{kind: kind}
		t.setMembers(members)
		return t
	})
}

func (b *TypeBuilder) getUniqueSetOperation(kind TypeKind, attrs TypeAttributes, members []TypeRef, forwardingRef *TypeRef) TypeRef {
	for _, m := range members {
		m.assertGraph(b.serial)
	}
	return b.getOrAdd("", false, attrs, forwardingRef, func(TypeRef) Type {
		t := &SetOperationType{kind: kind}
		if members != nil {
			t.setMembers(members)
		}
		return t
	})
}

// SetSetOperationMembers sets a union's or intersection's members;
// allowed at most once.
func (b *TypeBuilder) SetSetOperationMembers(ref TypeRef, members []TypeRef) {
	b.assertMutable()
	for _, m := range members {
		m.assertGraph(b.serial)
	}
	setOp, ok := b.Resolve(ref).(*SetOperationType)
	errors.MessageAssertf(ok, "SetSetOperationMembers on %s type", b.Resolve(ref).Kind())
	setOp.setMembers(members)
}

// AddTopLevel registers a named entry point. Re-registering a name is a
// fatal error.
func (b *TypeBuilder) AddTopLevel(name string, ref TypeRef) {
	b.assertMutable()
	ref.assertGraph(b.serial)
	_, exists := b.topLevels[name]
	errors.MessageAssertf(!exists, "top-level %q added twice", name)
	b.topLevelNames = append(b.topLevelNames, name)
	b.topLevels[name] = ref
}

// TopLevel returns the ref registered under a top-level name so far.
func (b *TypeBuilder) TopLevel(name string) (TypeRef, bool) {
	ref, ok := b.topLevels[name]
	return ref, ok
}

// Finish asserts every reserved index was committed and freezes the
// graph. The builder must not be used afterwards.
func (b *TypeBuilder) Finish() *TypeGraph {
	b.assertMutable()
	for i, t := range b.types {
		errors.MessageAssertf(t != nil, "type %d reserved but never committed", i)
	}
	b.finished = true
	return &TypeGraph{
		serial:        b.serial,
		types:         b.types,
		attributes:    b.attributes,
		topLevelNames: b.topLevelNames,
		topLevels:     b.topLevels,
	}
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
