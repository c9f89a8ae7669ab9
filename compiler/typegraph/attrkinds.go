package typegraph

import (
	"fmt"
	"sort"
	"strings"
)

// StringSet is a plain set of strings used by several attribute values.
type StringSet map[string]struct{}

// NewStringSet builds a set from its members.
func NewStringSet(members ...string) StringSet {
	out := make(StringSet, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	return out
}

// Sorted returns the members in sorted order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func unionStringSets(values []interface{}) StringSet {
	out := StringSet{}
	for _, v := range values {
		for m := range v.(StringSet) {
			out[m] = struct{}{}
		}
	}
	return out
}

func stringSetString(v interface{}) string {
	return strings.Join(v.(StringSet).Sorted(), "|")
}

// descriptionAttributeKind carries human-readable descriptions of a
// type; several sources may each contribute one.
type descriptionAttributeKind struct {
	attributeKindBase
}

var DescriptionAttribute = &descriptionAttributeKind{attributeKindBase{name: "description"}}

func (k *descriptionAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	return unionStringSets(values), true
}

func (k *descriptionAttributeKind) ValueString(v interface{}) string { return stringSetString(v) }

// propertyDescriptionsAttributeKind maps property names to their
// descriptions.
type propertyDescriptionsAttributeKind struct {
	attributeKindBase
}

var PropertyDescriptionsAttribute = &propertyDescriptionsAttributeKind{attributeKindBase{name: "property-descriptions"}}

func (k *propertyDescriptionsAttributeKind) AppliesToKind(tk TypeKind) bool {
	return tk.IsObject()
}

func (k *propertyDescriptionsAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	out := map[string]StringSet{}
	for _, v := range values {
		for prop, descriptions := range v.(map[string]StringSet) {
			if out[prop] == nil {
				out[prop] = StringSet{}
			}
			for d := range descriptions {
				out[prop][d] = struct{}{}
			}
		}
	}
	return out, true
}

func (k *propertyDescriptionsAttributeKind) ValueString(v interface{}) string {
	m := v.(map[string]StringSet)
	keys := make([]string, 0, len(m))
	for prop := range m {
		keys = append(keys, prop)
	}
	sort.Strings(keys)
	var parts []string
	for _, prop := range keys {
		parts = append(parts, prop+":"+stringSetString(m[prop]))
	}
	return strings.Join(parts, ";")
}

// accessorNamesAttributeKind carries renderer-facing accessor names for
// properties; the first contribution per property wins.
type accessorNamesAttributeKind struct {
	attributeKindBase
}

var AccessorNamesAttribute = &accessorNamesAttributeKind{attributeKindBase{name: "accessor-names"}}

func (k *accessorNamesAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	out := map[string]string{}
	for _, v := range values {
		for prop, name := range v.(map[string]string) {
			if _, taken := out[prop]; !taken {
				out[prop] = name
			}
		}
	}
	return out, true
}

func (k *accessorNamesAttributeKind) ValueString(v interface{}) string {
	return mapStringString(v.(map[string]string))
}

// enumValuesAttributeKind carries accessor names for enum cases.
type enumValuesAttributeKind struct {
	attributeKindBase
}

var EnumValuesAttribute = &enumValuesAttributeKind{attributeKindBase{name: "enum-values"}}

func (k *enumValuesAttributeKind) AppliesToKind(tk TypeKind) bool {
	return tk == KindEnum || tk.IsStringLike()
}

func (k *enumValuesAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	out := map[string]string{}
	for _, v := range values {
		for c, name := range v.(map[string]string) {
			if _, taken := out[c]; !taken {
				out[c] = name
			}
		}
	}
	return out, true
}

func (k *enumValuesAttributeKind) ValueString(v interface{}) string {
	return mapStringString(v.(map[string]string))
}

func mapStringString(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, ";")
}

// MinMax bounds a numeric or length constraint; either side may be
// open.
type MinMax struct {
	Min *float64
	Max *float64
}

func (mm MinMax) String() string {
	render := func(f *float64) string {
		if f == nil {
			return "_"
		}
		return fmt.Sprintf("%g", *f)
	}
	return "[" + render(mm.Min) + "," + render(mm.Max) + "]"
}

// widen returns the union of two ranges; intersecting narrows instead.
func (mm MinMax) widen(other MinMax) MinMax {
	out := MinMax{}
	if mm.Min != nil && other.Min != nil {
		lesser := *mm.Min
		if *other.Min < lesser {
			lesser = *other.Min
		}
		out.Min = &lesser
	}
	if mm.Max != nil && other.Max != nil {
		greater := *mm.Max
		if *other.Max > greater {
			greater = *other.Max
		}
		out.Max = &greater
	}
	return out
}

func (mm MinMax) narrow(other MinMax) MinMax {
	out := MinMax{Min: mm.Min, Max: mm.Max}
	if other.Min != nil && (out.Min == nil || *other.Min > *out.Min) {
		out.Min = other.Min
	}
	if other.Max != nil && (out.Max == nil || *other.Max < *out.Max) {
		out.Max = other.Max
	}
	return out
}

type minMaxAttributeKind struct {
	attributeKindBase
	lengths bool
}

// MinMaxAttribute bounds numeric values; MinMaxLengthAttribute bounds
// string lengths.
var (
	MinMaxAttribute       = &minMaxAttributeKind{attributeKindBase{name: "min-max"}, false}
	MinMaxLengthAttribute = &minMaxAttributeKind{attributeKindBase{name: "min-max-length"}, true}
)

func (k *minMaxAttributeKind) AppliesToKind(tk TypeKind) bool {
	if k.lengths {
		return tk.IsStringLike()
	}
	return tk == KindInteger || tk == KindDouble
}

func (k *minMaxAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	result := values[0].(MinMax)
	for _, v := range values[1:] {
		result = result.widen(v.(MinMax))
	}
	return result, true
}

func (k *minMaxAttributeKind) Intersect(values []interface{}) (interface{}, bool) {
	result := values[0].(MinMax)
	for _, v := range values[1:] {
		result = result.narrow(v.(MinMax))
	}
	return result, true
}

func (k *minMaxAttributeKind) ValueString(v interface{}) string {
	return v.(MinMax).String()
}

// patternAttributeKind carries the regex patterns a string must match.
type patternAttributeKind struct {
	attributeKindBase
}

var PatternAttribute = &patternAttributeKind{attributeKindBase{name: "pattern"}}

func (k *patternAttributeKind) AppliesToKind(tk TypeKind) bool { return tk.IsStringLike() }

func (k *patternAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	return unionStringSets(values), true
}

func (k *patternAttributeKind) ValueString(v interface{}) string { return stringSetString(v) }

// URIInfo collects the protocols and path extensions observed on URI
// values.
type URIInfo struct {
	Protocols  StringSet
	Extensions StringSet
}

type uriInfoAttributeKind struct {
	attributeKindBase
}

var URIInfoAttribute = &uriInfoAttributeKind{attributeKindBase{name: "uri-info"}}

func (k *uriInfoAttributeKind) AppliesToKind(tk TypeKind) bool {
	return tk == KindURI || tk == KindString
}

func (k *uriInfoAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	out := URIInfo{Protocols: StringSet{}, Extensions: StringSet{}}
	for _, v := range values {
		info := v.(URIInfo)
		for p := range info.Protocols {
			out.Protocols[p] = struct{}{}
		}
		for e := range info.Extensions {
			out.Extensions[e] = struct{}{}
		}
	}
	return out, true
}

func (k *uriInfoAttributeKind) ValueString(v interface{}) string {
	info := v.(URIInfo)
	return stringSetString(info.Protocols) + "/" + stringSetString(info.Extensions)
}

// unionIdentifierAttributeKind tags unions that must stay distinct even
// when structurally identical, e.g. because a schema named them.
type unionIdentifierAttributeKind struct {
	attributeKindBase
}

var UnionIdentifierAttribute = &unionIdentifierAttributeKind{attributeKindBase{name: "union-identifier"}}

func (k *unionIdentifierAttributeKind) AppliesToKind(tk TypeKind) bool {
	return tk == KindUnion
}

func (k *unionIdentifierAttributeKind) RequiresUniqueIdentity(v interface{}) bool {
	return len(v.(StringSet)) > 0
}

func (k *unionIdentifierAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	return unionStringSets(values), true
}

func (k *unionIdentifierAttributeKind) ValueString(v interface{}) string { return stringSetString(v) }

// unionMemberNamesAttributeKind carries the names under which members
// joined a union.
type unionMemberNamesAttributeKind struct {
	attributeKindBase
}

var UnionMemberNamesAttribute = &unionMemberNamesAttributeKind{attributeKindBase{name: "union-member-names"}}

func (k *unionMemberNamesAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	return unionStringSets(values), true
}

func (k *unionMemberNamesAttributeKind) ValueString(v interface{}) string { return stringSetString(v) }

// provenanceAttributeKind records which input sources contributed a
// type; sources are identified by the UUIDs the pipeline assigns them.
// Provenance survives inference demotion and distance widening.
type provenanceAttributeKind struct {
	attributeKindBase
}

var ProvenanceAttribute = &provenanceAttributeKind{attributeKindBase{name: "provenance"}}

func (k *provenanceAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	return unionStringSets(values), true
}

func (k *provenanceAttributeKind) MakeInferred(v interface{}) (interface{}, bool) {
	return v, true
}

func (k *provenanceAttributeKind) ValueString(v interface{}) string { return stringSetString(v) }

func init() {
	RegisterAttributeKind(NamesAttribute)
	RegisterAttributeKind(StringTypesAttribute)
	RegisterAttributeKind(DescriptionAttribute)
	RegisterAttributeKind(PropertyDescriptionsAttribute)
	RegisterAttributeKind(AccessorNamesAttribute)
	RegisterAttributeKind(EnumValuesAttribute)
	RegisterAttributeKind(MinMaxAttribute)
	RegisterAttributeKind(MinMaxLengthAttribute)
	RegisterAttributeKind(PatternAttribute)
	RegisterAttributeKind(URIInfoAttribute)
	RegisterAttributeKind(UnionIdentifierAttribute)
	RegisterAttributeKind(UnionMemberNamesAttribute)
	RegisterAttributeKind(ProvenanceAttribute)
	RegisterAttributeKind(TransformationAttribute)
}
