package typegraph

import (
	"fmt"
	"sort"
	"strings"
)

// StringTypes describes what is known about a string type: the observed
// enum-candidate cases with their value counts, and the transformed
// kinds recognized among its values. An unrestricted value carries no
// case information at all.
type StringTypes struct {
	restricted      bool
	cases           map[string]int
	transformations map[TypeKind]struct{}
}

// UnrestrictedStringTypes marks a string about which nothing further is
// known; it absorbs any restricted value it is merged with.
func UnrestrictedStringTypes() StringTypes {
	return StringTypes{}
}

// RestrictedStringTypes builds a value from observed cases and
// transformations.
func RestrictedStringTypes(cases map[string]int, transformations []TypeKind) StringTypes {
	st := StringTypes{
		restricted:      true,
		cases:           make(map[string]int, len(cases)),
		transformations: make(map[TypeKind]struct{}, len(transformations)),
	}
	for k, v := range cases {
		st.cases[k] = v
	}
	for _, t := range transformations {
		st.transformations[t] = struct{}{}
	}
	return st
}

// IsRestricted reports whether case information is available.
func (st StringTypes) IsRestricted() bool {
	return st.restricted
}

// Cases returns the observed case counts; nil when unrestricted.
func (st StringTypes) Cases() map[string]int {
	return st.cases
}

// CaseCount returns the number of distinct cases.
func (st StringTypes) CaseCount() int {
	return len(st.cases)
}

// ValueCount returns the total number of observed values.
func (st StringTypes) ValueCount() int {
	total := 0
	for _, c := range st.cases {
		total += c
	}
	return total
}

// Transformations returns the recognized transformed kinds in a stable
// order.
func (st StringTypes) Transformations() []TypeKind {
	out := make([]TypeKind, 0, len(st.transformations))
	for k := range st.transformations {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Union merges the values observed for two strings. Cases merge by
// per-key sum, transformations by set union; an unrestricted side makes
// the result unrestricted while still unioning transformations.
func (st StringTypes) Union(other StringTypes) StringTypes {
	out := StringTypes{
		restricted:      st.restricted && other.restricted,
		transformations: unionKinds(st.transformations, other.transformations),
	}
	if out.restricted {
		out.cases = make(map[string]int, len(st.cases)+len(other.cases))
		for k, v := range st.cases {
			out.cases[k] = v
		}
		for k, v := range other.cases {
			out.cases[k] += v
		}
	}
	return out
}

// Intersect narrows the values to those observed on both sides. A
// restricted side dominates an unrestricted one.
func (st StringTypes) Intersect(other StringTypes) StringTypes {
	if !st.restricted {
		return other
	}
	if !other.restricted {
		return st
	}
	out := StringTypes{
		restricted:      true,
		cases:           make(map[string]int),
		transformations: make(map[TypeKind]struct{}),
	}
	for k, v := range st.cases {
		if w, ok := other.cases[k]; ok {
			if w < v {
				out.cases[k] = w
			} else {
				out.cases[k] = v
			}
		}
	}
	for k := range st.transformations {
		if _, ok := other.transformations[k]; ok {
			out.transformations[k] = struct{}{}
		}
	}
	return out
}

func unionKinds(a, b map[TypeKind]struct{}) map[TypeKind]struct{} {
	out := make(map[TypeKind]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// String renders the value for fingerprints and debugging.
func (st StringTypes) String() string {
	if !st.restricted {
		return "unrestricted"
	}
	keys := make([]string, 0, len(st.cases))
	for k := range st.cases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, st.cases[k]))
	}
	for _, t := range st.Transformations() {
		parts = append(parts, t.String())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// stringTypesAttributeKind carries enum-candidate cases and recognized
// transformations on string types.
type stringTypesAttributeKind struct {
	attributeKindBase
}

// StringTypesAttribute is the string-types attribute kind singleton.
// It participates in identity: strings restricted to different case
// sets must stay distinct types.
var StringTypesAttribute = &stringTypesAttributeKind{attributeKindBase{name: "string-types", inIdentity: true}}

func (k *stringTypesAttributeKind) AppliesToKind(tk TypeKind) bool {
	return tk.IsStringLike()
}

func (k *stringTypesAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	result := values[0].(StringTypes)
	for _, v := range values[1:] {
		result = result.Union(v.(StringTypes))
	}
	return result, true
}

func (k *stringTypesAttributeKind) Intersect(values []interface{}) (interface{}, bool) {
	result := values[0].(StringTypes)
	for _, v := range values[1:] {
		result = result.Intersect(v.(StringTypes))
	}
	return result, true
}

func (k *stringTypesAttributeKind) MakeInferred(value interface{}) (interface{}, bool) {
	return value, true
}

func (k *stringTypesAttributeKind) ValueString(value interface{}) string {
	return value.(StringTypes).String()
}

// StringTypesOf returns the string-types attribute, defaulting to
// unrestricted.
func StringTypesOf(a TypeAttributes) StringTypes {
	v, ok := a.Get(StringTypesAttribute)
	if !ok {
		return UnrestrictedStringTypes()
	}
	return v.(StringTypes)
}
