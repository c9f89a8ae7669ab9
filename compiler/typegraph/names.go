package typegraph

import (
	"sort"
	"strings"

	"github.com/typegraph-dev/typegraph/compiler/errors"
	strutil "github.com/typegraph-dev/typegraph/internal/util/strings"
	"github.com/typegraph-dev/typegraph/internal/wordname"
)

// tooManyNamesThreshold bounds how many distinct names a type may
// accumulate before they are collapsed into one synthetic name.
const tooManyNamesThreshold = 1000

// TypeNames is the value of the names attribute: either a regular set
// of names with a namedness distance, or a TooMany marker carrying a
// single deterministic synthetic name.
type TypeNames struct {
	names            map[string]struct{}
	alternativeNames map[string]struct{}
	distance         int
	synthetic        string // non-empty marks TooMany
}

// NewTypeNames creates a regular names value. Distance 0 means the
// names were given explicitly; larger distances mark inferred names.
func NewTypeNames(names []string, alternatives []string, distance int) *TypeNames {
	errors.MessageAssert(distance >= 0, "type names distance must be non-negative")
	tn := &TypeNames{
		names:            make(map[string]struct{}, len(names)),
		alternativeNames: make(map[string]struct{}, len(alternatives)),
		distance:         distance,
	}
	for _, n := range names {
		tn.names[n] = struct{}{}
	}
	for _, n := range alternatives {
		tn.alternativeNames[n] = struct{}{}
	}
	if len(tn.names) > tooManyNamesThreshold {
		return tooManyNames(distance, len(tn.names))
	}
	return tn
}

// tooManyNames builds the TooMany variant with a synthetic name that is
// deterministic for a given (distance, count) so repeated runs agree.
func tooManyNames(distance, count int) *TypeNames {
	generator := wordname.New(int64(distance)*1009 + int64(count))
	return &TypeNames{distance: distance, synthetic: generator.Next()}
}

// IsTooMany reports whether the value collapsed to a synthetic name.
func (tn *TypeNames) IsTooMany() bool {
	return tn.synthetic != ""
}

// Distance returns the namedness distance.
func (tn *TypeNames) Distance() int {
	return tn.distance
}

// Names returns the proposed names in sorted order; a TooMany value
// proposes only its synthetic name.
func (tn *TypeNames) Names() []string {
	if tn.IsTooMany() {
		return []string{tn.synthetic}
	}
	out := make([]string, 0, len(tn.names))
	for n := range tn.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// AlternativeNames returns the alternative names in sorted order.
func (tn *TypeNames) AlternativeNames() []string {
	out := make([]string, 0, len(tn.alternativeNames))
	for n := range tn.alternativeNames {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Add merges other name values into this one. The smallest distance
// wins; values at the same distance union their names.
func (tn *TypeNames) Add(others ...*TypeNames) *TypeNames {
	result := tn
	for _, other := range others {
		result = result.addOne(other)
	}
	return result
}

func (tn *TypeNames) addOne(other *TypeNames) *TypeNames {
	if other == nil {
		return tn
	}
	if other.distance > tn.distance {
		return tn
	}
	if other.distance < tn.distance {
		return other
	}
	// Same distance: union.
	if tn.IsTooMany() {
		return tn
	}
	if other.IsTooMany() {
		return other
	}
	merged := &TypeNames{
		names:            make(map[string]struct{}, len(tn.names)+len(other.names)),
		alternativeNames: make(map[string]struct{}, len(tn.alternativeNames)+len(other.alternativeNames)),
		distance:         tn.distance,
	}
	for n := range tn.names {
		merged.names[n] = struct{}{}
	}
	for n := range other.names {
		merged.names[n] = struct{}{}
	}
	for n := range tn.alternativeNames {
		merged.alternativeNames[n] = struct{}{}
	}
	for n := range other.alternativeNames {
		merged.alternativeNames[n] = struct{}{}
	}
	if len(merged.names) > tooManyNamesThreshold {
		return tooManyNames(merged.distance, len(merged.names))
	}
	return merged
}

// ClearInferred erases names that were inferred (distance > 0).
func (tn *TypeNames) ClearInferred() *TypeNames {
	if tn.distance == 0 {
		return tn
	}
	return &TypeNames{
		names:            map[string]struct{}{},
		alternativeNames: map[string]struct{}{},
		distance:         tn.distance,
	}
}

// IncreaseDistance returns the value one step further from its origin.
func (tn *TypeNames) IncreaseDistance() *TypeNames {
	out := *tn
	out.distance++
	return &out
}

// Singularize applies the singularizer to every name.
func (tn *TypeNames) Singularize() *TypeNames {
	if tn.IsTooMany() {
		return tn
	}
	out := &TypeNames{
		names:            make(map[string]struct{}, len(tn.names)),
		alternativeNames: make(map[string]struct{}, len(tn.alternativeNames)),
		distance:         tn.distance,
	}
	for n := range tn.names {
		out.names[strutil.Singularize(n)] = struct{}{}
	}
	for n := range tn.alternativeNames {
		out.alternativeNames[strutil.Singularize(n)] = struct{}{}
	}
	return out
}

// CombinedName computes one representative name: split each name into
// words, find the longest common prefix and suffix over all names
// (kept only when at least three characters long), and concatenate.
// Falls back to the first name.
func (tn *TypeNames) CombinedName() string {
	names := tn.Names()
	if len(names) == 0 {
		return ""
	}
	if len(names) == 1 {
		return names[0]
	}

	first := lowerWords(names[0])
	prefixLen := len(first)
	suffixLen := len(first)
	for _, name := range names[1:] {
		words := lowerWords(name)
		if n := strutil.CommonPrefixLength(first, words); n < prefixLen {
			prefixLen = n
		}
		if n := strutil.CommonSuffixLength(first, words); n < suffixLen {
			suffixLen = n
		}
	}
	if prefixLen+suffixLen > len(first) {
		suffixLen = len(first) - prefixLen
	}

	prefix := strings.Join(first[:prefixLen], "")
	suffix := strings.Join(first[len(first)-suffixLen:], "")
	if len(prefix) < 3 {
		prefix = ""
	}
	if len(suffix) < 3 {
		suffix = ""
	}
	combined := prefix + suffix
	if combined == "" {
		return names[0]
	}
	return combined
}

func lowerWords(name string) []string {
	words := strutil.SplitWords(name)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

// String renders the value for fingerprints and debugging.
func (tn *TypeNames) String() string {
	if tn.IsTooMany() {
		return "too-many(" + tn.synthetic + ")"
	}
	return strings.Join(tn.Names(), "|")
}

// namesAttributeKind is the most elaborate attribute: it carries the
// candidate names for a type and how inferred they are.
type namesAttributeKind struct {
	attributeKindBase
}

// NamesAttribute is the names attribute kind singleton.
var NamesAttribute = &namesAttributeKind{attributeKindBase{name: "names"}}

func (k *namesAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	result := values[0].(*TypeNames)
	for _, v := range values[1:] {
		result = result.Add(v.(*TypeNames))
	}
	return result, true
}

func (k *namesAttributeKind) MakeInferred(value interface{}) (interface{}, bool) {
	return value.(*TypeNames).IncreaseDistance(), true
}

func (k *namesAttributeKind) IncreaseDistance(value interface{}) (interface{}, bool) {
	return value.(*TypeNames).IncreaseDistance(), true
}

func (k *namesAttributeKind) ValueString(value interface{}) string {
	return value.(*TypeNames).String()
}

// TypeNamesOf returns the names attribute of the given attributes, if
// bound.
func TypeNamesOf(a TypeAttributes) (*TypeNames, bool) {
	v, ok := a.Get(NamesAttribute)
	if !ok {
		return nil, false
	}
	return v.(*TypeNames), true
}

// WithName is a convenience for a single explicit name.
func WithName(name string, distance int) TypeAttributes {
	return SingleAttribute(NamesAttribute, NewTypeNames([]string{name}, nil, distance))
}
