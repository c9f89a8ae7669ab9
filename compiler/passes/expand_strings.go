package passes

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// ExpandStrings rebuilds restricted string types from their case and
// transformation information: observed cases may become enums, each
// recognized transformation becomes its own primitive, and multiple
// results join in a union.
func ExpandStrings(g *typegraph.TypeGraph, ctx *Context) (*typegraph.TypeGraph, bool) {
	if ctx.EnumInference == EnumInferenceNone {
		return g, false
	}

	type candidate struct {
		ref typegraph.TypeRef
		st  typegraph.StringTypes
	}
	var candidates []candidate
	for _, ref := range g.AllTypesUnordered() {
		if g.Resolve(ref).Kind() != typegraph.KindString {
			continue
		}
		st := typegraph.StringTypesOf(g.Attributes(ref))
		if st.CaseCount() == 0 && len(st.Transformations()) == 0 {
			continue
		}
		candidates = append(candidates, candidate{ref: ref, st: st})
	}
	if len(candidates) == 0 {
		return g, false
	}

	// Decide which case sets become enums. In all mode every case set
	// does; in infer mode a string owns an enum when it has enough
	// values and few distinct cases, or merges into an existing enum
	// set on sufficient overlap.
	enumSets := map[typegraph.TypeRef][]string{}
	var existingSets [][]string
	for _, c := range candidates {
		cases := c.st.Cases()
		if len(cases) == 0 {
			continue
		}
		switch ctx.EnumInference {
		case EnumInferenceAll:
			enumSets[c.ref] = sortedCaseNames(cases)
		case EnumInferenceInfer:
			values := c.st.ValueCount()
			distinct := c.st.CaseCount()
			if values >= ctx.MinLengthForEnum && float64(distinct) < math.Sqrt(float64(values)) {
				set := sortedCaseNames(cases)
				enumSets[c.ref] = set
				existingSets = append(existingSets, set)
				continue
			}
			if values >= ctx.MinLengthForOverlap {
				if merged, ok := mergeIntoExisting(existingSets, cases, ctx.RequiredOverlap); ok {
					enumSets[c.ref] = merged
				}
			}
		}
	}

	var groups [][]typegraph.TypeRef
	changed := false
	for _, c := range candidates {
		_, becomesEnum := enumSets[c.ref]
		if becomesEnum || len(c.st.Transformations()) > 0 {
			groups = append(groups, []typegraph.TypeRef{c.ref})
			changed = true
		}
	}
	if !changed {
		return g, false
	}

	ctx.Logger.Debug("expanding strings", zap.Int("strings", len(groups)))

	replacer := func(group []typegraph.TypeRef, rec *typegraph.GraphReconstituter, fwd typegraph.TypeRef) typegraph.TypeRef {
		ref := group[0]
		st := typegraph.StringTypesOf(g.Attributes(ref))
		b := rec.Builder()
		attrs := rec.ReconstituteAttributes(
			g.Attributes(ref).Without(typegraph.StringTypesAttribute))

		var members []typegraph.TypeRef
		if set, ok := enumSets[ref]; ok {
			members = append(members, b.GetEnumType(typegraph.EmptyAttributes(), set, nil))
		} else if !st.IsRestricted() || st.CaseCount() > 0 {
			// Cases that did not earn an enum stay a plain string.
			members = append(members, b.GetStringType(typegraph.EmptyAttributes(), nil, nil))
		}
		for _, kind := range st.Transformations() {
			members = append(members, b.GetPrimitiveType(kind, typegraph.EmptyAttributes(), nil))
		}

		if len(members) == 1 {
			// Forward the reserved ref to the single member.
			result := b.GetUniqueIntersectionType(typegraph.EmptyAttributes(), members, &fwd)
			b.AddAttributes(result, attrs)
			return result
		}
		return b.GetUnionType(attrs, members, &fwd)
	}

	return g.Rewrite(ctx.rewriteOptions("expand-strings"), groups, replacer), true
}

func sortedCaseNames(cases map[string]int) []string {
	out := make([]string, 0, len(cases))
	for c := range cases {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// mergeIntoExisting merges a case set into the first existing enum set
// it overlaps by at least the required fraction of its own size.
func mergeIntoExisting(existing [][]string, cases map[string]int, requiredOverlap float64) ([]string, bool) {
	if len(cases) == 0 {
		return nil, false
	}
	for _, set := range existing {
		overlap := 0
		for _, c := range set {
			if _, ok := cases[c]; ok {
				overlap++
			}
		}
		if float64(overlap) >= requiredOverlap*float64(len(cases)) {
			merged := map[string]struct{}{}
			for _, c := range set {
				merged[c] = struct{}{}
			}
			for c := range cases {
				merged[c] = struct{}{}
			}
			out := make([]string, 0, len(merged))
			for c := range merged {
				out = append(out, c)
			}
			sort.Strings(out)
			return out, true
		}
	}
	return nil, false
}
