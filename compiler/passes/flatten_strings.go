package passes

import (
	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// FlattenStrings coalesces the string-like members of a union into a
// single plain string when the union's plain string is unrestricted:
// the refinements add nothing a renderer could rely on.
func FlattenStrings(g *typegraph.TypeGraph, ctx *Context) (*typegraph.TypeGraph, bool) {
	shouldFlatten := func(ref typegraph.TypeRef) bool {
		t := g.Resolve(ref)
		union, ok := t.(*typegraph.SetOperationType)
		if !ok || union.Kind() != typegraph.KindUnion {
			return false
		}
		stringLike := 0
		plainUnrestricted := false
		for _, m := range union.Members() {
			kind := g.Resolve(m).Kind()
			if !kind.IsStringLike() {
				continue
			}
			stringLike++
			if kind == typegraph.KindString && !typegraph.StringTypesOf(g.Attributes(m)).IsRestricted() {
				plainUnrestricted = true
			}
		}
		return stringLike >= 2 && plainUnrestricted
	}

	var groups [][]typegraph.TypeRef
	for _, ref := range g.AllTypesUnordered() {
		if shouldFlatten(ref) {
			groups = append(groups, []typegraph.TypeRef{ref})
		}
	}
	if len(groups) == 0 {
		return g, false
	}

	ctx.Logger.Debug("flattening strings", zap.Int("unions", len(groups)))

	replacer := func(group []typegraph.TypeRef, rec *typegraph.GraphReconstituter, fwd typegraph.TypeRef) typegraph.TypeRef {
		union := g.Resolve(group[0]).(*typegraph.SetOperationType)
		b := rec.Builder()

		var members []typegraph.TypeRef
		stringAttrSets := []typegraph.TypeAttributes{}
		for _, m := range union.Members() {
			if g.Resolve(m).Kind().IsStringLike() {
				stringAttrSets = append(stringAttrSets,
					g.Attributes(m).Without(typegraph.StringTypesAttribute))
				continue
			}
			members = append(members, rec.Reconstitute(m))
		}
		stringAttrs := rec.ReconstituteAttributes(
			typegraph.CombineAttributes(typegraph.CombineUnion, stringAttrSets...))
		members = append(members, b.GetStringType(stringAttrs, nil, nil))

		unionAttrs := rec.ReconstituteAttributes(g.Attributes(group[0]))
		if len(members) == 1 {
			result := b.GetUniqueIntersectionType(typegraph.EmptyAttributes(), members, &fwd)
			b.AddAttributes(result, typegraph.IncreaseDistanceAttributes(unionAttrs))
			return result
		}
		return b.GetUnionType(unionAttrs, members, &fwd)
	}

	return g.Rewrite(ctx.rewriteOptions("flatten-strings"), groups, replacer), true
}
