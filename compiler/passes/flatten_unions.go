package passes

import (
	"sort"

	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// FlattenUnions rebuilds every non-canonical union as a canonical one.
// Unions whose recursively expanded member sets are equal are flattened
// together into a single type. Groups containing an intersection member
// are left for ResolveIntersections.
func FlattenUnions(g *typegraph.TypeGraph, ctx *Context) (*typegraph.TypeGraph, bool) {
	type expansion struct {
		leaves     []typegraph.TypeRef
		intersects bool
	}

	expand := func(root typegraph.TypeRef) expansion {
		var out expansion
		seen := map[typegraph.TypeRef]struct{}{}
		var walk func(ref typegraph.TypeRef)
		walk = func(ref typegraph.TypeRef) {
			if _, dup := seen[ref]; dup {
				return
			}
			seen[ref] = struct{}{}
			for _, m := range g.Resolve(ref).(*typegraph.SetOperationType).Members() {
				switch g.Resolve(m).Kind() {
				case typegraph.KindUnion:
					walk(m)
				case typegraph.KindIntersection:
					out.intersects = true
				default:
					out.leaves = append(out.leaves, m)
				}
			}
		}
		walk(root)
		return out
	}

	groupsByKey := map[string][]typegraph.TypeRef{}
	leavesByKey := map[string][]typegraph.TypeRef{}
	var keyOrder []string
	for _, ref := range g.AllTypesUnordered() {
		if g.Resolve(ref).Kind() != typegraph.KindUnion || g.UnionIsCanonical(ref) {
			continue
		}
		ex := expand(ref)
		if ex.intersects {
			continue
		}
		key := refSetKey(ex.leaves)
		if _, seen := groupsByKey[key]; !seen {
			keyOrder = append(keyOrder, key)
			leavesByKey[key] = ex.leaves
		}
		groupsByKey[key] = append(groupsByKey[key], ref)
	}
	if len(keyOrder) == 0 {
		return g, false
	}

	groups := make([][]typegraph.TypeRef, 0, len(keyOrder))
	leavesOf := map[typegraph.TypeRef][]typegraph.TypeRef{}
	for _, key := range keyOrder {
		group := groupsByKey[key]
		groups = append(groups, group)
		leavesOf[group[0]] = leavesByKey[key]
	}

	ctx.Logger.Debug("flattening unions", zap.Int("groups", len(groups)))

	replacer := func(group []typegraph.TypeRef, rec *typegraph.GraphReconstituter, fwd typegraph.TypeRef) typegraph.TypeRef {
		leaves := leavesOf[group[0]]
		attrsByLeaf, rootAttrs := typegraph.AttributesForTypes(g, group)

		acc := typegraph.NewUnionAccumulator(ctx.ConflateNumbers)
		for _, leaf := range leaves {
			attrs := g.Attributes(leaf)
			if extra, ok := attrsByLeaf[leaf]; ok && extra.Size() > 0 {
				attrs = typegraph.CombineAttributes(typegraph.CombineUnion, attrs, extra)
			}
			feedLeaf(acc, rec, g, leaf, attrs)
		}

		unionAttrs := rec.ReconstituteAttributes(rootAttrs)
		return acc.BuildUnionType(rec.Builder(), unifyHooks(rec), unionAttrs, false, &fwd)
	}

	return g.Rewrite(ctx.rewriteOptions("flatten-unions"), groups, replacer), true
}

// feedLeaf adds one non-union member to the accumulator, reconstituting
// its attributes for the new graph. Arrays and objects keep their old
// refs; the hooks rebuild them.
func feedLeaf(acc *typegraph.UnionAccumulator, rec *typegraph.GraphReconstituter, g *typegraph.TypeGraph, leaf typegraph.TypeRef, attrs typegraph.TypeAttributes) {
	t := g.Resolve(leaf)
	switch t := t.(type) {
	case *typegraph.PrimitiveType:
		newAttrs := rec.ReconstituteAttributes(attrs)
		if t.Kind() == typegraph.KindString {
			acc.AddStringType(newAttrs, typegraph.StringTypesOf(newAttrs))
		} else {
			acc.AddPrimitiveKind(t.Kind(), newAttrs)
		}
	case *typegraph.EnumType:
		cases := make(map[string]int, len(t.Cases()))
		for _, c := range t.Cases() {
			cases[c] = 1
		}
		acc.AddEnumCases(cases, rec.ReconstituteAttributes(attrs))
	case *typegraph.ArrayType:
		acc.AddArray(t.Items(), rec.ReconstituteAttributes(attrs))
	case *typegraph.ObjectType:
		acc.AddObject(leaf, rec.ReconstituteAttributes(attrs))
	default:
		// Intersections were filtered out when the group was formed.
	}
}

func refSetKey(refs []typegraph.TypeRef) string {
	indices := make(map[int]struct{}, len(refs))
	for _, r := range refs {
		indices[r.Index()] = struct{}{}
	}
	sorted := make([]int, 0, len(indices))
	for i := range indices {
		sorted = append(sorted, i)
	}
	sort.Ints(sorted)
	key := make([]byte, 0, len(sorted)*4)
	for _, i := range sorted {
		key = append(key, byte(i), byte(i>>8), byte(i>>16), byte(i>>24))
	}
	return string(key)
}
