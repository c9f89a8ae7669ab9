package passes

import (
	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// clique is a growing set of classes similar enough to merge. Members
// joined by the strict rule; prototypes additionally represent the
// clique in future similarity tests.
type clique struct {
	members    []typegraph.TypeRef
	prototypes []typegraph.TypeRef
}

// CombineClasses merges cliques of structurally similar classes. Two
// classes are compatible when their property-name overlap divided by
// the larger property count reaches the required overlap and every
// common property's non-null type cases are structurally compatible.
func CombineClasses(g *typegraph.TypeGraph, ctx *Context) (*typegraph.TypeGraph, bool) {
	var classes []typegraph.TypeRef
	for _, ref := range g.AllTypesUnordered() {
		if g.Resolve(ref).Kind() == typegraph.KindClass {
			classes = append(classes, ref)
		}
	}
	if len(classes) < 2 {
		return g, false
	}

	var cliques []*clique
	// Most-recently-hit cliques are consulted first; the hit order is
	// tracked separately so the clique list itself stays stable.
	var mruOrder []int

	touchClique := func(index int) {
		for i, c := range mruOrder {
			if c == index {
				mruOrder = append(mruOrder[:i], mruOrder[i+1:]...)
				break
			}
		}
		mruOrder = append([]int{index}, mruOrder...)
	}

	for _, class := range classes {
		joined := false
		for _, index := range mruOrder {
			cq := cliques[index]
			similar := false
			compatible := false
			for _, proto := range cq.prototypes {
				if classesSimilar(g, ctx, class, proto) {
					similar = true
					break
				}
				if classesCompatible(g, ctx, class, proto) {
					compatible = true
				}
			}
			if similar {
				cq.members = append(cq.members, class)
				touchClique(index)
				joined = true
				break
			}
			if compatible {
				cq.members = append(cq.members, class)
				cq.prototypes = append(cq.prototypes, class)
				touchClique(index)
				joined = true
				break
			}
		}
		if !joined {
			cliques = append(cliques, &clique{
				members:    []typegraph.TypeRef{class},
				prototypes: []typegraph.TypeRef{class},
			})
			touchClique(len(cliques) - 1)
		}
	}

	var groups [][]typegraph.TypeRef
	for _, cq := range cliques {
		if len(cq.members) > 1 {
			groups = append(groups, cq.members)
		}
	}
	if len(groups) == 0 {
		return g, false
	}

	ctx.Logger.Debug("combining classes", zap.Int("cliques", len(groups)))

	replacer := func(group []typegraph.TypeRef, rec *typegraph.GraphReconstituter, fwd typegraph.TypeRef) typegraph.TypeRef {
		attrSets := make([]typegraph.TypeAttributes, 0, len(group))
		for _, ref := range group {
			attrSets = append(attrSets, g.Attributes(ref))
		}
		attrs := rec.ReconstituteAttributes(
			typegraph.CombineAttributes(typegraph.CombineUnion, attrSets...))
		return unifyObjects(rec, group, attrs, &fwd)
	}

	return g.Rewrite(ctx.rewriteOptions("combine-classes"), groups, replacer), true
}

// classesCompatible applies the relaxed merge rule.
func classesCompatible(g *typegraph.TypeGraph, ctx *Context, a, b typegraph.TypeRef) bool {
	ca := g.Resolve(a).(*typegraph.ObjectType)
	cb := g.Resolve(b).(*typegraph.ObjectType)
	pa, pb := ca.Properties(), cb.Properties()
	larger := len(pa)
	if len(pb) > larger {
		larger = len(pb)
	}
	if larger == 0 {
		return false
	}

	common := 0
	for _, p := range pa {
		q, ok := cb.PropertyByName(p.Name)
		if !ok {
			continue
		}
		common++
		if !typeCasesCompatible(g, p.Type, q.Type, ctx.ConflateNumbers) {
			return false
		}
	}
	return float64(common)/float64(larger) >= ctx.RequiredOverlap
}

// classesSimilar is the strict rule: compatible with identical property
// name sets.
func classesSimilar(g *typegraph.TypeGraph, ctx *Context, a, b typegraph.TypeRef) bool {
	ca := g.Resolve(a).(*typegraph.ObjectType)
	cb := g.Resolve(b).(*typegraph.ObjectType)
	if len(ca.Properties()) != len(cb.Properties()) {
		return false
	}
	for _, p := range ca.Properties() {
		if _, ok := cb.PropertyByName(p.Name); !ok {
			return false
		}
	}
	return classesCompatible(g, ctx, a, b)
}

// typeCasesCompatible compares two property types after stripping null
// from union alternatives.
func typeCasesCompatible(g *typegraph.TypeGraph, a, b typegraph.TypeRef, conflateNumbers bool) bool {
	casesA := nonNullCases(g, a)
	casesB := nonNullCases(g, b)
	if len(casesA) == 0 || len(casesB) == 0 {
		return true
	}
	for _, x := range casesA {
		matched := false
		for _, y := range casesB {
			if typegraph.StructurallyCompatible(g, x, g, y, conflateNumbers) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// nonNullCases expands a type into its non-null alternatives.
func nonNullCases(g *typegraph.TypeGraph, ref typegraph.TypeRef) []typegraph.TypeRef {
	t := g.Resolve(ref)
	switch t.Kind() {
	case typegraph.KindNull, typegraph.KindNone:
		return nil
	case typegraph.KindUnion:
		var out []typegraph.TypeRef
		for _, m := range t.(*typegraph.SetOperationType).Members() {
			out = append(out, nonNullCases(g, m)...)
		}
		return out
	default:
		return []typegraph.TypeRef{ref}
	}
}
