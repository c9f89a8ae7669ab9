package passes

import (
	"sort"

	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// offeringEntry is what one intersection member contributes for a
// single type kind.
type offeringEntry struct {
	attrs     typegraph.TypeAttributes
	itemRefs  []typegraph.TypeRef // arrays
	objRefs   []typegraph.TypeRef // object kinds
	enumCases map[string]int
}

func mergeOfferingEntries(a, b offeringEntry) offeringEntry {
	out := offeringEntry{
		attrs:    typegraph.CombineAttributes(typegraph.CombineIntersect, a.attrs, b.attrs),
		itemRefs: append(append([]typegraph.TypeRef(nil), a.itemRefs...), b.itemRefs...),
		objRefs:  append(append([]typegraph.TypeRef(nil), a.objRefs...), b.objRefs...),
	}
	if a.enumCases != nil || b.enumCases != nil {
		out.enumCases = map[string]int{}
		switch {
		case a.enumCases == nil:
			for c, n := range b.enumCases {
				out.enumCases[c] = n
			}
		case b.enumCases == nil:
			for c, n := range a.enumCases {
				out.enumCases[c] = n
			}
		default:
			for c, n := range a.enumCases {
				if m, ok := b.enumCases[c]; ok {
					if m < n {
						out.enumCases[c] = m
					} else {
						out.enumCases[c] = n
					}
				}
			}
		}
	}
	return out
}

// intersectionAccumulator narrows the set of possible kinds as members
// are walked, intersecting attributes per kind.
type intersectionAccumulator struct {
	initialized bool
	allowed     map[typegraph.TypeKind]offeringEntry
	sawAny      bool
}

// offeringOf maps one member to the kinds it admits. A canonical union
// admits each of its members' kinds; any admits everything.
func offeringOf(g *typegraph.TypeGraph, ref typegraph.TypeRef) (map[typegraph.TypeKind]offeringEntry, bool) {
	t := g.Resolve(ref)
	attrs := g.Attributes(ref)
	switch t := t.(type) {
	case *typegraph.PrimitiveType:
		if t.Kind() == typegraph.KindAny {
			return nil, true
		}
		return map[typegraph.TypeKind]offeringEntry{t.Kind(): {attrs: attrs}}, false
	case *typegraph.EnumType:
		cases := make(map[string]int, len(t.Cases()))
		for _, c := range t.Cases() {
			cases[c] = 1
		}
		return map[typegraph.TypeKind]offeringEntry{typegraph.KindEnum: {attrs: attrs, enumCases: cases}}, false
	case *typegraph.ArrayType:
		return map[typegraph.TypeKind]offeringEntry{typegraph.KindArray: {attrs: attrs, itemRefs: []typegraph.TypeRef{t.Items()}}}, false
	case *typegraph.ObjectType:
		return map[typegraph.TypeKind]offeringEntry{typegraph.KindObject: {attrs: attrs, objRefs: []typegraph.TypeRef{ref}}}, false
	case *typegraph.SetOperationType:
		out := map[typegraph.TypeKind]offeringEntry{}
		for _, m := range t.Members() {
			memberOffering, isAny := offeringOf(g, m)
			if isAny {
				return nil, true
			}
			for kind, entry := range memberOffering {
				if existing, ok := out[kind]; ok {
					out[kind] = mergeOfferingEntries(existing, entry)
				} else {
					out[kind] = entry
				}
			}
		}
		return out, false
	default:
		return nil, true
	}
}

func (acc *intersectionAccumulator) intersectWith(offering map[typegraph.TypeKind]offeringEntry, isAny bool) {
	if isAny {
		acc.sawAny = true
		return
	}
	if !acc.initialized {
		acc.initialized = true
		acc.allowed = offering
		return
	}

	narrowed := map[typegraph.TypeKind]offeringEntry{}
	take := func(kind typegraph.TypeKind, a, b offeringEntry) {
		narrowed[kind] = mergeOfferingEntries(a, b)
	}
	for kind, entry := range acc.allowed {
		if other, ok := offering[kind]; ok {
			take(kind, entry, other)
			continue
		}
		switch kind {
		case typegraph.KindInteger:
			// integer narrows double.
			if other, ok := offering[typegraph.KindDouble]; ok {
				take(typegraph.KindInteger, entry, other)
			}
		case typegraph.KindDouble:
			if other, ok := offering[typegraph.KindInteger]; ok {
				take(typegraph.KindInteger, other, entry)
			}
		case typegraph.KindEnum:
			// An enum is a restriction of string.
			if other, ok := offering[typegraph.KindString]; ok {
				take(typegraph.KindEnum, entry, other)
			}
		case typegraph.KindString:
			if other, ok := offering[typegraph.KindEnum]; ok {
				take(typegraph.KindEnum, other, entry)
			}
		}
	}
	acc.allowed = narrowed
}

// ResolveIntersections collapses every resolvable intersection: one
// whose members are all canonical unions or non-unions and not
// themselves intersections. Remaining intersections wait for the next
// fixpoint round.
func ResolveIntersections(g *typegraph.TypeGraph, ctx *Context) (*typegraph.TypeGraph, bool) {
	resolvable := func(ref typegraph.TypeRef) bool {
		t := g.Resolve(ref)
		setOp, ok := t.(*typegraph.SetOperationType)
		if !ok || setOp.Kind() != typegraph.KindIntersection {
			return false
		}
		for _, m := range setOp.Members() {
			switch g.Resolve(m).Kind() {
			case typegraph.KindIntersection:
				return false
			case typegraph.KindUnion:
				if !g.UnionIsCanonical(m) {
					return false
				}
			}
		}
		return true
	}

	// Single-member intersections (forwarding intersections among them)
	// are pure indirections: remapping them onto their member avoids
	// re-creating an intersection for the forwarded ref.
	remap := map[typegraph.TypeRef]typegraph.TypeRef{}
	var groups [][]typegraph.TypeRef
	for _, ref := range g.AllTypesUnordered() {
		if !resolvable(ref) {
			continue
		}
		members := g.Resolve(ref).(*typegraph.SetOperationType).Members()
		if len(members) == 1 {
			if members[0] != ref {
				remap[ref] = members[0]
			}
			continue
		}
		groups = append(groups, []typegraph.TypeRef{ref})
	}
	if len(remap) > 0 {
		ctx.Logger.Debug("collapsing forwarding intersections", zap.Int("count", len(remap)))
		return g.RemapTypes(ctx.rewriteOptions("resolve-intersections"), remap), true
	}
	if len(groups) == 0 {
		return g, false
	}

	ctx.Logger.Debug("resolving intersections", zap.Int("count", len(groups)))

	replacer := func(group []typegraph.TypeRef, rec *typegraph.GraphReconstituter, fwd typegraph.TypeRef) typegraph.TypeRef {
		intersection := g.Resolve(group[0]).(*typegraph.SetOperationType)
		acc := &intersectionAccumulator{}
		for _, m := range intersection.Members() {
			offering, isAny := offeringOf(g, m)
			acc.intersectWith(offering, isAny)
		}

		b := rec.Builder()
		interAttrs := rec.ReconstituteAttributes(g.Attributes(group[0]))

		if !acc.initialized {
			// Only unconstrained members: the intersection is any.
			return b.GetPrimitiveType(typegraph.KindAny, interAttrs, &fwd)
		}

		union := typegraph.NewUnionAccumulator(ctx.ConflateNumbers)
		var arrayEntry, objectEntry *offeringEntry
		kinds := make([]typegraph.TypeKind, 0, len(acc.allowed))
		for kind := range acc.allowed {
			kinds = append(kinds, kind)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		for _, kind := range kinds {
			entry := acc.allowed[kind]
			attrs := rec.ReconstituteAttributes(entry.attrs)
			switch kind {
			case typegraph.KindArray:
				e := entry
				arrayEntry = &e
				union.AddArray(typegraph.TypeRef{}, attrs)
			case typegraph.KindObject:
				e := entry
				objectEntry = &e
				union.AddObject(typegraph.TypeRef{}, attrs)
			case typegraph.KindEnum:
				union.AddEnumCases(entry.enumCases, attrs)
			case typegraph.KindString:
				union.AddStringType(attrs, typegraph.StringTypesOf(attrs))
			default:
				union.AddPrimitiveKind(kind, attrs)
			}
		}

		hooks := typegraph.UnionBuilderHooks{
			MakeArray: func(b *typegraph.TypeBuilder, _ []typegraph.TypeRef, attrs typegraph.TypeAttributes, fwd *typegraph.TypeRef) typegraph.TypeRef {
				result := b.GetUniqueArrayType(attrs, fwd)
				items := uniqueRefs(rec.ReconstituteMany(arrayEntry.itemRefs))
				var itemRef typegraph.TypeRef
				if len(items) == 1 {
					itemRef = items[0]
				} else {
					// Item sets intersect recursively on the next round.
					itemRef = b.GetIntersectionType(typegraph.EmptyAttributes(), items, nil)
				}
				b.SetArrayItems(result, itemRef)
				return result
			},
			MakeObject: func(b *typegraph.TypeBuilder, _ []typegraph.TypeRef, attrs typegraph.TypeAttributes, fwd *typegraph.TypeRef) typegraph.TypeRef {
				return intersectObjects(rec, objectEntry.objRefs, attrs, fwd)
			},
		}
		return union.BuildUnionType(b, hooks, interAttrs, false, &fwd)
	}

	return g.Rewrite(ctx.rewriteOptions("resolve-intersections"), groups, replacer), true
}

// intersectObjects merges object constraints: a property present on
// either side becomes present, typed as the union of its contributed
// types; it stays optional only when every side that mentions it has
// it optional.
func intersectObjects(rec *typegraph.GraphReconstituter, objectRefs []typegraph.TypeRef, attrs typegraph.TypeAttributes, forwardingRef *typegraph.TypeRef) typegraph.TypeRef {
	g := rec.Source()
	b := rec.Builder()

	type propAcc struct {
		refs     []typegraph.TypeRef
		optional bool
	}
	props := map[string]*propAcc{}
	var order []string
	var additionals []typegraph.TypeRef

	for _, objRef := range objectRefs {
		obj := g.Resolve(objRef).(*typegraph.ObjectType)
		for _, p := range obj.Properties() {
			acc, ok := props[p.Name]
			if !ok {
				acc = &propAcc{optional: true}
				props[p.Name] = acc
				order = append(order, p.Name)
			}
			acc.refs = append(acc.refs, p.Type)
			acc.optional = acc.optional && p.Optional
		}
		if add, ok := obj.AdditionalProperties(); ok {
			additionals = append(additionals, add)
		}
	}
	sort.Strings(order)

	result := b.GetUniqueClassType(attrs, true, nil, forwardingRef)
	properties := make([]typegraph.Property, 0, len(order))
	for _, name := range order {
		acc := props[name]
		properties = append(properties, typegraph.Property{
			Name:     name,
			Type:     unionOf(b, rec.ReconstituteMany(acc.refs)),
			Optional: acc.optional,
		})
	}
	b.SetObjectProperties(result, properties, nil)
	return result
}
