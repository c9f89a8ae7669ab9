package typegraph

import (
	"sort"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// UnionBuilderHooks supplies the use-site-specific construction of
// array and object members: inference unifies sampled shapes, rewrite
// passes reconstitute existing ones.
type UnionBuilderHooks struct {
	// MakeArray builds the single array member from the item refs of
	// every accumulated array. When the union collapses to just the
	// array, forwardingRef carries the caller's reserved ref.
	MakeArray func(b *TypeBuilder, itemRefs []TypeRef, attrs TypeAttributes, forwardingRef *TypeRef) TypeRef
	// MakeObject builds the single object member from every accumulated
	// object-kind ref.
	MakeObject func(b *TypeBuilder, objectRefs []TypeRef, attrs TypeAttributes, forwardingRef *TypeRef) TypeRef
}

// UnionAccumulator is the first phase of union construction: members
// are fed one at a time and partitioned by kind, merging attributes per
// kind under union composition. Conflicts are reconciled when the
// union is built.
type UnionAccumulator struct {
	conflateNumbers bool

	primitiveAttrs map[TypeKind]TypeAttributes

	haveString  bool
	stringAttrs TypeAttributes
	stringTypes StringTypes

	haveEnum  bool
	enumAttrs TypeAttributes
	enumCases map[string]int

	haveArray  bool
	arrayAttrs TypeAttributes
	arrayItems []TypeRef

	haveObject  bool
	objectAttrs TypeAttributes
	objectRefs  []TypeRef

	lostTypeAttributes bool
}

// NewUnionAccumulator creates an empty accumulator.
func NewUnionAccumulator(conflateNumbers bool) *UnionAccumulator {
	return &UnionAccumulator{
		conflateNumbers: conflateNumbers,
		primitiveAttrs:  map[TypeKind]TypeAttributes{},
		stringTypes:     UnrestrictedStringTypes(),
		enumCases:       map[string]int{},
	}
}

// LostTypeAttributes reports whether reconciliation discarded
// attributes, e.g. because any absorbed other members.
func (a *UnionAccumulator) LostTypeAttributes() bool {
	return a.lostTypeAttributes
}

// AddPrimitiveKind feeds a primitive member. Plain strings should go
// through AddStringType so their case information merges.
func (a *UnionAccumulator) AddPrimitiveKind(kind TypeKind, attrs TypeAttributes) {
	errors.MessageAssertf(kind.IsPrimitive(), "%s fed to accumulator as primitive", kind)
	if kind == KindString {
		a.AddStringType(attrs, StringTypesOf(attrs))
		return
	}
	if existing, ok := a.primitiveAttrs[kind]; ok {
		a.primitiveAttrs[kind] = CombineAttributes(CombineUnion, existing, attrs)
	} else {
		a.primitiveAttrs[kind] = attrs
	}
}

// AddStringType feeds a plain string member with its case information.
func (a *UnionAccumulator) AddStringType(attrs TypeAttributes, st StringTypes) {
	attrs = attrs.Without(StringTypesAttribute)
	if a.haveString {
		a.stringAttrs = CombineAttributes(CombineUnion, a.stringAttrs, attrs)
		a.stringTypes = a.stringTypes.Union(st)
	} else {
		a.haveString = true
		a.stringAttrs = attrs
		a.stringTypes = st
	}
}

// AddEnumCases feeds an enum member's cases with their observation
// counts.
func (a *UnionAccumulator) AddEnumCases(cases map[string]int, attrs TypeAttributes) {
	if a.haveEnum {
		a.enumAttrs = CombineAttributes(CombineUnion, a.enumAttrs, attrs)
	} else {
		a.haveEnum = true
		a.enumAttrs = attrs
	}
	for c, n := range cases {
		a.enumCases[c] += n
	}
}

// AddArray feeds an array member by its item type.
func (a *UnionAccumulator) AddArray(items TypeRef, attrs TypeAttributes) {
	if a.haveArray {
		a.arrayAttrs = CombineAttributes(CombineUnion, a.arrayAttrs, attrs)
	} else {
		a.haveArray = true
		a.arrayAttrs = attrs
	}
	a.arrayItems = append(a.arrayItems, items)
}

// AddObject feeds an object-kind member.
func (a *UnionAccumulator) AddObject(ref TypeRef, attrs TypeAttributes) {
	if a.haveObject {
		a.objectAttrs = CombineAttributes(CombineUnion, a.objectAttrs, attrs)
	} else {
		a.haveObject = true
		a.objectAttrs = attrs
	}
	a.objectRefs = append(a.objectRefs, ref)
}

// AddType feeds an existing type. Set operations may not be fed
// directly; flattening recurses through them first.
func (a *UnionAccumulator) AddType(g *TypeGraph, ref TypeRef) {
	t := g.Resolve(ref)
	attrs := g.Attributes(ref)
	switch t := t.(type) {
	case *PrimitiveType:
		a.AddPrimitiveKind(t.kind, attrs)
	case *EnumType:
		cases := make(map[string]int, len(t.cases))
		for _, c := range t.cases {
			cases[c] = 1
		}
		a.AddEnumCases(cases, attrs)
	case *ArrayType:
		a.AddArray(t.Items(), attrs)
	case *ObjectType:
		a.AddObject(ref, attrs)
	default:
		errors.Panicf("%s type fed to union accumulator", t.Kind())
	}
}

// memberPlan is the reconciled shape of the union about to be built.
type memberPlan struct {
	kind  TypeKind
	attrs TypeAttributes
}

// reconcile applies the conflict rules: number conflation, any
// absorption, and enum-versus-string attribute movement.
func (a *UnionAccumulator) reconcile() []memberPlan {
	primitives := make(map[TypeKind]TypeAttributes, len(a.primitiveAttrs))
	for k, v := range a.primitiveAttrs {
		primitives[k] = v
	}

	// none carries no information next to other members.
	memberCount := len(primitives) + countBool(a.haveString) + countBool(a.haveEnum) +
		countBool(a.haveArray) + countBool(a.haveObject)
	if _, ok := primitives[KindNone]; ok && memberCount > 1 {
		delete(primitives, KindNone)
	}

	// any absorbs everything; attributes merge, the rest is lost.
	if anyAttrs, ok := primitives[KindAny]; ok && memberCount > 1 {
		merged := []TypeAttributes{anyAttrs}
		for k, v := range primitives {
			if k != KindAny {
				merged = append(merged, v)
			}
		}
		if a.haveString {
			merged = append(merged, a.stringAttrs)
		}
		if a.haveEnum {
			merged = append(merged, a.enumAttrs)
		}
		if a.haveArray {
			merged = append(merged, a.arrayAttrs)
		}
		if a.haveObject {
			merged = append(merged, a.objectAttrs)
		}
		a.lostTypeAttributes = true
		return []memberPlan{{kind: KindAny, attrs: CombineAttributes(CombineUnion, merged...)}}
	}

	if a.conflateNumbers {
		intAttrs, haveInt := primitives[KindInteger]
		doubleAttrs, haveDouble := primitives[KindDouble]
		if haveInt && haveDouble {
			primitives[KindDouble] = CombineAttributes(CombineUnion, doubleAttrs, intAttrs)
			delete(primitives, KindInteger)
		}
	}

	var plans []memberPlan

	haveEnum := a.haveEnum
	stringAttrs := a.stringAttrs
	stringTypes := a.stringTypes
	if haveEnum && a.haveString {
		// Enum attributes move to the string member; the cases merge
		// into its case information.
		stringAttrs = CombineAttributes(CombineUnion, stringAttrs, a.enumAttrs)
		stringTypes = stringTypes.Union(RestrictedStringTypes(a.enumCases, nil))
		haveEnum = false
	}
	if a.haveString {
		attrs := stringAttrs
		if stringTypes.IsRestricted() || len(stringTypes.Transformations()) > 0 {
			attrs = attrs.With(StringTypesAttribute, stringTypes)
		}
		plans = append(plans, memberPlan{kind: KindString, attrs: attrs})
	}
	if haveEnum {
		plans = append(plans, memberPlan{kind: KindEnum, attrs: a.enumAttrs})
	}

	kinds := make([]TypeKind, 0, len(primitives))
	for k := range primitives {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		plans = append(plans, memberPlan{kind: k, attrs: primitives[k]})
	}

	if a.haveArray {
		plans = append(plans, memberPlan{kind: KindArray, attrs: a.arrayAttrs})
	}
	if a.haveObject {
		plans = append(plans, memberPlan{kind: KindObject, attrs: a.objectAttrs})
	}
	return plans
}

func countBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BuildUnionType is the second phase: it materializes the accumulated
// kinds into member types and the final union. A single remaining kind
// is materialized directly, with the union's own attributes demoted by
// one distance step. With unique set, the union is created fresh
// instead of deduplicated.
func (a *UnionAccumulator) BuildUnionType(b *TypeBuilder, hooks UnionBuilderHooks, unionAttrs TypeAttributes, unique bool, forwardingRef *TypeRef) TypeRef {
	plans := a.reconcile()

	if len(plans) == 0 {
		return b.GetPrimitiveType(KindNone, unionAttrs, forwardingRef)
	}

	buildMember := func(plan memberPlan, fwd *TypeRef) TypeRef {
		switch plan.kind {
		case KindEnum:
			cases := make([]string, 0, len(a.enumCases))
			for c := range a.enumCases {
				cases = append(cases, c)
			}
			sort.Strings(cases)
			return b.GetEnumType(plan.attrs, cases, fwd)
		case KindArray:
			errors.MessageAssert(hooks.MakeArray != nil, "union accumulator holds arrays but no MakeArray hook")
			return hooks.MakeArray(b, a.arrayItems, plan.attrs, fwd)
		case KindObject:
			errors.MessageAssert(hooks.MakeObject != nil, "union accumulator holds objects but no MakeObject hook")
			return hooks.MakeObject(b, a.objectRefs, plan.attrs, fwd)
		default:
			return b.GetPrimitiveType(plan.kind, plan.attrs, fwd)
		}
	}

	if len(plans) == 1 {
		// The single remaining kind is materialized directly, landing
		// on the caller's reserved ref when one was brought.
		member := buildMember(plans[0], forwardingRef)
		if unionAttrs.Size() > 0 {
			b.AddAttributes(member, IncreaseDistanceAttributes(unionAttrs))
		}
		return member
	}

	members := make([]TypeRef, len(plans))
	for i, plan := range plans {
		members[i] = buildMember(plan, nil)
	}
	if unique {
		return b.GetUniqueUnionType(unionAttrs, members, forwardingRef)
	}
	return b.GetUnionType(unionAttrs, members, forwardingRef)
}

// AttributesForTypes walks the nested unions above each leaf of a
// flattening group. A leaf inherits the attributes of every union that
// reaches it along a single parent chain; the attributes of the root
// unions themselves are returned separately for the rebuilt union.
func AttributesForTypes(g *TypeGraph, roots []TypeRef) (map[TypeRef]TypeAttributes, TypeAttributes) {
	rootSet := make(map[TypeRef]struct{}, len(roots))
	for _, r := range roots {
		rootSet[r] = struct{}{}
	}

	// Count how many distinct unions contain each nested union.
	parents := map[TypeRef]map[TypeRef]struct{}{}
	visited := map[TypeRef]struct{}{}
	var walk func(union TypeRef)
	walk = func(union TypeRef) {
		if _, seen := visited[union]; seen {
			return
		}
		visited[union] = struct{}{}
		for _, m := range g.Resolve(union).(*SetOperationType).Members() {
			if g.Resolve(m).Kind() == KindUnion {
				if parents[m] == nil {
					parents[m] = map[TypeRef]struct{}{}
				}
				parents[m][union] = struct{}{}
				walk(m)
			}
		}
	}
	for _, r := range roots {
		walk(r)
	}

	attrsByLeaf := map[TypeRef]TypeAttributes{}
	var descend func(union TypeRef, inherited TypeAttributes)
	seen := map[TypeRef]struct{}{}
	descend = func(union TypeRef, inherited TypeAttributes) {
		if _, dup := seen[union]; dup {
			return
		}
		seen[union] = struct{}{}
		for _, m := range g.Resolve(union).(*SetOperationType).Members() {
			if g.Resolve(m).Kind() == KindUnion {
				passed := inherited
				if _, isRoot := rootSet[m]; !isRoot && len(parents[m]) == 1 {
					// Single-ancestor union: its attributes flow to its
					// leaves.
					passed = CombineAttributes(CombineUnion, passed, g.Attributes(m))
				}
				descend(m, passed)
				continue
			}
			if existing, ok := attrsByLeaf[m]; ok {
				attrsByLeaf[m] = CombineAttributes(CombineUnion, existing, inherited)
			} else {
				attrsByLeaf[m] = inherited
			}
		}
	}
	rootAttrSets := make([]TypeAttributes, 0, len(roots))
	for _, r := range roots {
		rootAttrSets = append(rootAttrSets, g.Attributes(r))
		descend(r, EmptyAttributes())
	}
	return attrsByLeaf, CombineAttributes(CombineUnion, rootAttrSets...)
}
