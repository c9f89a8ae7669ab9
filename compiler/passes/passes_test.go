package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

func testContext() *Context {
	ctx := DefaultContext(nil)
	ctx.CanonicalOrder = true
	return ctx
}

func newBuilder() *typegraph.TypeBuilder {
	return typegraph.NewTypeBuilder(typegraph.PreserveTransformedStrings(), true)
}

func TestFlattenUnionsNested(t *testing.T) {
	b := newBuilder()
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(typegraph.KindString, typegraph.EmptyAttributes(), nil)
	boolRef := b.GetPrimitiveType(typegraph.KindBool, typegraph.EmptyAttributes(), nil)
	inner := b.GetUnionType(typegraph.EmptyAttributes(), []typegraph.TypeRef{intRef, strRef}, nil)
	outer := b.GetUnionType(typegraph.EmptyAttributes(), []typegraph.TypeRef{inner, boolRef}, nil)
	b.AddTopLevel("T", outer)
	g := b.Finish()

	ctx := testContext()
	flattened, changed := FlattenUnions(g, ctx)
	require.True(t, changed)

	top, _ := flattened.TopLevel("T")
	union, ok := flattened.Resolve(top).(*typegraph.SetOperationType)
	require.True(t, ok)
	assert.Len(t, union.Members(), 3)
	assert.True(t, flattened.UnionIsCanonical(top))

	// Idempotence: a second run reports no change.
	_, changedAgain := FlattenUnions(flattened, ctx)
	assert.False(t, changedAgain)
}

func TestNormalizeResolvesIntersectionOfObjects(t *testing.T) {
	b := newBuilder()
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(typegraph.KindString, typegraph.EmptyAttributes(), nil)

	left := b.GetUniqueClassType(typegraph.EmptyAttributes(), true, []typegraph.Property{
		{Name: "name", Type: strRef},
	}, nil)
	right := b.GetUniqueClassType(typegraph.EmptyAttributes(), true, []typegraph.Property{
		{Name: "age", Type: intRef},
		{Name: "name", Type: strRef, Optional: true},
	}, nil)
	inter := b.GetIntersectionType(typegraph.EmptyAttributes(), []typegraph.TypeRef{left, right}, nil)
	b.AddTopLevel("T", inter)
	g := b.Finish()

	normalized, err := Normalize(g, testContext(), OptionalPasses{})
	require.NoError(t, err)

	top, _ := normalized.TopLevel("T")
	class, ok := normalized.Resolve(top).(*typegraph.ObjectType)
	require.True(t, ok, "intersection of two objects resolves to a class, got %s",
		normalized.Resolve(top).Kind())

	name, ok := class.PropertyByName("name")
	require.True(t, ok)
	assert.False(t, name.Optional, "required on either side stays required")
	assert.Equal(t, typegraph.KindString, normalized.Resolve(name.Type).Kind())

	age, ok := class.PropertyByName("age")
	require.True(t, ok, "a property present on either side becomes present")
	assert.False(t, age.Optional)
	assert.Equal(t, typegraph.KindInteger, normalized.Resolve(age.Type).Kind())

	// No resolvable intersections remain.
	for _, ref := range normalized.AllTypesUnordered() {
		assert.NotEqual(t, typegraph.KindIntersection, normalized.Resolve(ref).Kind())
	}
}

func TestNormalizeResolvesPrimitiveIntersection(t *testing.T) {
	b := newBuilder()
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(typegraph.KindString, typegraph.EmptyAttributes(), nil)
	boolRef := b.GetPrimitiveType(typegraph.KindBool, typegraph.EmptyAttributes(), nil)
	u1 := b.GetUnionType(typegraph.EmptyAttributes(), []typegraph.TypeRef{intRef, strRef}, nil)
	u2 := b.GetUnionType(typegraph.EmptyAttributes(), []typegraph.TypeRef{intRef, boolRef}, nil)
	inter := b.GetIntersectionType(typegraph.EmptyAttributes(), []typegraph.TypeRef{u1, u2}, nil)
	b.AddTopLevel("T", inter)
	g := b.Finish()

	normalized, err := Normalize(g, testContext(), OptionalPasses{})
	require.NoError(t, err)

	top, _ := normalized.TopLevel("T")
	assert.Equal(t, typegraph.KindInteger, normalized.Resolve(top).Kind(),
		"intersecting int|string with int|bool leaves int")
}

func TestInferMapsDigitKeys(t *testing.T) {
	b := newBuilder()
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	class := b.GetUniqueClassType(typegraph.EmptyAttributes(), true, []typegraph.Property{
		{Name: "0", Type: intRef},
		{Name: "1", Type: intRef},
		{Name: "2", Type: intRef},
	}, nil)
	b.AddTopLevel("T", class)
	g := b.Finish()

	rewritten, changed := InferMaps(g, testContext())
	require.True(t, changed, "all-digit keys convert to a map")

	top, _ := rewritten.TopLevel("T")
	mapType, ok := rewritten.Resolve(top).(*typegraph.ObjectType)
	require.True(t, ok)
	require.Equal(t, typegraph.KindMap, mapType.Kind())
	values, ok := mapType.AdditionalProperties()
	require.True(t, ok)
	assert.Equal(t, typegraph.KindInteger, rewritten.Resolve(values).Kind())
}

func TestInferMapsKeepsNaturalSchemas(t *testing.T) {
	b := newBuilder()
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(typegraph.KindString, typegraph.EmptyAttributes(), nil)
	class := b.GetUniqueClassType(typegraph.EmptyAttributes(), true, []typegraph.Property{
		{Name: "name", Type: strRef},
		{Name: "description", Type: strRef},
		{Name: "count", Type: intRef},
	}, nil)
	b.AddTopLevel("T", class)
	g := b.Finish()

	_, changed := InferMaps(g, testContext())
	assert.False(t, changed, "natural property names stay a class")
}

func TestExpandStringsAllMode(t *testing.T) {
	b := newBuilder()
	st := typegraph.RestrictedStringTypes(map[string]int{"red": 3, "green": 2, "blue": 5}, nil)
	str := b.GetStringType(typegraph.EmptyAttributes(), &st, nil)
	b.AddTopLevel("Color", str)
	g := b.Finish()

	ctx := testContext()
	ctx.EnumInference = EnumInferenceAll
	normalized, err := Normalize(g, ctx, OptionalPasses{ExpandStrings: true})
	require.NoError(t, err)

	top, _ := normalized.TopLevel("Color")
	enum, ok := normalized.Resolve(top).(*typegraph.EnumType)
	require.True(t, ok, "all mode expands cases to an enum, got %s", normalized.Resolve(top).Kind())
	assert.ElementsMatch(t, []string{"red", "green", "blue"}, enum.Cases())
}

func TestExpandStringsNoneMode(t *testing.T) {
	b := newBuilder()
	st := typegraph.RestrictedStringTypes(map[string]int{"red": 3}, nil)
	str := b.GetStringType(typegraph.EmptyAttributes(), &st, nil)
	b.AddTopLevel("Color", str)
	g := b.Finish()

	ctx := testContext()
	ctx.EnumInference = EnumInferenceNone
	normalized, err := Normalize(g, ctx, OptionalPasses{ExpandStrings: true})
	require.NoError(t, err)

	top, _ := normalized.TopLevel("Color")
	assert.Equal(t, typegraph.KindString, normalized.Resolve(top).Kind())
}

func TestExpandStringsSplitsTransformations(t *testing.T) {
	b := newBuilder()
	st := typegraph.RestrictedStringTypes(nil, []typegraph.TypeKind{typegraph.KindDate})
	str := b.GetStringType(typegraph.EmptyAttributes(), &st, nil)
	b.AddTopLevel("When", str)
	g := b.Finish()

	ctx := testContext()
	normalized, err := Normalize(g, ctx, OptionalPasses{ExpandStrings: true})
	require.NoError(t, err)

	top, _ := normalized.TopLevel("When")
	assert.Equal(t, typegraph.KindDate, normalized.Resolve(top).Kind(),
		"a string observed only as dates becomes the date primitive")
}

func TestCombineClassesMergesSimilar(t *testing.T) {
	b := newBuilder()
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(typegraph.KindString, typegraph.EmptyAttributes(), nil)

	makeClass := func() typegraph.TypeRef {
		return b.GetUniqueClassType(typegraph.EmptyAttributes(), true, []typegraph.Property{
			{Name: "id", Type: intRef},
			{Name: "name", Type: strRef},
			{Name: "email", Type: strRef},
			{Name: "age", Type: intRef},
		}, nil)
	}
	first := makeClass()
	second := makeClass()
	other := b.GetUniqueClassType(typegraph.EmptyAttributes(), true, []typegraph.Property{
		{Name: "temperature", Type: intRef},
		{Name: "humidity", Type: intRef},
	}, nil)
	b.AddTopLevel("A", first)
	b.AddTopLevel("B", second)
	b.AddTopLevel("C", other)
	g := b.Finish()

	normalized, err := Normalize(g, testContext(), OptionalPasses{CombineClasses: true})
	require.NoError(t, err)

	refA, _ := normalized.TopLevel("A")
	refB, _ := normalized.TopLevel("B")
	refC, _ := normalized.TopLevel("C")
	assert.Equal(t, refA, refB, "similar classes merge into one")
	assert.NotEqual(t, refA, refC, "dissimilar classes stay apart")

	merged := normalized.Resolve(refA).(*typegraph.ObjectType)
	assert.Len(t, merged.Properties(), 4)
}

func TestReplaceObjectTypeVariants(t *testing.T) {
	b := newBuilder()
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(typegraph.KindString, typegraph.EmptyAttributes(), nil)
	anyRef := b.GetPrimitiveType(typegraph.KindAny, typegraph.EmptyAttributes(), nil)

	propsOnly := b.GetUniqueObjectType(typegraph.EmptyAttributes(),
		[]typegraph.Property{{Name: "a", Type: intRef}}, nil, nil)
	additionalOnly := b.GetUniqueObjectType(typegraph.EmptyAttributes(), []typegraph.Property{}, &strRef, nil)
	additionalAny := b.GetUniqueObjectType(typegraph.EmptyAttributes(),
		[]typegraph.Property{{Name: "b", Type: intRef}}, &anyRef, nil)

	b.AddTopLevel("Props", propsOnly)
	b.AddTopLevel("Add", additionalOnly)
	b.AddTopLevel("Mixed", additionalAny)
	g := b.Finish()

	ctx := testContext()
	rewritten, changed := ReplaceObjectType(g, ctx)
	require.True(t, changed)

	props, _ := rewritten.TopLevel("Props")
	assert.Equal(t, typegraph.KindClass, rewritten.Resolve(props).Kind())

	add, _ := rewritten.TopLevel("Add")
	assert.Equal(t, typegraph.KindMap, rewritten.Resolve(add).Kind())

	mixed, _ := rewritten.TopLevel("Mixed")
	assert.Equal(t, typegraph.KindClass, rewritten.Resolve(mixed).Kind(),
		"an any additional-properties type drops into a class")
	assert.True(t, ctx.LostTypeAttributes,
		"dropping the additional constraint must raise the lost flag")
}

func TestFlattenStringsCoalesces(t *testing.T) {
	b := newBuilder()
	strRef := b.GetPrimitiveType(typegraph.KindString, typegraph.EmptyAttributes(), nil)
	dateRef := b.GetPrimitiveType(typegraph.KindDate, typegraph.EmptyAttributes(), nil)
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	union := b.GetUnionType(typegraph.EmptyAttributes(), []typegraph.TypeRef{strRef, dateRef, intRef}, nil)
	b.AddTopLevel("T", union)
	g := b.Finish()

	rewritten, changed := FlattenStrings(g, testContext())
	require.True(t, changed)

	top, _ := rewritten.TopLevel("T")
	result := rewritten.Resolve(top).(*typegraph.SetOperationType)
	require.Len(t, result.Members(), 2)
	kinds := map[typegraph.TypeKind]bool{}
	for _, m := range result.Members() {
		kinds[rewritten.Resolve(m).Kind()] = true
	}
	assert.True(t, kinds[typegraph.KindString])
	assert.True(t, kinds[typegraph.KindInteger])
	assert.False(t, kinds[typegraph.KindDate], "refinements coalesce into the plain string")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	b := newBuilder()
	intRef := b.GetPrimitiveType(typegraph.KindInteger, typegraph.EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(typegraph.KindString, typegraph.EmptyAttributes(), nil)
	inner := b.GetUnionType(typegraph.EmptyAttributes(), []typegraph.TypeRef{intRef, strRef}, nil)
	class := b.GetUniqueClassType(typegraph.EmptyAttributes(), true, []typegraph.Property{
		{Name: "value", Type: inner},
	}, nil)
	b.AddTopLevel("T", class)
	g := b.Finish()

	ctx := testContext()
	once, err := Normalize(g, ctx, AllOptionalPasses())
	require.NoError(t, err)
	twice, err := Normalize(once, ctx, AllOptionalPasses())
	require.NoError(t, err)

	assert.Equal(t, once.Size(), twice.Size())
	refOnce, _ := once.TopLevel("T")
	refTwice, _ := twice.TopLevel("T")
	assert.True(t, typegraph.StructurallyCompatible(once, refOnce, twice, refTwice, false))
}
