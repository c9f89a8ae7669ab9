package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minMaxAttr(min, max *float64) TypeAttributes {
	return SingleAttribute(MinMaxAttribute, MinMax{Min: min, Max: max})
}

func f(v float64) *float64 { return &v }

func TestIntegerPromotionUnderConflation(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)

	acc := NewUnionAccumulator(true)
	acc.AddPrimitiveKind(KindInteger, minMaxAttr(f(0), nil))
	acc.AddPrimitiveKind(KindDouble, minMaxAttr(f(-1), nil))

	ref := acc.BuildUnionType(b, UnionBuilderHooks{}, EmptyAttributes(), false, nil)
	require.Equal(t, KindDouble, b.Resolve(ref).Kind(),
		"integer promotes to double under conflation")

	value, ok := b.AttributesOf(ref).Get(MinMaxAttribute)
	require.True(t, ok)
	mm := value.(MinMax)
	require.NotNil(t, mm.Min)
	assert.Equal(t, -1.0, *mm.Min, "the wider minimum wins under union")
}

func TestNoConflationKeepsBothNumbers(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)

	acc := NewUnionAccumulator(false)
	acc.AddPrimitiveKind(KindInteger, EmptyAttributes())
	acc.AddPrimitiveKind(KindDouble, EmptyAttributes())

	ref := acc.BuildUnionType(b, UnionBuilderHooks{}, EmptyAttributes(), false, nil)
	union, ok := b.Resolve(ref).(*SetOperationType)
	require.True(t, ok)
	assert.Len(t, union.Members(), 2)
}

func TestAnyAbsorbsEverything(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)

	acc := NewUnionAccumulator(false)
	acc.AddPrimitiveKind(KindAny, EmptyAttributes())
	acc.AddPrimitiveKind(KindInteger, EmptyAttributes())
	acc.AddPrimitiveKind(KindBool, EmptyAttributes())

	ref := acc.BuildUnionType(b, UnionBuilderHooks{}, EmptyAttributes(), false, nil)
	assert.Equal(t, KindAny, b.Resolve(ref).Kind())
	assert.True(t, acc.LostTypeAttributes())
}

func TestNoneDisappearsNextToOthers(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)

	acc := NewUnionAccumulator(false)
	acc.AddPrimitiveKind(KindNone, EmptyAttributes())
	acc.AddPrimitiveKind(KindBool, EmptyAttributes())

	ref := acc.BuildUnionType(b, UnionBuilderHooks{}, EmptyAttributes(), false, nil)
	assert.Equal(t, KindBool, b.Resolve(ref).Kind())
}

func TestEmptyAccumulatorYieldsNone(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	acc := NewUnionAccumulator(false)
	ref := acc.BuildUnionType(b, UnionBuilderHooks{}, EmptyAttributes(), false, nil)
	assert.Equal(t, KindNone, b.Resolve(ref).Kind())
}

func TestEnumAttributesMoveToString(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)

	acc := NewUnionAccumulator(false)
	acc.AddEnumCases(map[string]int{"red": 1}, WithName("Color", 0))
	acc.AddStringType(EmptyAttributes(), UnrestrictedStringTypes())

	ref := acc.BuildUnionType(b, UnionBuilderHooks{}, EmptyAttributes(), false, nil)
	require.Equal(t, KindString, b.Resolve(ref).Kind())
	names, ok := TypeNamesOf(b.AttributesOf(ref))
	require.True(t, ok)
	assert.Equal(t, []string{"Color"}, names.Names())
}

func TestEnumAloneStaysEnum(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)

	acc := NewUnionAccumulator(false)
	acc.AddEnumCases(map[string]int{"red": 1, "blue": 2}, EmptyAttributes())

	ref := acc.BuildUnionType(b, UnionBuilderHooks{}, EmptyAttributes(), false, nil)
	enum, ok := b.Resolve(ref).(*EnumType)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"red", "blue"}, enum.Cases())
}

func TestSingleKindTakesUnionAttributesAtDistance(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)

	acc := NewUnionAccumulator(false)
	acc.AddPrimitiveKind(KindBool, EmptyAttributes())

	ref := acc.BuildUnionType(b, UnionBuilderHooks{}, WithName("maybe", 0), false, nil)
	names, ok := TypeNamesOf(b.AttributesOf(ref))
	require.True(t, ok)
	assert.Equal(t, 1, names.Distance(), "union attributes demote by one step")
}

func TestAttributesForTypesInheritsSingleAncestorUnions(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	intRef := b.GetPrimitiveType(KindInteger, EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(KindString, EmptyAttributes(), nil)
	inner := b.GetUnionType(WithName("inner", 0), []TypeRef{intRef, strRef}, nil)
	boolRef := b.GetPrimitiveType(KindBool, EmptyAttributes(), nil)
	outer := b.GetUnionType(WithName("outer", 0), []TypeRef{inner, boolRef}, nil)
	b.AddTopLevel("T", outer)
	g := b.Finish()

	attrsByLeaf, rootAttrs := AttributesForTypes(g, []TypeRef{outer})

	leafNames, ok := TypeNamesOf(attrsByLeaf[intRef])
	require.True(t, ok, "leaves under a single-ancestor union inherit its attributes")
	assert.Equal(t, []string{"inner"}, leafNames.Names())

	rootNames, ok := TypeNamesOf(rootAttrs)
	require.True(t, ok)
	assert.Equal(t, []string{"outer"}, rootNames.Names())
}
