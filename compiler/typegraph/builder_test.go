package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

func TestPrimitiveDeduplication(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	a := b.GetPrimitiveType(KindBool, EmptyAttributes(), nil)
	c := b.GetPrimitiveType(KindBool, EmptyAttributes(), nil)
	assert.Equal(t, a, c, "identical primitives must deduplicate")

	d := b.GetPrimitiveType(KindInteger, EmptyAttributes(), nil)
	assert.NotEqual(t, a, d)
}

func TestStringTypeMappingFallsBackToString(t *testing.T) {
	b := NewTypeBuilder(TransformedStringsToString(), false)
	date := b.GetPrimitiveType(KindDate, EmptyAttributes(), nil)
	str := b.GetPrimitiveType(KindString, EmptyAttributes(), nil)
	assert.Equal(t, str, date, "date must fall back to string under the mapping")

	preserve := NewTypeBuilder(PreserveTransformedStrings(), false)
	date2 := preserve.GetPrimitiveType(KindDate, EmptyAttributes(), nil)
	str2 := preserve.GetPrimitiveType(KindString, EmptyAttributes(), nil)
	assert.NotEqual(t, str2, date2)
}

func TestEnumDeduplicationIgnoresCaseOrder(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	a := b.GetEnumType(EmptyAttributes(), []string{"red", "blue"}, nil)
	c := b.GetEnumType(EmptyAttributes(), []string{"blue", "red"}, nil)
	assert.Equal(t, a, c)
}

func TestUniqueClassesAreDistinct(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	intRef := b.GetPrimitiveType(KindInteger, EmptyAttributes(), nil)
	props := []Property{{Name: "x", Type: intRef}}
	a := b.GetUniqueClassType(EmptyAttributes(), true, props, nil)
	c := b.GetUniqueClassType(EmptyAttributes(), true, props, nil)
	assert.NotEqual(t, a, c, "unique classes never deduplicate")

	d := b.GetClassType(EmptyAttributes(), props)
	e := b.GetClassType(EmptyAttributes(), props)
	assert.Equal(t, d, e, "non-unique classes deduplicate by property map")
}

func TestEmptyUnionForbidden(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		ir, ok := r.(*errors.IRError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrNoEmptyUnions, ir.Code)
	}()
	b.GetUnionType(EmptyAttributes(), nil, nil)
}

func TestSetArrayItemsTwiceIsFatal(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	intRef := b.GetPrimitiveType(KindInteger, EmptyAttributes(), nil)
	arr := b.GetUniqueArrayType(EmptyAttributes(), nil)
	b.SetArrayItems(arr, intRef)
	assert.Panics(t, func() { b.SetArrayItems(arr, intRef) })
}

func TestDuplicateTopLevelIsFatal(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	ref := b.GetPrimitiveType(KindBool, EmptyAttributes(), nil)
	b.AddTopLevel("Flag", ref)
	assert.Panics(t, func() { b.AddTopLevel("Flag", ref) })
}

func TestFinishRejectsUncommittedRefs(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	b.ReserveRef()
	assert.Panics(t, func() { b.Finish() })
}

func TestFinishFreezesGraph(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	ref := b.GetPrimitiveType(KindString, EmptyAttributes(), nil)
	b.AddTopLevel("S", ref)
	g := b.Finish()

	require.Equal(t, 1, g.Size())
	got, ok := g.TopLevel("S")
	require.True(t, ok)
	assert.Equal(t, ref, got)
	assert.Equal(t, KindString, g.Resolve(got).Kind())

	assert.Panics(t, func() { b.GetPrimitiveType(KindBool, EmptyAttributes(), nil) },
		"builder must be unusable after finish")
}

func TestIdentityAttributeAfterTheFactIsFatal(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	str := b.GetPrimitiveType(KindString, EmptyAttributes(), nil)
	date := b.GetPrimitiveType(KindDate, EmptyAttributes(), nil)
	transformation := Transformation{
		Source:      str,
		Transformer: &ParseStringTransformer{TargetKind: KindDate},
	}
	assert.Panics(t, func() {
		b.AddAttributes(date, SingleAttribute(TransformationAttribute, transformation))
	})
}

func TestForwardingRefSatisfiedByIntersectionOnHit(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	existing := b.GetPrimitiveType(KindBool, EmptyAttributes(), nil)
	fwd := b.ReserveRef()
	got := b.GetPrimitiveType(KindBool, EmptyAttributes(), &fwd)

	assert.Equal(t, fwd, got)
	inter, ok := b.Resolve(fwd).(*SetOperationType)
	require.True(t, ok)
	assert.Equal(t, KindIntersection, inter.Kind())
	assert.Equal(t, []TypeRef{existing}, inter.Members())
	assert.True(t, b.MadeForwardingIntersection())
}

func TestCheckInvariants(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	intRef := b.GetPrimitiveType(KindInteger, EmptyAttributes(), nil)
	arr := b.GetArrayType(EmptyAttributes(), intRef, nil)
	b.AddTopLevel("Numbers", arr)
	g := b.Finish()
	CheckInvariants(g)
}
