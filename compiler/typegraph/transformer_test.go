package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringifyReverseRoundTrip(t *testing.T) {
	stringify := &StringifyTransformer{SourceKind: KindDateTime}
	require.False(t, stringify.CanFail())

	doubled := stringify.Reverse().Reverse()
	assert.True(t, doubled.Equals(stringify),
		"a transformer that cannot fail reverses to itself")
}

func TestParseStringReverse(t *testing.T) {
	parse := &ParseStringTransformer{TargetKind: KindUUID}
	assert.True(t, parse.CanFail())

	reversed, ok := parse.Reverse().(*StringifyTransformer)
	require.True(t, ok)
	assert.Equal(t, KindUUID, reversed.SourceKind)
}

func TestChoiceTransformer(t *testing.T) {
	choice := &ChoiceTransformer{Options: []Transformer{
		&ParseStringTransformer{TargetKind: KindDate},
		&ParseStringTransformer{TargetKind: KindDateTime},
	}}
	assert.True(t, choice.CanFail(), "a choice of fallible options can fail")

	mixed := &ChoiceTransformer{Options: []Transformer{
		&ParseStringTransformer{TargetKind: KindDate},
		&StringifyTransformer{SourceKind: KindDate},
	}}
	assert.False(t, mixed.CanFail(), "an infallible option makes the choice infallible")

	doubled := mixed.Reverse().Reverse()
	assert.True(t, doubled.Equals(mixed))
}

func TestDecodeEncodeReverse(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	str := b.GetPrimitiveType(KindString, EmptyAttributes(), nil)

	decode := &DecodeTransformer{
		Source: str,
		Inner:  &StringifyTransformer{SourceKind: KindDate},
	}
	require.False(t, decode.CanFail())
	doubled := decode.Reverse().Reverse()
	assert.True(t, doubled.Equals(decode))
}

func TestTransformationSurvivesRewrite(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	str := b.GetPrimitiveType(KindString, EmptyAttributes(), nil)
	transformation := Transformation{
		Source:      str,
		Transformer: &ParseStringTransformer{TargetKind: KindDate},
	}
	date := b.GetPrimitiveType(KindDate,
		SingleAttribute(TransformationAttribute, transformation), nil)
	b.AddTopLevel("D", date)
	g := b.Finish()

	cloned := g.Clone(rewriteOpts("transform-clone"))
	top, _ := cloned.TopLevel("D")
	got, ok := TransformationOf(cloned.Attributes(top))
	require.True(t, ok)
	assert.Equal(t, KindString, cloned.Resolve(got.Source).Kind())
	assert.True(t, got.Transformer.Equals(transformation.Transformer))
}

func TestTransformationAffectsIdentity(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	str := b.GetPrimitiveType(KindString, EmptyAttributes(), nil)

	plain := b.GetPrimitiveType(KindDate, EmptyAttributes(), nil)
	transformed := b.GetPrimitiveType(KindDate, SingleAttribute(TransformationAttribute, Transformation{
		Source:      str,
		Transformer: &ParseStringTransformer{TargetKind: KindDate},
	}), nil)
	assert.NotEqual(t, plain, transformed,
		"differently transformed types must stay distinct")
}
