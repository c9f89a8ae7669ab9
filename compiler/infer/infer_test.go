package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph-dev/typegraph/compiler/input"
	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

func newBuilder() *typegraph.TypeBuilder {
	return typegraph.NewTypeBuilder(typegraph.PreserveTransformedStrings(), true)
}

func TestInferObjectWithOptionalProperty(t *testing.T) {
	b := newBuilder()
	inf := New(b, DefaultOptions())

	inf.InferTopLevel("person", input.SequenceOf(
		input.Object(
			input.Member{Key: "name", Value: input.UninternedString("Alice Johnson is a person")},
			input.Member{Key: "age", Value: input.Integer64(30)},
		),
		input.Object(
			input.Member{Key: "name", Value: input.UninternedString("Bob Smith is a person too")},
		),
	))
	g := b.Finish()

	top, ok := g.TopLevel("person")
	require.True(t, ok)
	class, ok := g.Resolve(top).(*typegraph.ObjectType)
	require.True(t, ok)

	name, ok := class.PropertyByName("name")
	require.True(t, ok)
	assert.False(t, name.Optional, "present in every sample")
	assert.Equal(t, typegraph.KindString, g.Resolve(name.Type).Kind())

	age, ok := class.PropertyByName("age")
	require.True(t, ok)
	assert.True(t, age.Optional, "absent in one sample")
	assert.Equal(t, typegraph.KindInteger, g.Resolve(age.Type).Kind())
}

func TestInferMixedValuesBuildUnion(t *testing.T) {
	b := newBuilder()
	inf := New(b, DefaultOptions())

	inf.InferTopLevel("mixed", input.SequenceOf(
		input.Integer64(1),
		input.Boolean(true),
		input.Null(),
	))
	g := b.Finish()

	top, _ := g.TopLevel("mixed")
	union, ok := g.Resolve(top).(*typegraph.SetOperationType)
	require.True(t, ok)
	assert.Len(t, union.Members(), 3)
	assert.True(t, g.IsNullable(top))
}

func TestInferEnumCandidates(t *testing.T) {
	b := newBuilder()
	inf := New(b, DefaultOptions())

	inf.InferTopLevel("color", input.SequenceOf(
		input.String("red"),
		input.String("red"),
		input.String("blue"),
	))
	g := b.Finish()

	top, _ := g.TopLevel("color")
	require.Equal(t, typegraph.KindString, g.Resolve(top).Kind())
	st := typegraph.StringTypesOf(g.Attributes(top))
	require.True(t, st.IsRestricted())
	assert.Equal(t, map[string]int{"red": 2, "blue": 1}, st.Cases())
}

func TestInferRecognizesFormats(t *testing.T) {
	b := newBuilder()
	inf := New(b, DefaultOptions())

	inf.InferTopLevel("when", input.SequenceOf(
		input.String("2021-04-01"),
		input.String("2022-11-30"),
	))
	g := b.Finish()

	top, _ := g.TopLevel("when")
	require.Equal(t, typegraph.KindString, g.Resolve(top).Kind())
	st := typegraph.StringTypesOf(g.Attributes(top))
	assert.Equal(t, []typegraph.TypeKind{typegraph.KindDate}, st.Transformations())
}

func TestInferArraysUnifyItems(t *testing.T) {
	b := newBuilder()
	inf := New(b, DefaultOptions())

	inf.InferTopLevel("rows", input.SequenceOf(
		input.Array(input.Integer64(1), input.Integer64(2)),
		input.Array(input.Integer64(3)),
	))
	g := b.Finish()

	top, _ := g.TopLevel("rows")
	array, ok := g.Resolve(top).(*typegraph.ArrayType)
	require.True(t, ok)
	assert.Equal(t, typegraph.KindInteger, g.Resolve(array.Items()).Kind())
}

func TestInferLargeObjectCollapsesToMap(t *testing.T) {
	opts := DefaultOptions()
	opts.MapPropertyThreshold = 3
	b := newBuilder()
	inf := New(b, opts)

	inf.InferTopLevel("lookup", input.SequenceOf(
		input.Object(
			input.Member{Key: "k1", Value: input.Integer64(1)},
			input.Member{Key: "k2", Value: input.Integer64(2)},
			input.Member{Key: "k3", Value: input.Integer64(3)},
		),
	))
	g := b.Finish()

	top, _ := g.TopLevel("lookup")
	mapType, ok := g.Resolve(top).(*typegraph.ObjectType)
	require.True(t, ok)
	assert.Equal(t, typegraph.KindMap, mapType.Kind())
}

func TestInferDeferredRef(t *testing.T) {
	b := newBuilder()

	other := New(b, DefaultOptions())
	other.InferTopLevel("Other", input.SequenceOf(input.Integer64(7)))

	inf := New(b, DefaultOptions())
	inf.InferTopLevel("Main", input.SequenceOf(
		input.Object(input.Member{Key: "$ref", Value: input.String("#/definitions/Other")}),
	))
	g := b.Finish()

	top, _ := g.TopLevel("Main")
	inter, ok := g.Resolve(top).(*typegraph.SetOperationType)
	require.True(t, ok, "a $ref shape builds a deferred intersection")
	require.Equal(t, typegraph.KindIntersection, inter.Kind())

	target, _ := g.TopLevel("Other")
	assert.Equal(t, []typegraph.TypeRef{target}, inter.Members())
}

func TestRecognizeFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected typegraph.TypeKind
		ok       bool
	}{
		{"2020-01-02", typegraph.KindDate, true},
		{"12:34:56", typegraph.KindTime, true},
		{"2020-01-02T12:34:56Z", typegraph.KindDateTime, true},
		{"123e4567-e89b-12d3-a456-426614174000", typegraph.KindUUID, true},
		{"https://example.com/x", typegraph.KindURI, true},
		{"-42", typegraph.KindIntegerString, true},
		{"true", typegraph.KindBoolString, true},
		{"hello world", typegraph.KindNone, false},
	}

	for _, tt := range tests {
		kind, ok := recognizeFormat(tt.input)
		if ok != tt.ok || kind != tt.expected {
			t.Errorf("recognizeFormat(%q) = (%v, %v), want (%v, %v)",
				tt.input, kind, ok, tt.expected, tt.ok)
		}
	}
}

func TestProvenanceAttached(t *testing.T) {
	b := newBuilder()
	inf := New(b, DefaultOptions())
	inf.InferTopLevel("thing", input.SequenceOf(
		input.Object(input.Member{Key: "x", Value: input.Integer64(1)}),
	))
	g := b.Finish()

	top, _ := g.TopLevel("thing")
	value, ok := g.Attributes(top).Get(typegraph.ProvenanceAttribute)
	require.True(t, ok)
	sources := value.(typegraph.StringSet)
	assert.Contains(t, sources, inf.SourceID())
}
