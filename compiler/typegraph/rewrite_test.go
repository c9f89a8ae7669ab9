package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rewriteOpts(title string) RewriteOptions {
	return RewriteOptions{Title: title, StringTypeMapping: PreserveTransformedStrings()}
}

func TestRemapReplacesOccurrences(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	intRef := b.GetPrimitiveType(KindInteger, WithName("count", 0), nil)
	dblRef := b.GetPrimitiveType(KindDouble, WithName("amount", 0), nil)
	class := b.GetUniqueClassType(EmptyAttributes(), true, []Property{
		{Name: "x", Type: intRef},
		{Name: "y", Type: dblRef},
	}, nil)
	b.AddTopLevel("T", class)
	g := b.Finish()

	rewritten := g.RemapTypes(rewriteOpts("test-remap"), map[TypeRef]TypeRef{intRef: dblRef})

	top, ok := rewritten.TopLevel("T")
	require.True(t, ok)
	newClass := rewritten.Resolve(top).(*ObjectType)
	x, ok := newClass.PropertyByName("x")
	require.True(t, ok)
	y, ok := newClass.PropertyByName("y")
	require.True(t, ok)
	assert.Equal(t, KindDouble, rewritten.Resolve(x.Type).Kind())
	assert.Equal(t, x.Type, y.Type, "both properties point at the remap target")

	// The source's attributes were unioned onto the target.
	names, ok := TypeNamesOf(rewritten.Attributes(x.Type))
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"count", "amount"}, names.Names())
}

func TestReplaceCollapsesGroup(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	intRef := b.GetPrimitiveType(KindInteger, EmptyAttributes(), nil)
	strRef := b.GetPrimitiveType(KindString, EmptyAttributes(), nil)
	class := b.GetUniqueClassType(EmptyAttributes(), true, []Property{
		{Name: "a", Type: intRef},
		{Name: "b", Type: strRef},
	}, nil)
	b.AddTopLevel("T", class)
	g := b.Finish()

	replacer := func(group []TypeRef, rec *GraphReconstituter, fwd TypeRef) TypeRef {
		return rec.Builder().GetPrimitiveType(KindBool, EmptyAttributes(), &fwd)
	}
	rewritten := g.Rewrite(rewriteOpts("test-replace"), [][]TypeRef{{intRef, strRef}}, replacer)

	top, _ := rewritten.TopLevel("T")
	newClass := rewritten.Resolve(top).(*ObjectType)
	a, _ := newClass.PropertyByName("a")
	bProp, _ := newClass.PropertyByName("b")
	assert.Equal(t, KindBool, rewritten.Resolve(a.Type).Kind())
	assert.Equal(t, a.Type, bProp.Type, "the whole group collapses to one type")
}

func TestRewritePreservesCycles(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	node := b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
	b.SetObjectProperties(node, []Property{{Name: "next", Type: node}}, nil)
	b.AddTopLevel("Node", node)
	g := b.Finish()

	cloned := g.Clone(rewriteOpts("test-clone"))
	top, ok := cloned.TopLevel("Node")
	require.True(t, ok)
	newClass := cloned.Resolve(top).(*ObjectType)
	next, ok := newClass.PropertyByName("next")
	require.True(t, ok)
	assert.Equal(t, top, next.Type, "self reference survives reconstitution")
}

func TestRewriteTotality(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	for _, name := range []string{"A", "B", "C"} {
		b.AddTopLevel(name, b.GetEnumType(EmptyAttributes(), []string{name}, nil))
	}
	g := b.Finish()

	cloned := g.Clone(rewriteOpts("test-totality"))
	assert.Equal(t, g.TopLevelNames(), cloned.TopLevelNames())
	for _, name := range g.TopLevelNames() {
		oldRef, _ := g.TopLevel(name)
		newRef, ok := cloned.TopLevel(name)
		require.True(t, ok, "top-level %s lost", name)
		assert.True(t, StructurallyCompatible(g, oldRef, cloned, newRef, false))
	}
}

func TestRewriteReconstitutesAttributes(t *testing.T) {
	b := NewTypeBuilder(PreserveTransformedStrings(), false)
	ref := b.GetPrimitiveType(KindString, WithName("Title", 0), nil)
	b.AddTopLevel("S", ref)
	g := b.Finish()

	cloned := g.Clone(rewriteOpts("test-attrs"))
	top, _ := cloned.TopLevel("S")
	names, ok := TypeNamesOf(cloned.Attributes(top))
	require.True(t, ok)
	assert.Equal(t, []string{"Title"}, names.Names())
}
