package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

func classOnlyPolicy(g *TypeGraph, forwardable bool) DeclarationPolicy {
	policy := DeclarationPolicy{
		ChildrenOf: func(ref TypeRef) []TypeRef { return g.Children(ref) },
		NeedsDeclaration: func(ref TypeRef) bool {
			return g.Resolve(ref).Kind() == KindClass
		},
	}
	if forwardable {
		policy.CanBeForwardDeclared = func(TypeRef) bool { return true }
	}
	return policy
}

func TestDeclarationsAcyclic(t *testing.T) {
	var outer, inner TypeRef
	g := buildGraph(t, func(b *TypeBuilder) {
		inner = b.GetUniqueClassType(EmptyAttributes(), true, []Property{}, nil)
		outer = b.GetUniqueClassType(EmptyAttributes(), true, []Property{{Name: "d", Type: inner}}, nil)
		b.AddTopLevel("Outer", outer)
	})

	ir, err := Declarations(g, classOnlyPolicy(g, false))
	require.NoError(t, err)
	require.Len(t, ir.Declarations, 2)
	assert.Equal(t, DefineDeclaration, ir.Declarations[0].Kind)
	assert.Equal(t, inner, ir.Declarations[0].Type, "children define before their users")
	assert.Equal(t, outer, ir.Declarations[1].Type)
	assert.Empty(t, ir.ForwardedTypes)
}

func TestDeclarationsCycleForwardDeclares(t *testing.T) {
	var a, bRef TypeRef
	g := buildGraph(t, func(b *TypeBuilder) {
		a = b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
		bRef = b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
		b.SetObjectProperties(a, []Property{{Name: "b", Type: bRef}}, nil)
		b.SetObjectProperties(bRef, []Property{{Name: "a", Type: a}}, nil)
		b.AddTopLevel("A", a)
		b.AddTopLevel("B", bRef)
	})

	ir, err := Declarations(g, classOnlyPolicy(g, true))
	require.NoError(t, err)
	require.Len(t, ir.Declarations, 4)

	expected := []Declaration{
		{Kind: ForwardDeclaration, Type: a},
		{Kind: ForwardDeclaration, Type: bRef},
		{Kind: DefineDeclaration, Type: a},
		{Kind: DefineDeclaration, Type: bRef},
	}
	assert.Equal(t, expected, ir.Declarations)
	assert.Contains(t, ir.ForwardedTypes, a)
	assert.Contains(t, ir.ForwardedTypes, bRef)
}

func TestDeclarationsCycleWithoutForwardingFails(t *testing.T) {
	g := buildGraph(t, func(b *TypeBuilder) {
		a := b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
		c := b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
		b.SetObjectProperties(a, []Property{{Name: "c", Type: c}}, nil)
		b.SetObjectProperties(c, []Property{{Name: "a", Type: a}}, nil)
		b.AddTopLevel("A", a)
	})

	_, err := Declarations(g, classOnlyPolicy(g, false))
	require.Error(t, err)
	ir, ok := err.(*errors.IRError)
	require.True(t, ok)
	assert.Equal(t, errors.KindIRNoForwardDeclarableTypeInCycle, ir.Kind)
}

func TestDeclarationsSelfCycle(t *testing.T) {
	var node TypeRef
	g := buildGraph(t, func(b *TypeBuilder) {
		node = b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
		b.SetObjectProperties(node, []Property{{Name: "next", Type: node, Optional: true}}, nil)
		b.AddTopLevel("Node", node)
	})

	ir, err := Declarations(g, classOnlyPolicy(g, true))
	require.NoError(t, err)
	require.Len(t, ir.Declarations, 1)
	assert.Equal(t, DefineDeclaration, ir.Declarations[0].Kind)
}

func TestCycleBreakingTypes(t *testing.T) {
	var a, bRef TypeRef
	g := buildGraph(t, func(b *TypeBuilder) {
		a = b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
		bRef = b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
		b.SetObjectProperties(a, []Property{{Name: "b", Type: bRef}}, nil)
		b.SetObjectProperties(bRef, []Property{{Name: "a", Type: a}}, nil)
		b.AddTopLevel("A", a)
	})

	breakers, err := CycleBreakingTypes(g, nil, func(TypeRef) bool { return true })
	require.NoError(t, err)
	assert.Len(t, breakers, 1, "one breaker per cycle")
}

func TestCycleBreakingTypesNoBreaker(t *testing.T) {
	g := buildGraph(t, func(b *TypeBuilder) {
		a := b.GetUniqueClassType(EmptyAttributes(), true, nil, nil)
		b.SetObjectProperties(a, []Property{{Name: "self", Type: a}}, nil)
		b.AddTopLevel("A", a)
	})

	_, err := CycleBreakingTypes(g, nil, func(TypeRef) bool { return false })
	require.Error(t, err)
}
