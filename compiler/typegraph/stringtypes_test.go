package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringTypesUnionSumsCases(t *testing.T) {
	a := RestrictedStringTypes(map[string]int{"red": 2, "blue": 1}, []TypeKind{KindDate})
	b := RestrictedStringTypes(map[string]int{"red": 3, "green": 4}, []TypeKind{KindUUID})

	merged := a.Union(b)
	assert.True(t, merged.IsRestricted())
	assert.Equal(t, map[string]int{"red": 5, "blue": 1, "green": 4}, merged.Cases())
	assert.Equal(t, []TypeKind{KindDate, KindUUID}, merged.Transformations())
}

func TestStringTypesUnionUnrestrictedWins(t *testing.T) {
	restricted := RestrictedStringTypes(map[string]int{"x": 1}, []TypeKind{KindDate})
	merged := restricted.Union(UnrestrictedStringTypes())
	assert.False(t, merged.IsRestricted())
	assert.Nil(t, merged.Cases())
	assert.Equal(t, []TypeKind{KindDate}, merged.Transformations(),
		"transformations survive even against an unrestricted side")
}

func TestStringTypesIntersect(t *testing.T) {
	a := RestrictedStringTypes(map[string]int{"red": 2, "blue": 1}, []TypeKind{KindDate, KindUUID})
	b := RestrictedStringTypes(map[string]int{"red": 5, "green": 1}, []TypeKind{KindDate})

	narrowed := a.Intersect(b)
	assert.Equal(t, map[string]int{"red": 2}, narrowed.Cases())
	assert.Equal(t, []TypeKind{KindDate}, narrowed.Transformations())
}

func TestStringTypesIntersectRestrictedDominates(t *testing.T) {
	restricted := RestrictedStringTypes(map[string]int{"x": 1}, nil)
	narrowed := UnrestrictedStringTypes().Intersect(restricted)
	assert.True(t, narrowed.IsRestricted())
	assert.Equal(t, map[string]int{"x": 1}, narrowed.Cases())
}

func TestStringTypesValueCounts(t *testing.T) {
	st := RestrictedStringTypes(map[string]int{"a": 3, "b": 2}, nil)
	assert.Equal(t, 2, st.CaseCount())
	assert.Equal(t, 5, st.ValueCount())
}
