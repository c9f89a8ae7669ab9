package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph-dev/typegraph/compiler/errors"
	"github.com/typegraph-dev/typegraph/compiler/input"
)

func TestMemoryStoreFetch(t *testing.T) {
	store := NewMemoryStore()
	store.Add("https://example.com/a.json", input.Boolean(true))

	doc, err := store.Fetch(context.Background(), "https://example.com/a.json")
	require.NoError(t, err)
	assert.Equal(t, input.BoolValue, doc.Content.Kind)
}

func TestMemoryStoreMissIsTypedError(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Fetch(context.Background(), "https://example.com/missing.json")
	require.Error(t, err)

	ir, ok := err.(*errors.IRError)
	require.True(t, ok)
	assert.Equal(t, errors.KindSchemaFetchFailed, ir.Kind)
	assert.Equal(t, "https://example.com/missing.json", ir.Properties["address"])
}

type countingStore struct {
	inner   Store
	fetches int
}

func (s *countingStore) Fetch(ctx context.Context, address string) (*Document, error) {
	s.fetches++
	return s.inner.Fetch(ctx, address)
}

func TestCachedStoreFetchesOnce(t *testing.T) {
	memory := NewMemoryStore()
	memory.Add("addr", input.Integer64(1))
	counting := &countingStore{inner: memory}

	cached, err := NewCachedStore(counting, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		doc, err := cached.Fetch(context.Background(), "addr")
		require.NoError(t, err)
		assert.Equal(t, "addr", doc.Address)
	}
	assert.Equal(t, 1, counting.fetches, "repeated addresses fetch once")
}

func TestCachedStorePropagatesErrors(t *testing.T) {
	cached, err := NewCachedStore(NewMemoryStore(), 8)
	require.NoError(t, err)
	_, err = cached.Fetch(context.Background(), "nope")
	assert.Error(t, err)
}
