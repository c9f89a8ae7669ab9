// Package schema defines the address-addressable store boundary for
// fetching JSON Schema documents. Fetching itself lives outside the
// core; Fetch may suspend, and fetch failures surface as typed resource
// errors. The pipeline package does not call the store.
package schema

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/typegraph-dev/typegraph/compiler/errors"
	"github.com/typegraph-dev/typegraph/compiler/input"
)

// Document is one fetched schema document, already decoded into the
// sampled-value model.
type Document struct {
	Address string
	Content input.Value
}

// Store fetches schema documents by address. Fetch may suspend; it is
// called only while inputs drain, never during a rewrite.
type Store interface {
	Fetch(ctx context.Context, address string) (*Document, error)
}

// MemoryStore serves documents registered up front; unknown addresses
// are typed fetch failures.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]*Document{}}
}

// Add registers a document under its address.
func (s *MemoryStore) Add(address string, content input.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[address] = &Document{Address: address, Content: content}
}

// Fetch implements Store.
func (s *MemoryStore) Fetch(_ context.Context, address string) (*Document, error) {
	s.mu.RLock()
	doc, ok := s.docs[address]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrSchemaFetchFailed,
			errors.Properties{"address": address, "reason": "address not registered"})
	}
	return doc, nil
}

// CachedStore decorates any store with an LRU cache so repeated
// addresses fetch once.
type CachedStore struct {
	inner Store
	cache *lru.Cache[string, *Document]
}

// NewCachedStore wraps inner with a cache of the given size.
func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	cache, err := lru.New[string, *Document](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{inner: inner, cache: cache}, nil
}

// Fetch implements Store.
func (s *CachedStore) Fetch(ctx context.Context, address string) (*Document, error) {
	if doc, ok := s.cache.Get(address); ok {
		return doc, nil
	}
	doc, err := s.inner.Fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	s.cache.Add(address, doc)
	return doc, nil
}
