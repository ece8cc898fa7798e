// Package cache implements core.Cache over an in-process LRU, backed by
// github.com/hashicorp/golang-lru/v2 (an indirect teacher dependency,
// promoted here to direct use). It is the write-through cache spec.md §6
// describes as optional and timing-agnostic: a miss simply means the
// engine re-fetches from the network.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU adapts a bounded hashicorp/golang-lru/v2 cache to core.Cache.
type LRU struct {
	inner *lru.Cache[string, []byte]
}

// New builds an LRU cache with room for capacity entries. capacity <= 0 is
// rejected by golang-lru; callers should use pkg/config's cache.capacity
// default when wiring this up.
func New(capacity int) (*LRU, error) {
	inner, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &LRU{inner: inner}, nil
}

// Store implements core.Cache.
func (c *LRU) Store(key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	c.inner.Add(key, cp)
	return nil
}

// Load implements core.Cache.
func (c *LRU) Load(key string) ([]byte, bool) {
	v, ok := c.inner.Get(key)
	return v, ok
}

// Len reports the number of cached entries, mainly for tests and metrics.
func (c *LRU) Len() int {
	return c.inner.Len()
}
