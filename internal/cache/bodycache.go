// Package cache provides caching utilities for the MCP server.
package cache

import lru "github.com/hashicorp/golang-lru/v2"

// BodyCache is a thread-safe LRU cache of fetched response body text, keyed
// by exchange sequence number. A single exchange is searched across several
// fields in one pass, and may be downloaded right after a search; caching
// keeps that to one body read per exchange.
type BodyCache struct {
	cache *lru.Cache[int64, string]
}

// NewBodyCache creates a new LRU cache holding at most maxItems bodies.
func NewBodyCache(maxItems int) (*BodyCache, error) {
	c, err := lru.New[int64, string](maxItems)
	if err != nil {
		return nil, err
	}
	return &BodyCache{cache: c}, nil
}

// Get retrieves a cached body by exchange sequence number.
func (c *BodyCache) Get(seq int64) (string, bool) {
	return c.cache.Get(seq)
}

// Put adds or updates a cached body.
func (c *BodyCache) Put(seq int64, body string) {
	c.cache.Add(seq, body)
}

// Len returns the current number of cached bodies.
func (c *BodyCache) Len() int {
	return c.cache.Len()
}
