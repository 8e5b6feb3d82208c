package kattis

import (
	"sort"
	"strings"
	"sync"
)

// callCache memoizes capability results per argument tuple for the session's
// lifetime. Repeated calls with the same arguments return the stored result
// without issuing any network request.
type callCache struct {
	mu      sync.Mutex
	entries map[string]any
}

func newCallCache() callCache {
	return callCache{entries: map[string]any{}}
}

// CacheKey builds a memoization key from a capability name and its already
// normalized arguments.
func CacheKey(capability string, args ...string) string {
	return capability + "\x1f" + strings.Join(args, "\x1f")
}

// NormalizeSet turns a collection-typed argument into an order-independent
// form so that Stats("Go", "C++") and Stats("C++", "Go") share a cache entry.
func NormalizeSet(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	n := 0
	for i, v := range out {
		if i == 0 || out[i-1] != v {
			out[n] = v
			n++
		}
	}
	return out[:n]
}

// Memoize returns the cached value for key, or runs fn and stores its
// result. Errors are never cached.
func Memoize[T any](c *Client, key string, fn func() (T, error)) (T, error) {
	c.cache.mu.Lock()
	if v, ok := c.cache.entries[key]; ok {
		c.cache.mu.Unlock()
		return v.(T), nil
	}
	c.cache.mu.Unlock()

	v, err := fn()
	if err != nil {
		var zero T
		return zero, err
	}

	c.cache.mu.Lock()
	c.cache.entries[key] = v
	c.cache.mu.Unlock()
	return v, nil
}

// ResetCache drops every memoized result, forcing subsequent calls to
// re-fetch.
func (c *Client) ResetCache() {
	c.cache.mu.Lock()
	c.cache.entries = map[string]any{}
	c.cache.mu.Unlock()
}
