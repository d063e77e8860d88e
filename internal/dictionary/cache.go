package dictionary

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"railfence/internal/metrics"
)

// Cache memoizes word verdicts. It only grows: a verdict, once stored, is
// never rewritten or evicted. Concurrent resolutions of the same token share
// a single backend call.
type Cache struct {
	backend string

	mu       sync.RWMutex
	verdicts map[string]bool

	group   singleflight.Group
	lookups atomic.Int64
}

// NewCache returns an empty cache; backend labels its metrics.
func NewCache(backend string) *Cache {
	return &Cache{backend: backend, verdicts: make(map[string]bool)}
}

// Get returns the cached verdict for token, if any.
func (c *Cache) Get(token string) (known, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	known, ok = c.verdicts[token]
	return known, ok
}

// Len is the number of cached verdicts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.verdicts)
}

// Lookups is the number of times Resolve invoked its lookup function.
func (c *Cache) Lookups() int64 {
	return c.lookups.Load()
}

// Resolve returns the cached verdict for token, or calls lookup once and
// caches its answer. A lookup error yields false and leaves the token
// uncached so a later call can retry.
//
// Concurrent callers share one lookup, run under the first caller's ctx.
// Each caller waits only as long as its own ctx allows, and a caller whose
// ctx is still live retries when the shared lookup was cancelled by another.
func (c *Cache) Resolve(ctx context.Context, token string, lookup func(context.Context, string) (bool, error)) bool {
	if known, ok := c.Get(token); ok {
		metrics.DictionaryCacheHits.WithLabelValues(c.backend).Inc()
		return known
	}
	for {
		ch := c.group.DoChan(token, func() (any, error) {
			if known, ok := c.Get(token); ok {
				return known, nil
			}
			c.lookups.Add(1)
			known, err := lookup(ctx, token)
			if err != nil {
				metrics.DictionaryLookups.WithLabelValues(c.backend, "error").Inc()
				return false, err
			}
			verdict := "unknown"
			if known {
				verdict = "known"
			}
			metrics.DictionaryLookups.WithLabelValues(c.backend, verdict).Inc()
			c.mu.Lock()
			c.verdicts[token] = known
			c.mu.Unlock()
			return known, nil
		})

		select {
		case <-ctx.Done():
			return false
		case res := <-ch:
			if res.Err == nil {
				return res.Val.(bool)
			}
			if ctx.Err() == nil && cancelled(res.Err) {
				continue
			}
			return false
		}
	}
}
