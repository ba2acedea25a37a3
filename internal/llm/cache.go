package llm

import (
	"strings"
	"sync"
	"time"

	"github.com/cedisense/cedisense/internal/model"
)

// cacheEntry represents a cached categorization result.
type cacheEntry struct {
	expiry time.Time
	result model.CategorizationResult
}

// resultCache provides thread-safe caching of generative results keyed by
// normalized description. Identical descriptions within the TTL reuse the
// prior answer instead of paying for another inference call.
type resultCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newResultCache creates a new cache with the specified TTL.
func newResultCache(ttl time.Duration) *resultCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &resultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// cacheKey normalizes a description for cache lookup.
func cacheKey(description string) string {
	return strings.Join(strings.Fields(strings.ToLower(description)), " ")
}

// get retrieves a result if it exists and hasn't expired.
func (c *resultCache) get(key string) (model.CategorizationResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return model.CategorizationResult{}, false
	}

	return entry.result, true
}

// set stores a result in the cache.
func (c *resultCache) set(key string, result model.CategorizationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result: result,
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *resultCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *resultCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *resultCache) Close() {
	close(c.stopCh)
}
