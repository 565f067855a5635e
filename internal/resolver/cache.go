package resolver

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// listingCache holds listing pages for the configured revalidation
// interval. Listings tolerate staleness up to the TTL; mutations call
// invalidate to cut it short.
type listingCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	page    *Page
	expires time.Time
}

func newListingCache(ttl time.Duration) *listingCache {
	return &listingCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *listingCache) get(key string) (*Page, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.page, true
}

func (c *listingCache) put(key string, p *Page) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{page: p, expires: time.Now().Add(c.ttl)}
}

func (c *listingCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// cacheKey fingerprints a normalized filter.
func cacheKey(f ListFilter) string {
	return fmt.Sprintf("p=%v|t=%s|s=%s|pg=%d|sz=%d",
		*f.Published, strings.Join(f.Tags, ","), f.Search, f.Page, f.PageSize)
}
