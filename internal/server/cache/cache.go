// Package cache holds the server's cached saved-books listing.
// It uses patrickmn/go-cache for TTL-based expiry.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/joshwilensky/Google-Books-Search/pkg/books"
)

// listKey is the single entry the listing is cached under.
const listKey = "books:list"

// Cache wraps go-cache with typed accessors for the listing.
type Cache struct {
	store *gocache.Cache
}

// New creates a new cache with the given TTL and cleanup interval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// List returns the cached listing, if present and unexpired.
func (c *Cache) List() ([]books.SavedRecord, bool) {
	v, ok := c.store.Get(listKey)
	if !ok {
		return nil, false
	}
	records, ok := v.([]books.SavedRecord)
	return records, ok
}

// SetList caches records with the default TTL. The slice is copied so
// later changes by the caller do not leak into the cache.
func (c *Cache) SetList(records []books.SavedRecord) {
	cp := make([]books.SavedRecord, len(records))
	copy(cp, records)
	c.store.Set(listKey, cp, gocache.DefaultExpiration)
}

// Invalidate drops the cached listing. Called after every write.
func (c *Cache) Invalidate() {
	c.store.Delete(listKey)
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
