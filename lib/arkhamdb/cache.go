package arkhamdb

import "sync"

// metadataCache memoizes scraped deck metadata per deck id for the
// process lifetime. Capacity 0 means unbounded, a deliberate
// trade-off; Invalidate and Len exist so callers can bound memory
// later without touching the scrape path.
//
// Concurrent first-access races are tolerated: two goroutines may both
// miss and fetch, and the second put wins. The redundant fetch is
// cheaper than holding the lock across a network call.
type metadataCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[int]DeckMetadata
}

func newMetadataCache(capacity int) *metadataCache {
	return &metadataCache{
		capacity: capacity,
		entries:  map[int]DeckMetadata{},
	}
}

func (c *metadataCache) get(deckID int) (DeckMetadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, ok := c.entries[deckID]
	return meta, ok
}

func (c *metadataCache) put(deckID int, meta DeckMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capacity > 0 && len(c.entries) >= c.capacity {
		if _, exists := c.entries[deckID]; !exists {
			return
		}
	}
	c.entries[deckID] = meta
}

func (c *metadataCache) Invalidate(deckID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, deckID)
}

func (c *metadataCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
