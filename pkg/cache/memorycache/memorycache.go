package memorycache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/asakaida/gakumu/pkg/cache"
)

// entry is one cached key/value pair with its expiry.
type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// Cache is an LRU cache with TTL support, capped by entry count.
// It backs the attribute registry, whose entries are small and immutable, so
// a simple count cap is enough; no size accounting is attempted.
type Cache struct {
	mu sync.RWMutex

	maxEntries int
	items      map[string]*list.Element // key -> list element
	evictList  *list.List               // front = most recent, back = least recent

	hits        uint64
	misses      uint64
	keysAdded   uint64
	keysEvicted uint64
}

// New creates a new in-memory cache holding at most maxEntries entries.
// maxEntries <= 0 means unbounded.
func New(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		items:      make(map[string]*list.Element),
		evictList:  list.New(),
	}
}

// Get retrieves a value, refreshing its LRU position. Expired entries are
// removed on access and count as misses.
func (c *Cache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	ent := elem.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		c.removeElement(elem)
		c.misses++
		return nil, false
	}

	c.evictList.MoveToFront(elem)
	c.hits++
	return ent.value, true
}

// Set stores a value with the given TTL, evicting the least recently used
// entry when the cap is exceeded. A non-positive TTL stores nothing.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.expiresAt = expiresAt
		c.evictList.MoveToFront(elem)
		return nil
	}

	elem := c.evictList.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem
	c.keysAdded++

	if c.maxEntries > 0 && c.evictList.Len() > c.maxEntries {
		if oldest := c.evictList.Back(); oldest != nil {
			c.removeElement(oldest)
			c.keysEvicted++
		}
	}

	return nil
}

// Delete removes a value from cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Clear removes all entries from cache.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
	return nil
}

// Close releases resources held by the cache.
func (c *Cache) Close() error {
	return c.Clear(context.Background())
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.evictList.Len()
}

// Metrics returns cache statistics.
func (c *Cache) Metrics() *cache.Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &cache.Metrics{
		Hits:        c.hits,
		Misses:      c.misses,
		KeysAdded:   c.keysAdded,
		KeysEvicted: c.keysEvicted,
	}
}

// removeElement deletes an element; caller must hold the write lock.
func (c *Cache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	ent := elem.Value.(*entry)
	delete(c.items, ent.key)
}
