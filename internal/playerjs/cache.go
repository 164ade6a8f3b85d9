package playerjs

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a player body is reused. Players rotate
// a few times a day.
const DefaultCacheTTL = 6 * time.Hour

type Cache interface {
	Get(key string) (string, bool)
	Set(key string, body string)
}

type memoryCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]cacheItem
}

type cacheItem struct {
	body     string
	storedAt time.Time
}

// NewMemoryCache returns an in-process cache. A non-positive ttl keeps
// entries forever.
func NewMemoryCache(ttl time.Duration) Cache {
	return &memoryCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cacheItem),
	}
}

func (c *memoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(item.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return "", false
	}
	return item.body, true
}

func (c *memoryCache) Set(key string, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{body: body, storedAt: c.now()}
}
