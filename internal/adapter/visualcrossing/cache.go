package visualcrossing

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
	"github.com/couchcryptid/sounding-analysis-service/internal/observability"
)

// CachedProvider wraps a ConditionsProvider with an in-memory LRU cache.
// Observations for the same coordinates change on the provider's refresh
// interval, so repeated analyses of one location reuse the cached record.
type CachedProvider struct {
	inner   domain.ConditionsProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a conditions provider.
func NewCachedProvider(inner domain.ConditionsProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) CurrentConditions(ctx context.Context, lat, lon float64) (*domain.ObservedConditions, error) {
	key := fmt.Sprintf("cur:%.4f,%.4f", lat, lon)
	if obs, ok := c.cache.get(key); ok {
		c.metrics.ConditionsCache.WithLabelValues("hit").Inc()
		return obs, nil
	}
	c.metrics.ConditionsCache.WithLabelValues("miss").Inc()

	obs, err := c.inner.CurrentConditions(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	// Only cache real records so an empty response can be retried.
	if obs != nil {
		c.cache.put(key, obs)
	}
	return obs, nil
}

// lruCache is a simple thread-safe LRU cache for observation records.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value *domain.ObservedConditions
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (*domain.ObservedConditions, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value *domain.ObservedConditions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
