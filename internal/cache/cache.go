// Package cache provides a small generic LRU cache for decoded assets.
package cache

import (
	"container/list"
	"sync"
)

// Cache is a thread-safe LRU cache holding at most limit entries.
// An optional eviction callback releases values as they fall out.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	limit   int
	order   *list.List // front is most recently used
	entries map[K]*list.Element
	onEvict func(K, V)

	hits   uint64
	misses uint64
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates a cache holding at most limit entries. A limit of 0 means
// unlimited. onEvict may be nil.
func New[K comparable, V any](limit int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		limit:   limit,
		order:   list.New(),
		entries: make(map[K]*list.Element),
		onEvict: onEvict,
	}
}

// Get returns the cached value and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// Set stores value under key, replacing and evicting any previous value.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	evicted := c.setLocked(key, value)
	c.mu.Unlock()
	c.evict(evicted)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Errors are returned without caching. load runs under the cache lock.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	return c.GetOrLoadIf(key, nil, load)
}

// GetOrLoadIf is GetOrLoad for values that can go bad while cached. A
// cached value for which keep returns false is dropped (running the
// eviction callback) and loaded again. A nil keep accepts every value.
func (c *Cache[K, V]) GetOrLoadIf(key K, keep func(V) bool, load func() (V, error)) (V, error) {
	c.mu.Lock()
	var evicted []*entry[K, V]
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry[K, V])
		if keep == nil || keep(e.value) {
			c.hits++
			c.order.MoveToFront(el)
			c.mu.Unlock()
			return e.value, nil
		}
		c.order.Remove(el)
		delete(c.entries, key)
		evicted = append(evicted, e)
	}
	c.misses++
	v, err := load()
	if err == nil {
		evicted = append(evicted, c.setLocked(key, v)...)
	}
	c.mu.Unlock()
	c.evict(evicted)
	return v, err
}

// Delete removes key, running the eviction callback. It reports whether
// the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	el, ok := c.entries[key]
	if ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
	c.mu.Unlock()
	if ok {
		c.evict([]*entry[K, V]{el.Value.(*entry[K, V])})
	}
	return ok
}

// Clear removes every entry, running the eviction callback for each.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	var evicted []*entry[K, V]
	for el := c.order.Front(); el != nil; el = el.Next() {
		evicted = append(evicted, el.Value.(*entry[K, V]))
	}
	c.order.Init()
	c.entries = make(map[K]*list.Element)
	c.mu.Unlock()
	c.evict(evicted)
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Len: len(c.entries), Limit: c.limit, Hits: c.hits, Misses: c.misses}
}

// Stats contains cache statistics.
type Stats struct {
	Len    int
	Limit  int
	Hits   uint64
	Misses uint64
}

// setLocked inserts or replaces key and returns the entries pushed out.
// Caller must hold c.mu.
func (c *Cache[K, V]) setLocked(key K, value V) []*entry[K, V] {
	var evicted []*entry[K, V]
	if el, ok := c.entries[key]; ok {
		old := el.Value.(*entry[K, V])
		evicted = append(evicted, &entry[K, V]{key: old.key, value: old.value})
		old.value = value
		c.order.MoveToFront(el)
		return evicted
	}
	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
	for c.limit > 0 && c.order.Len() > c.limit {
		back := c.order.Back()
		c.order.Remove(back)
		e := back.Value.(*entry[K, V])
		delete(c.entries, e.key)
		evicted = append(evicted, e)
	}
	return evicted
}

// evict runs the callback outside the lock so it may use the cache.
func (c *Cache[K, V]) evict(entries []*entry[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range entries {
		c.onEvict(e.key, e.value)
	}
}
