// Package cache provides a bounded least-recently-used cache.
//
//	c := cache.New[glyphKey, []sfnt.Segment](512)
//	segs, err := c.GetOrCreate(k, load)
package cache

import "sync"

// Cache is a generic LRU cache holding at most Capacity entries.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*item[K, V]
	order    lruList[K]
	capacity int
	hits     uint64
	misses   uint64
}

type item[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// New creates a cache with the given capacity. A capacity below 1 is
// treated as 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*item[K, V]),
		capacity: max(capacity, 1),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.MoveToFront(it.node)
	return it.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrCreate returns the cached value or stores the result of create.
// A failed create stores nothing. create is called under the lock.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.entries[key]; ok {
		c.hits++
		c.order.MoveToFront(it.node)
		return it.value, nil
	}
	c.misses++
	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.set(key, value)
	return value, nil
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counts.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// set stores value. Caller must hold c.mu.
func (c *Cache[K, V]) set(key K, value V) {
	if it, ok := c.entries[key]; ok {
		it.value = value
		c.order.MoveToFront(it.node)
		return
	}
	if len(c.entries) >= c.capacity {
		if old, ok := c.order.RemoveOldest(); ok {
			delete(c.entries, old)
		}
	}
	c.entries[key] = &item[K, V]{value: value, node: c.order.PushFront(key)}
}
