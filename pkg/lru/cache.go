// Package lru provides a small LRU cache keyed by strings.
package lru

import "container/list"

type entry[V any] struct {
	key   string
	value V
}

// Cache is a fixed-capacity LRU cache with string keys.
// The oldest entry is evicted when the cache is full.
type Cache[V any] struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = newest, back = oldest
}

// New creates a new LRU cache with the given capacity.
func New[V any](capacity int) *Cache[V] {
	return &Cache[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached value for key and marks it most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(entry[V]).value, true
}

// Add stores a value under key. If the cache is at capacity, the oldest
// entry is evicted. Adding an existing key refreshes its value and recency.
func (c *Cache[V]) Add(key string, value V) {
	if c.capacity <= 0 {
		return // Zero or negative capacity means no caching
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = entry[V]{key: key, value: value}
		c.order.MoveToFront(elem)
		return
	}

	// Evict oldest if at capacity
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			delete(c.items, oldest.Value.(entry[V]).key)
			c.order.Remove(oldest)
		}
	}

	c.items[key] = c.order.PushFront(entry[V]{key: key, value: value})
}

// Len returns the current number of items in the cache.
func (c *Cache[V]) Len() int {
	return len(c.items)
}
