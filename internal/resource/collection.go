// Package resource implements the list/create/update/delete pattern shared
// by rooms, documents and bookings: a remote Store is the source of truth,
// a local Collection mirrors it for the dashboard.
package resource

import "sync"

// Item is anything with a stable identity.
type Item[K comparable] interface {
	ItemID() K
}

// Collection is an ordered, concurrency-safe list of items.
type Collection[K comparable, T Item[K]] struct {
	mu    sync.RWMutex
	items []T
}

// NewCollection creates an empty collection.
func NewCollection[K comparable, T Item[K]]() *Collection[K, T] {
	return &Collection[K, T]{}
}

// Items returns a copy of the items in order. Never nil.
func (c *Collection[K, T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Collection[K, T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the item with id.
func (c *Collection[K, T]) Get(id K) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ItemID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps the whole content.
func (c *Collection[K, T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]T, len(items))
	copy(c.items, items)
}

// Put replaces the item whose id is match with item, or appends it.
// Any other entry already carrying item's id is dropped so an id
// appears at most once.
func (c *Collection[K, T]) Put(match K, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := item.ItemID()
	out := c.items[:0:0]
	placed := false
	for _, it := range c.items {
		switch it.ItemID() {
		case match:
			if !placed {
				out = append(out, item)
				placed = true
			}
		case id:
			// duplicate of the canonical id
		default:
			out = append(out, it)
		}
	}
	if !placed {
		out = append(out, item)
	}
	c.items = out
}

// Remove drops the item with id. Reports whether it was present.
func (c *Collection[K, T]) Remove(id K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.ItemID() == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Registry holds one collection per owner (user).
type Registry[K comparable, T Item[K]] struct {
	mu    sync.Mutex
	byKey map[string]*Collection[K, T]
}

// NewRegistry creates an empty registry.
func NewRegistry[K comparable, T Item[K]]() *Registry[K, T] {
	return &Registry[K, T]{byKey: make(map[string]*Collection[K, T])}
}

// For returns the owner's collection, creating it on first use.
func (r *Registry[K, T]) For(owner string) *Collection[K, T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byKey[owner]
	if !ok {
		c = NewCollection[K, T]()
		r.byKey[owner] = c
	}
	return c
}

// Drop forgets the owner's collection.
func (r *Registry[K, T]) Drop(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byKey, owner)
}
