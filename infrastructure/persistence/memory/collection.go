// Package memory holds the canonical in-process entity store. State lives
// for the lifetime of the process: identity counters start at 1, are never
// reused, and reset on restart together with the records themselves.
package memory

import (
	"sync"

	"meetsync/application/ports"
)

// Cloner is implemented by records so every read hands out a snapshot
// instead of a live reference.
type Cloner[T any] interface {
	Clone() T
}

// Collection is a keyed in-memory collection with a monotonic identity
// allocator. Every exported method is individually atomic; callers that
// need read-modify-write semantics use Mutate so the sequence cannot be
// interleaved.
type Collection[T Cloner[T]] struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]T
}

// NewCollection creates an empty collection with the allocator at 1
func NewCollection[T Cloner[T]]() *Collection[T] {
	return &Collection[T]{
		nextID: 1,
		items:  make(map[int64]T),
	}
}

// Allocate returns the next unused identity. Identities are strictly
// increasing and never reused, even after deletion.
func (c *Collection[T]) Allocate() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	return id
}

// Insert stores a record under the given identity
func (c *Collection[T]) Insert(id int64, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; exists {
		return ports.ErrDuplicateIdentity
	}
	c.items[id] = item.Clone()
	return nil
}

// Get returns a snapshot of the record
func (c *Collection[T]) Get(id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, ports.ErrNotFound
	}
	return item.Clone(), nil
}

// Mutate applies fn to the stored record under the write lock and returns
// the updated snapshot. If fn errors the record is left unchanged.
func (c *Collection[T]) Mutate(id int64, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	item, ok := c.items[id]
	if !ok {
		return zero, ports.ErrNotFound
	}

	updated := item.Clone()
	if err := fn(&updated); err != nil {
		return zero, err
	}

	c.items[id] = updated
	return updated.Clone(), nil
}

// Remove deletes the record and returns its prior snapshot
func (c *Collection[T]) Remove(id int64) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, ports.ErrNotFound
	}
	delete(c.items, id)
	return item.Clone(), nil
}

// List returns snapshots of all records
func (c *Collection[T]) List() []T {
	return c.ListWhere(func(T) bool { return true })
}

// ListWhere returns snapshots of all records matching the predicate
func (c *Collection[T]) ListWhere(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item.Clone())
		}
	}
	return out
}

// Len returns the number of stored records
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
