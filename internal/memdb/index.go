// Provides concurrent-safe, in-memory secondary indexes for tables.

package memdb

import (
	"fmt"
	"sync"
)

// UniqueIndex provides O(1) lookup by a unique secondary key.
//
// The index is built from existing table data when created and kept
// synchronized via the [TableObserver] interface. It also rejects inserts and
// updates that would give two rows the same key, atomically with the
// mutation. All operations are concurrent-safe.
type UniqueIndex[K comparable, T Row[T]] struct {
	table   *Table[T]
	keyFunc func(T) K
	mu      sync.Mutex
	byKey   map[K]string
}

// NewUniqueIndex creates a unique index on the given table.
//
// The keyFunc extracts the index key from each normalized row. If duplicates
// already exist in the table, the last row with each key wins.
func NewUniqueIndex[K comparable, T Row[T]](table *Table[T], keyFunc func(T) K) *UniqueIndex[K, T] {
	idx := &UniqueIndex[K, T]{
		table:   table,
		keyFunc: keyFunc,
		byKey:   make(map[K]string),
	}
	table.AddObserver(idx)
	return idx
}

// Lookup returns the ID of the row with the given key.
func (idx *UniqueIndex[K, T]) Lookup(key K) (string, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	id, ok := idx.byKey[key]
	return id, ok
}

// Get returns a clone of the row with the given key.
func (idx *UniqueIndex[K, T]) Get(key K) (T, bool) {
	id, ok := idx.Lookup(key)
	if !ok {
		var zero T
		return zero, false
	}
	// The row may have been deleted between the two lookups.
	return idx.table.Get(id)
}

func (idx *UniqueIndex[K, T]) check(prevID string, row T) error {
	key := idx.keyFunc(row)
	idx.mu.Lock()
	id, ok := idx.byKey[key]
	idx.mu.Unlock()
	if ok && id != prevID {
		return fmt.Errorf("%w: %v", ErrDuplicate, key)
	}
	return nil
}

// OnInsert implements [TableObserver].
func (idx *UniqueIndex[K, T]) OnInsert(row T) {
	idx.mu.Lock()
	idx.byKey[idx.keyFunc(row)] = row.GetID()
	idx.mu.Unlock()
}

// OnUpdate implements [TableObserver].
func (idx *UniqueIndex[K, T]) OnUpdate(prev, curr T) {
	oldKey := idx.keyFunc(prev)
	newKey := idx.keyFunc(curr)
	idx.mu.Lock()
	if oldKey != newKey {
		delete(idx.byKey, oldKey)
	}
	idx.byKey[newKey] = curr.GetID()
	idx.mu.Unlock()
}

// OnDelete implements [TableObserver].
func (idx *UniqueIndex[K, T]) OnDelete(row T) {
	idx.mu.Lock()
	delete(idx.byKey, idx.keyFunc(row))
	idx.mu.Unlock()
}
