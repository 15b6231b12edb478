package memdb

import (
	"errors"
	"iter"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no row has the requested ID.
	ErrNotFound = errors.New("row not found")
	// ErrDuplicate is returned when a mutation would violate a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// Meta holds the fields managed by the table. Rows embed it.
type Meta struct {
	ID       string    `json:"id" jsonschema:"description=Unique identifier assigned by the store"`
	Created  time.Time `json:"createdAt" jsonschema:"description=Creation timestamp"`
	Modified time.Time `json:"updatedAt" jsonschema:"description=Last modification timestamp"`
}

// GetID returns the row's ID.
func (m *Meta) GetID() string {
	return m.ID
}

func (m *Meta) meta() *Meta {
	return m
}

// Row is implemented by types that can be stored in a Table.
//
// Types satisfy the unexported part of the constraint by embedding Meta.
type Row[T any] interface {
	// Clone returns a deep copy.
	Clone() T
	// GetID returns the row's ID.
	GetID() string
	// SearchFields returns the values that List matches search text against.
	SearchFields() []string
	// Normalize canonicalizes the kind-specific fields (trimming, casing).
	// It is called on every insert and update.
	Normalize()

	meta() *Meta
}

// TableObserver is notified of table mutations.
//
// Callbacks run while the table's write lock is held; they must not call back
// into the table.
type TableObserver[T any] interface {
	OnInsert(row T)
	OnUpdate(prev, curr T)
	OnDelete(row T)
}

// checker is implemented by observers that can veto a mutation. prevID is
// the ID of the row being replaced, or "" for an insert.
type checker[T any] interface {
	check(prevID string, row T) error
}

// Option configures a Table.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func(seq uint64) string
}

// WithClock sets the time source used for row timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator sets how IDs are derived from the table's sequence.
//
// The generator must return a distinct ID for every call.
func WithIDGenerator(fn func(seq uint64) string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// Table is an ordered in-memory collection of rows of one kind.
type Table[T Row[T]] struct {
	now   func() time.Time
	newID func(seq uint64) string

	mu        sync.RWMutex
	rows      []T
	byID      map[string]T
	seq       uint64
	observers []TableObserver[T]
}

// NewTable creates an empty table.
func NewTable[T Row[T]](opts ...Option) *Table[T] {
	o := options{
		now:   time.Now,
		newID: func(seq uint64) string { return strconv.FormatUint(seq, 10) },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[T]{
		now:   o.now,
		newID: o.newID,
		byID:  make(map[string]T),
	}
}

// AddObserver registers an observer and replays existing rows to it as inserts.
func (t *Table[T]) AddObserver(o TableObserver[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		o.OnInsert(row)
	}
	t.observers = append(t.observers, o)
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Get returns a clone of the row with the given ID.
func (t *Table[T]) Get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return row.Clone(), true
}

// All returns an iterator over clones of all rows in table order.
func (t *Table[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		t.mu.RLock()
		defer t.mu.RUnlock()
		for _, row := range t.rows {
			if !yield(row.Clone()) {
				return
			}
		}
	}
}

// List returns one page of the rows matching search, and the number of
// matching rows.
//
// Matching is a case-insensitive substring test against each row's
// SearchFields. Blank search text matches every row. Pages are 1-based; page
// and limit values below 1 are treated as 1. A page past the end returns no
// rows and the full match count.
func (t *Table[T]) List(page, limit int, search string) ([]T, int) {
	page = max(page, 1)
	limit = max(limit, 1)
	needle := strings.ToLower(strings.TrimSpace(search))

	t.mu.RLock()
	defer t.mu.RUnlock()

	matches := t.rows
	if needle != "" {
		matches = make([]T, 0, len(t.rows))
		for _, row := range t.rows {
			if matchRow(row, needle) {
				matches = append(matches, row)
			}
		}
	}
	total := len(matches)

	// Compare page counts instead of offsets so a huge page can't overflow.
	if page-1 > total/limit {
		return []T{}, total
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	if start >= end {
		return []T{}, total
	}
	out := make([]T, 0, end-start)
	for _, row := range matches[start:end] {
		out = append(out, row.Clone())
	}
	return out, total
}

func matchRow[T Row[T]](row T, needle string) bool {
	for _, f := range row.SearchFields() {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Insert stores a copy of row under a newly assigned ID and returns a clone
// of the stored row.
//
// The ID and timestamps of the argument are ignored. Insert fails only when a
// unique index rejects the row, in which case the table is unchanged.
func (t *Table[T]) Insert(row T) (T, error) {
	stored := row.Clone()
	stored.Normalize()

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, o := range t.observers {
		if c, ok := o.(checker[T]); ok {
			if err := c.check("", stored); err != nil {
				var zero T
				return zero, err
			}
		}
	}

	t.seq++
	now := t.now()
	m := stored.meta()
	m.ID = t.newID(t.seq)
	m.Created = now
	m.Modified = now

	t.rows = append(t.rows, stored)
	t.byID[m.ID] = stored
	for _, o := range t.observers {
		o.OnInsert(stored)
	}
	return stored.Clone(), nil
}

// Update atomically modifies the row with the given ID.
//
// fn receives a private copy; the copy replaces the stored row only if fn
// returns nil and no unique index rejects the result. The store-managed
// fields cannot be changed by fn. The modification time is refreshed even if
// fn changes nothing.
func (t *Table[T]) Update(id string, fn func(row T) error) (T, error) {
	var zero T

	t.mu.Lock()
	defer t.mu.Unlock()

	prev, ok := t.byID[id]
	if !ok {
		return zero, ErrNotFound
	}
	next := prev.Clone()
	if err := fn(next); err != nil {
		return zero, err
	}
	next.Normalize()

	pm := prev.meta()
	m := next.meta()
	m.ID = pm.ID
	m.Created = pm.Created
	m.Modified = t.now()
	if m.Modified.Before(m.Created) {
		m.Modified = m.Created
	}

	for _, o := range t.observers {
		if c, ok := o.(checker[T]); ok {
			if err := c.check(id, next); err != nil {
				return zero, err
			}
		}
	}

	i := slices.IndexFunc(t.rows, func(r T) bool { return r.GetID() == id })
	t.rows[i] = next
	t.byID[id] = next
	for _, o := range t.observers {
		o.OnUpdate(prev, next)
	}
	return next.Clone(), nil
}

// Delete removes the row with the given ID and reports whether a row was
// removed.
func (t *Table[T]) Delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.byID[id]
	if !ok {
		return false
	}
	t.rows = slices.DeleteFunc(t.rows, func(r T) bool { return r.GetID() == id })
	delete(t.byID, id)
	for _, o := range t.observers {
		o.OnDelete(row)
	}
	return true
}
