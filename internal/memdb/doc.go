// Package memdb provides a generic, concurrent-safe, in-memory tabular store.
//
// # Overview
//
// The package centers around [Table], a generic ordered collection of rows of
// one kind keyed by a store-assigned string ID. Tables support paginated
// substring search, point lookup, insert, partial update and delete. Rows are
// cloned on the way in and out so callers never share memory with the table.
//
// # Identifiers
//
// Every table owns a monotonic sequence. By default IDs are the decimal
// sequence value ("1", "2", ...); [WithIDGenerator] derives IDs differently.
// IDs are never reused within the lifetime of a table, even after deletion.
//
// # Concurrency
//
// A single sync.RWMutex serializes mutations. [Table.List], [Table.Get] and
// [Table.All] read under the read lock, so a listing always reflects one
// consistent snapshot. [Table.Update] holds the write lock for the whole
// read-modify-write cycle.
//
// # Secondary Indexes
//
// [UniqueIndex] provides exact-match lookups by an arbitrary key and rejects
// mutations that would duplicate a key. It stays synchronized with table
// mutations via [TableObserver].
package memdb
