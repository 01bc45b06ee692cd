// Package docstore defines the document database port used by the mutation
// service and the deletion engine: point reads and writes addressed by
// slash-separated paths, field-level atomic transforms, single-attempt
// transactions, and paginated collection queries. Adapters exist for Cloud
// Firestore, MongoDB and an in-process store.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("docstore: document not found")
	ErrAlreadyExists = errors.New("docstore: document already exists")
)

// Document is a point-in-time snapshot of one stored document.
type Document struct {
	Path string // full path, e.g. "posts/p1/comments/c1"
	ID   string // last path segment
	Data map[string]any
}

// String returns the named field as a string, or "" when absent.
func (d Document) String(field string) string {
	v, _ := d.Data[field].(string)
	return v
}

// Int returns the named field as an int64, tolerating the numeric types the
// adapters hand back.
func (d Document) Int(field string) int64 {
	switch v := d.Data[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Strings returns the named array field as a string slice.
func (d Document) Strings(field string) []string {
	switch v := d.Data[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Time returns the named timestamp field, or the zero time when absent.
func (d Document) Time(field string) time.Time {
	v, _ := d.Data[field].(time.Time)
	return v
}

// Contains reports whether the named array field holds elem.
func (d Document) Contains(field, elem string) bool {
	for _, s := range d.Strings(field) {
		if s == elem {
			return true
		}
	}
	return false
}

// Update is a single field mutation. Value is either a plain value or one of
// the transform sentinels below.
type Update struct {
	Field string
	Value any
}

// Transform sentinels. Adapters translate these to the store's native
// field-level atomic operations, which is what keeps contended counters and
// membership sets consistent without read-modify-write.
type (
	IncrementValue       struct{ N int64 }
	ArrayUnionValue      struct{ Elems []any }
	ArrayRemoveValue     struct{ Elems []any }
	ServerTimestampValue struct{}
	DeleteFieldValue     struct{}
)

func Increment(n int64) any        { return IncrementValue{N: n} }
func ArrayUnion(elems ...any) any  { return ArrayUnionValue{Elems: elems} }
func ArrayRemove(elems ...any) any { return ArrayRemoveValue{Elems: elems} }
func ServerTimestamp() any         { return ServerTimestampValue{} }
func DeleteField() any             { return DeleteFieldValue{} }

// Filter is a single query predicate. Op is one of "==", "<", "<=", ">",
// ">=", "array-contains".
type Filter struct {
	Field string
	Op    string
	Value any
}

// Query describes a paginated collection read. With an empty OrderBy the
// results are ordered by document key; key ordering is the only ordering
// safe to paginate while documents are being deleted, so deletion cursors
// always use it.
type Query struct {
	Path       string // collection path, e.g. "posts" or "posts/p1/comments"
	Group      bool   // collection-group: treat Path as a collection name at any depth
	Filters    []Filter
	OrderBy    string // field name; empty means order by document key
	Descending bool
	StartAfter string // key cursor: a document ID, or a full path for group queries
	Limit      int    // 0 means no limit
}

// Tx is the limited transaction surface: reads observe a consistent
// snapshot, writes are applied atomically on commit, and a conflicting
// concurrent transaction aborts the whole attempt.
type Tx interface {
	Get(path string) (Document, error)
	Create(path string, data map[string]any) error
	Set(path string, data map[string]any) error
	Update(path string, updates []Update) error
	Delete(path string) error
}

// Store is the document database port. Deleting a missing document is a
// no-op on every implementation; deletes are idempotent by contract.
type Store interface {
	Get(ctx context.Context, path string) (Document, error)
	Create(ctx context.Context, path string, data map[string]any) error
	Set(ctx context.Context, path string, data map[string]any) error
	Update(ctx context.Context, path string, updates []Update) error
	Delete(ctx context.Context, path string) error

	// RunTransaction executes fn in one logical attempt; a write conflict
	// aborts and surfaces as an error. Business errors returned by fn pass
	// through unchanged.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error

	Query(ctx context.Context, q Query) ([]Document, error)

	// DeleteBatch removes the given documents as one atomic batch.
	DeleteBatch(ctx context.Context, paths []string) error
}
