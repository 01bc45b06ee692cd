// Package memstore is an in-process docstore adapter used for local
// development and tests. A single mutex serializes transactions, which
// gives every transaction a consistent snapshot and atomic commit.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

type Store struct {
	mu   sync.Mutex
	docs map[string]map[string]any
}

func New() *Store {
	return &Store{docs: make(map[string]map[string]any)}
}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Store) Get(_ context.Context, path string) (docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(path)
}

func (s *Store) Create(_ context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(path, data)
}

func (s *Store) Set(_ context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = resolveData(data)
	return nil
}

func (s *Store) Update(_ context.Context, path string, updates []docstore.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(path, updates)
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	return nil
}

func (s *Store) DeleteBatch(_ context.Context, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		delete(s.docs, p)
	}
	return nil
}

// RunTransaction holds the store lock for the duration of fn. Writes are
// applied in place; if fn fails the pre-transaction state is restored, so
// failed transactions leave nothing behind.
func (s *Store) RunTransaction(_ context.Context, fn func(tx docstore.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]map[string]any, len(s.docs))
	for p, d := range s.docs {
		snapshot[p] = deepCopyMap(d)
	}

	if err := fn(&tx{s: s}); err != nil {
		s.docs = snapshot
		return err
	}
	return nil
}

type tx struct {
	s *Store
}

func (t *tx) Get(path string) (docstore.Document, error) { return t.s.get(path) }
func (t *tx) Create(path string, data map[string]any) error {
	return t.s.create(path, data)
}
func (t *tx) Set(path string, data map[string]any) error {
	t.s.docs[path] = resolveData(data)
	return nil
}
func (t *tx) Update(path string, updates []docstore.Update) error {
	return t.s.update(path, updates)
}
func (t *tx) Delete(path string) error {
	delete(t.s.docs, path)
	return nil
}

func (s *Store) get(path string) (docstore.Document, error) {
	d, ok := s.docs[path]
	if !ok {
		return docstore.Document{}, docstore.ErrNotFound
	}
	return docstore.Document{Path: path, ID: lastSegment(path), Data: deepCopyMap(d)}, nil
}

func (s *Store) create(path string, data map[string]any) error {
	if _, ok := s.docs[path]; ok {
		return docstore.ErrAlreadyExists
	}
	s.docs[path] = resolveData(data)
	return nil
}

func (s *Store) update(path string, updates []docstore.Update) error {
	d, ok := s.docs[path]
	if !ok {
		return docstore.ErrNotFound
	}
	for _, u := range updates {
		applyUpdate(d, u)
	}
	return nil
}

func applyUpdate(doc map[string]any, u docstore.Update) {
	switch v := u.Value.(type) {
	case docstore.IncrementValue:
		doc[u.Field] = asInt(doc[u.Field]) + v.N
	case docstore.ArrayUnionValue:
		arr := asSlice(doc[u.Field])
		for _, e := range v.Elems {
			if !sliceContains(arr, e) {
				arr = append(arr, e)
			}
		}
		doc[u.Field] = arr
	case docstore.ArrayRemoveValue:
		arr := asSlice(doc[u.Field])
		kept := arr[:0]
		for _, cur := range arr {
			if !sliceContains(v.Elems, cur) {
				kept = append(kept, cur)
			}
		}
		doc[u.Field] = kept
	case docstore.ServerTimestampValue:
		doc[u.Field] = time.Now().UTC()
	case docstore.DeleteFieldValue:
		delete(doc, u.Field)
	default:
		doc[u.Field] = deepCopyValue(u.Value)
	}
}

func (s *Store) Query(_ context.Context, q docstore.Query) ([]docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []docstore.Document
	for path, data := range s.docs {
		if !pathMatches(path, q) {
			continue
		}
		doc := docstore.Document{Path: path, ID: lastSegment(path), Data: data}
		if !matchesFilters(doc, q.Filters) {
			continue
		}
		out = append(out, docstore.Document{Path: path, ID: doc.ID, Data: deepCopyMap(data)})
	}

	if q.OrderBy == "" {
		sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
		if q.StartAfter != "" {
			cursor := q.StartAfter
			if !q.Group {
				cursor = q.Path + "/" + q.StartAfter
			}
			kept := out[:0]
			for _, d := range out {
				if d.Path > cursor {
					kept = append(kept, d)
				}
			}
			out = kept
		}
	} else {
		field := q.OrderBy
		sort.Slice(out, func(i, j int) bool {
			less := compareValues(out[i].Data[field], out[j].Data[field]) < 0
			if q.Descending {
				return !less
			}
			return less
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func pathMatches(path string, q docstore.Query) bool {
	segs := strings.Split(path, "/")
	if q.Group {
		// Any document whose immediate collection has the given name.
		return len(segs) >= 2 && segs[len(segs)-2] == q.Path
	}
	prefix := q.Path + "/"
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return !strings.Contains(path[len(prefix):], "/")
}

func matchesFilters(d docstore.Document, filters []docstore.Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case "==":
			if compareValues(d.Data[f.Field], f.Value) != 0 {
				return false
			}
		case "array-contains":
			if !sliceContains(asSlice(d.Data[f.Field]), f.Value) {
				return false
			}
		case "<", "<=", ">", ">=":
			cmp := compareValues(d.Data[f.Field], f.Value)
			ok := (f.Op == "<" && cmp < 0) || (f.Op == "<=" && cmp <= 0) ||
				(f.Op == ">" && cmp > 0) || (f.Op == ">=" && cmp >= 0)
			if !ok {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues orders two field values of the same kind; numbers are
// normalized to int64 first.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case int, int32, int64, float64:
		ai, bi := asInt(a), asInt(b)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case nil:
		if b == nil {
			return 0
		}
		return -1
	}
	if fmt.Sprint(a) == fmt.Sprint(b) {
		return 0
	}
	return -1
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asSlice(v any) []any {
	switch arr := v.(type) {
	case []any:
		return arr
	case []string:
		out := make([]any, len(arr))
		for i, s := range arr {
			out[i] = s
		}
		return out
	}
	return nil
}

func sliceContains(arr []any, elem any) bool {
	for _, e := range arr {
		if compareValues(e, elem) == 0 {
			return true
		}
	}
	return false
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// resolveData deep-copies incoming data and resolves server timestamps.
func resolveData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(docstore.ServerTimestampValue); ok {
			out[k] = time.Now().UTC()
			continue
		}
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = e
		}
		return out
	}
	return v
}
