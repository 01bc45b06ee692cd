// Package firestorestore adapts Cloud Firestore to the docstore port.
// Transforms map to Firestore field transforms, transactions run with a
// single attempt, and batch deletes commit as one write batch.
package firestorestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Document, error) {
	snap, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		return docstore.Document{}, mapErr(err)
	}
	return snapshotDoc(snap), nil
}

func (s *Store) Create(ctx context.Context, path string, data map[string]any) error {
	_, err := s.client.Doc(path).Create(ctx, resolveData(data))
	return mapErr(err)
}

func (s *Store) Set(ctx context.Context, path string, data map[string]any) error {
	_, err := s.client.Doc(path).Set(ctx, resolveData(data))
	return mapErr(err)
}

func (s *Store) Update(ctx context.Context, path string, updates []docstore.Update) error {
	_, err := s.client.Doc(path).Update(ctx, toUpdates(updates))
	return mapErr(err)
}

func (s *Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.Doc(path).Delete(ctx)
	return mapErr(err)
}

func (s *Store) DeleteBatch(ctx context.Context, paths []string) error {
	batch := s.client.Batch()
	for _, p := range paths {
		batch.Delete(s.client.Doc(p))
	}
	_, err := batch.Commit(ctx)
	return mapErr(err)
}

// RunTransaction runs fn with optimistic concurrency and no retries: a
// conflicting concurrent transaction surfaces as an error to the caller.
func (s *Store) RunTransaction(ctx context.Context, fn func(tx docstore.Tx) error) error {
	return s.client.RunTransaction(ctx, func(_ context.Context, t *firestore.Transaction) error {
		return fn(&tx{s: s, t: t})
	}, firestore.MaxAttempts(1))
}

type tx struct {
	s *Store
	t *firestore.Transaction
}

func (x *tx) Get(path string) (docstore.Document, error) {
	snap, err := x.t.Get(x.s.client.Doc(path))
	if err != nil {
		return docstore.Document{}, mapErr(err)
	}
	return snapshotDoc(snap), nil
}

func (x *tx) Create(path string, data map[string]any) error {
	return mapErr(x.t.Create(x.s.client.Doc(path), resolveData(data)))
}

func (x *tx) Set(path string, data map[string]any) error {
	return mapErr(x.t.Set(x.s.client.Doc(path), resolveData(data)))
}

func (x *tx) Update(path string, updates []docstore.Update) error {
	return mapErr(x.t.Update(x.s.client.Doc(path), toUpdates(updates)))
}

func (x *tx) Delete(path string) error {
	return mapErr(x.t.Delete(x.s.client.Doc(path)))
}

func (s *Store) Query(ctx context.Context, gq docstore.Query) ([]docstore.Document, error) {
	var q firestore.Query
	if gq.Group {
		q = s.client.CollectionGroup(gq.Path).Query
	} else {
		q = s.client.Collection(gq.Path).Query
	}
	for _, f := range gq.Filters {
		q = q.Where(f.Field, f.Op, f.Value)
	}
	if gq.OrderBy != "" {
		dir := firestore.Asc
		if gq.Descending {
			dir = firestore.Desc
		}
		q = q.OrderBy(gq.OrderBy, dir)
	} else {
		q = q.OrderBy(firestore.DocumentID, firestore.Asc)
		if gq.StartAfter != "" {
			// Group query cursors are full paths; plain ones are IDs.
			if gq.Group {
				q = q.StartAfter(s.client.Doc(gq.StartAfter))
			} else {
				q = q.StartAfter(gq.StartAfter)
			}
		}
	}
	if gq.Limit > 0 {
		q = q.Limit(gq.Limit)
	}

	var out []docstore.Document
	it := q.Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, snapshotDoc(snap))
	}
}

func snapshotDoc(snap *firestore.DocumentSnapshot) docstore.Document {
	return docstore.Document{
		Path: relPath(snap.Ref),
		ID:   snap.Ref.ID,
		Data: snap.Data(),
	}
}

// relPath strips the resource-name prefix, leaving the collection-relative
// path used throughout the port.
func relPath(ref *firestore.DocumentRef) string {
	const marker = "/documents/"
	if i := strings.Index(ref.Path, marker); i >= 0 {
		return ref.Path[i+len(marker):]
	}
	return ref.Path
}

func toUpdates(updates []docstore.Update) []firestore.Update {
	out := make([]firestore.Update, len(updates))
	for i, u := range updates {
		out[i] = firestore.Update{Path: u.Field, Value: toValue(u.Value)}
	}
	return out
}

func resolveData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = toValue(v)
	}
	return out
}

func toValue(v any) any {
	switch t := v.(type) {
	case docstore.IncrementValue:
		return firestore.Increment(t.N)
	case docstore.ArrayUnionValue:
		return firestore.ArrayUnion(t.Elems...)
	case docstore.ArrayRemoveValue:
		return firestore.ArrayRemove(t.Elems...)
	case docstore.ServerTimestampValue:
		return firestore.ServerTimestamp
	case docstore.DeleteFieldValue:
		return firestore.Delete
	}
	return v
}

func mapErr(err error) error {
	switch status.Code(err) {
	case codes.OK:
		return nil
	case codes.NotFound:
		return docstore.ErrNotFound
	case codes.AlreadyExists:
		return docstore.ErrAlreadyExists
	}
	return err
}
