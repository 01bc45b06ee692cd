// Package deletion removes document trees in bounded, key-ordered batches.
// Each page is one atomic batch delete; pagination continues after the last
// key while full pages keep coming, so memory stays bounded to a single
// page and documents are never skipped while the set shrinks underneath
// the cursor. Pages are not atomic with each other: a failure aborts the
// current page only, already-committed pages stay deleted, and the whole
// routine is safe to re-run.
package deletion

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

// DefaultBatchSize is the page size, chosen to stay under the store's
// per-transaction write limit.
const DefaultBatchSize = 100

// Cascade declares what lives beneath each document of a collection.
type Cascade struct {
	Subcollections []Sub
	References     []Ref
}

// Sub names a child collection stored under the document itself.
type Sub struct {
	Name    string
	Cascade *Cascade
}

// Ref names a top-level collection whose documents point back at the parent
// through Field.
type Ref struct {
	Collection string
	Field      string
	Cascade    *Cascade
}

type Engine struct {
	store     docstore.Store
	batchSize int
	log       *zap.Logger
}

func NewEngine(store docstore.Store, batchSize int, log *zap.Logger) *Engine {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Engine{store: store, batchSize: batchSize, log: log}
}

// DeleteCollection deletes every document in the collection at path,
// applying cascade to each document. An empty or missing collection is a
// no-op.
func (e *Engine) DeleteCollection(ctx context.Context, path string, cascade *Cascade) error {
	return e.drain(ctx, docstore.Query{Path: path}, cascade, nil)
}

// DeleteMatching deletes every document of coll matching filters, applying
// cascade to each document.
func (e *Engine) DeleteMatching(ctx context.Context, coll string, filters []docstore.Filter, cascade *Cascade) error {
	return e.drain(ctx, docstore.Query{Path: coll, Filters: filters}, cascade, nil)
}

// DeleteCollectionGroup deletes every document of any collection named name
// matching filters, wherever it lives. onDelete, when set, runs for each
// document after its page has committed.
func (e *Engine) DeleteCollectionGroup(ctx context.Context, name string, filters []docstore.Filter, onDelete func(context.Context, docstore.Document)) error {
	return e.drain(ctx, docstore.Query{Path: name, Group: true, Filters: filters}, nil, onDelete)
}

func (e *Engine) drain(ctx context.Context, base docstore.Query, cascade *Cascade, onDelete func(context.Context, docstore.Document)) error {
	cursor := ""
	for {
		q := base
		q.Limit = e.batchSize
		q.StartAfter = cursor
		docs, err := e.store.Query(ctx, q)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}

		// The page's batch delete and the per-document child deletions run
		// as independent tasks; the next page starts only after all of
		// them have finished.
		g, gctx := errgroup.WithContext(ctx)
		paths := make([]string, len(docs))
		for i, d := range docs {
			paths[i] = d.Path
		}
		g.Go(func() error {
			return e.store.DeleteBatch(gctx, paths)
		})
		if cascade != nil {
			for _, d := range docs {
				e.spawnCascade(gctx, g, d, cascade)
			}
		}
		if err := g.Wait(); err != nil {
			return err
		}
		e.log.Debug("deleted page",
			zap.String("collection", base.Path),
			zap.Int("count", len(docs)))

		if onDelete != nil {
			for _, d := range docs {
				onDelete(ctx, d)
			}
		}
		if len(docs) < e.batchSize {
			return nil
		}
		last := docs[len(docs)-1]
		if base.Group {
			cursor = last.Path
		} else {
			cursor = last.ID
		}
	}
}

func (e *Engine) spawnCascade(ctx context.Context, g *errgroup.Group, d docstore.Document, c *Cascade) {
	for _, sub := range c.Subcollections {
		path := d.Path + "/" + sub.Name
		child := sub.Cascade
		g.Go(func() error {
			return e.DeleteCollection(ctx, path, child)
		})
	}
	for _, ref := range c.References {
		coll, field, child := ref.Collection, ref.Field, ref.Cascade
		id := d.ID
		g.Go(func() error {
			return e.DeleteMatching(ctx, coll, []docstore.Filter{{Field: field, Op: "==", Value: id}}, child)
		})
	}
}
