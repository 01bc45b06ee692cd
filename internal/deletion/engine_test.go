package deletion

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore/memstore"
)

func TestDeleteCollectionAcrossPages(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	// One more document than two full pages, so the drain loop must follow
	// the cursor twice and then stop on a short page.
	const n = 21
	for i := 0; i < n; i++ {
		mustCreate(t, store, fmt.Sprintf("posts/p%02d", i), map[string]any{"title": "x"})
	}

	e := NewEngine(store, 10, zap.NewNop())
	if err := e.DeleteCollection(ctx, "posts", nil); err != nil {
		t.Fatalf("DeleteCollection: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("%d documents left", store.Len())
	}
}

func TestDeleteCollectionEmpty(t *testing.T) {
	e := NewEngine(memstore.New(), 10, zap.NewNop())
	if err := e.DeleteCollection(context.Background(), "posts", nil); err != nil {
		t.Fatalf("empty collection: %v", err)
	}
}

func TestDeleteMatchingWithCascade(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	for i := 0; i < 3; i++ {
		postPath := fmt.Sprintf("posts/p%d", i)
		mustCreate(t, store, postPath, map[string]any{"groupId": "g1"})
		for j := 0; j < 4; j++ {
			mustCreate(t, store, fmt.Sprintf("%s/comments/c%d", postPath, j), map[string]any{"text": "hi"})
		}
	}
	mustCreate(t, store, "posts/other", map[string]any{"groupId": "g2"})
	mustCreate(t, store, "posts/other/comments/c0", map[string]any{"text": "keep"})

	e := NewEngine(store, 10, zap.NewNop())
	cascade := &Cascade{Subcollections: []Sub{{Name: "comments"}}}
	err := e.DeleteMatching(ctx, "posts",
		[]docstore.Filter{{Field: "groupId", Op: "==", Value: "g1"}}, cascade)
	if err != nil {
		t.Fatalf("DeleteMatching: %v", err)
	}

	// Only the unrelated post and its comment remain.
	if store.Len() != 2 {
		t.Fatalf("%d documents left, want 2", store.Len())
	}
	if _, err := store.Get(ctx, "posts/other/comments/c0"); err != nil {
		t.Errorf("unrelated comment was deleted: %v", err)
	}
}

func TestReferenceCascade(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	mustCreate(t, store, "groups/g1", map[string]any{"creatorId": "u1"})
	mustCreate(t, store, "posts/p1", map[string]any{"groupId": "g1"})
	mustCreate(t, store, "posts/p1/comments/c1", map[string]any{})
	mustCreate(t, store, "posts/p2", map[string]any{"groupId": "gX"})

	e := NewEngine(store, 10, zap.NewNop())
	cascade := &Cascade{
		References: []Ref{{
			Collection: "posts",
			Field:      "groupId",
			Cascade:    &Cascade{Subcollections: []Sub{{Name: "comments"}}},
		}},
	}
	err := e.DeleteMatching(ctx, "groups",
		[]docstore.Filter{{Field: "creatorId", Op: "==", Value: "u1"}}, cascade)
	if err != nil {
		t.Fatalf("DeleteMatching: %v", err)
	}

	for _, path := range []string{"groups/g1", "posts/p1", "posts/p1/comments/c1"} {
		if _, err := store.Get(ctx, path); err == nil {
			t.Errorf("%s survived the cascade", path)
		}
	}
	if _, err := store.Get(ctx, "posts/p2"); err != nil {
		t.Errorf("post of another group was deleted: %v", err)
	}
}

func TestDeleteCollectionGroupWithHook(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	mustCreate(t, store, "posts/p1/comments/c1", map[string]any{"creatorId": "u1"})
	mustCreate(t, store, "posts/p1/comments/c2", map[string]any{"creatorId": "u2"})
	mustCreate(t, store, "posts/p2/comments/c3", map[string]any{"creatorId": "u1"})

	var seen []string
	e := NewEngine(store, 2, zap.NewNop())
	err := e.DeleteCollectionGroup(ctx, "comments",
		[]docstore.Filter{{Field: "creatorId", Op: "==", Value: "u1"}},
		func(_ context.Context, d docstore.Document) { seen = append(seen, d.Path) })
	if err != nil {
		t.Fatalf("DeleteCollectionGroup: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("hook ran %d times, want 2: %v", len(seen), seen)
	}
	if _, err := store.Get(ctx, "posts/p1/comments/c2"); err != nil {
		t.Errorf("comment of another user was deleted: %v", err)
	}
}

func mustCreate(t *testing.T, store *memstore.Store, path string, data map[string]any) {
	t.Helper()
	if err := store.Create(context.Background(), path, data); err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
}
