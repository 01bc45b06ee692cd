package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/NikolaGunchev/SnapBlog/internal/apperr"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore/memstore"
	"github.com/NikolaGunchev/SnapBlog/internal/models"
)

type fakeBlobs struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeBlobs) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	return nil
}

type fakeAccounts struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeAccounts) DeleteAccount(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, uid)
	return nil
}

func newTestService(t *testing.T) (*Service, *memstore.Store, *fakeBlobs, *fakeAccounts) {
	t.Helper()
	store := memstore.New()
	blobs := &fakeBlobs{}
	accounts := &fakeAccounts{}
	svc := New(store, blobs, accounts, zap.NewNop())
	return svc, store, blobs, accounts
}

func seedUser(t *testing.T, store *memstore.Store, uid string) {
	t.Helper()
	err := store.Create(context.Background(), "users/"+uid, map[string]any{
		"email":         uid + "@example.com",
		"username":      uid,
		"bio":           "",
		"groups":        []string{},
		"posts":         []string{},
		"comments":      []string{},
		"likedPosts":    []string{},
		"dislikedPosts": []string{},
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", uid, err)
	}
}

func wantCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("got nil error, want code %s", code)
	}
	if got := apperr.CodeOf(err); got != code {
		t.Fatalf("error code = %s, want %s (err: %v)", got, code, err)
	}
}

func getDoc(t *testing.T, store *memstore.Store, path string) docstore.Document {
	t.Helper()
	doc, err := store.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	return doc
}

func gone(t *testing.T, store *memstore.Store, path string) {
	t.Helper()
	if _, err := store.Get(context.Background(), path); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("%s still exists", path)
	}
}

func createGroup(t *testing.T, svc *Service, uid, name string) string {
	t.Helper()
	id, err := svc.CreateGroup(context.Background(), uid, models.CreateGroupRequest{
		Name:        name,
		Description: "a place to talk",
		Tags:        "go web photos",
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	return id
}

func queryComments(postID string) docstore.Query {
	return docstore.Query{Path: "posts/" + postID + "/comments"}
}

func createPost(t *testing.T, svc *Service, uid, groupID, title string) string {
	t.Helper()
	id, err := svc.CreatePost(context.Background(), uid, models.CreatePostRequest{
		GroupID:     groupID,
		Title:       title,
		Content:     "some content",
		CreatorName: uid,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return id
}
