// Package service implements the forum's mutation operations: group
// membership, content creation and editing, and the deletion flows. Every
// consistency-critical mutation runs inside one store transaction, and
// contended fields (member sets, counters, like sets) are only ever touched
// through the store's atomic field transforms.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/NikolaGunchev/SnapBlog/internal/apperr"
	"github.com/NikolaGunchev/SnapBlog/internal/blob"
	"github.com/NikolaGunchev/SnapBlog/internal/deletion"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

// AccountDeleter removes the identity-provider account behind a profile.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, uid string) error
}

const backgroundTimeout = 5 * time.Minute

type Service struct {
	store    docstore.Store
	blobs    blob.Deleter
	accounts AccountDeleter
	deleter  *deletion.Engine
	log      *zap.Logger
	bg       sync.WaitGroup
}

func New(store docstore.Store, blobs blob.Deleter, accounts AccountDeleter, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		blobs:    blobs,
		accounts: accounts,
		deleter:  deletion.NewEngine(store, deletion.DefaultBatchSize, log),
		log:      log,
	}
}

// Wait blocks until all background cascades have finished. Called on
// shutdown and by tests.
func (s *Service) Wait() { s.bg.Wait() }

// postCascade removes the comments child collection under each post.
var postCascade = &deletion.Cascade{
	Subcollections: []deletion.Sub{{Name: "comments"}},
}

// groupCascade removes the posts referencing each group, and transitively
// their comments.
var groupCascade = &deletion.Cascade{
	References: []deletion.Ref{{Collection: "posts", Field: "groupId", Cascade: postCascade}},
}

func userPath(id string) string  { return "users/" + id }
func groupPath(id string) string { return "groups/" + id }
func postPath(id string) string  { return "posts/" + id }
func commentPath(postID, commentID string) string {
	return "posts/" + postID + "/comments/" + commentID
}

// background runs a cascade detached from the request; failures are logged,
// never surfaced, and the work is retry-safe because every delete is
// idempotent.
func (s *Service) background(op string, fn func(ctx context.Context) error) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.log.Error("background deletion failed", zap.String("op", op), zap.Error(err))
		}
	}()
}

// deleteBlob removes the object behind a download URL, best-effort. URLs
// outside the upload convention are skipped silently.
func (s *Service) deleteBlob(ctx context.Context, rawURL string) {
	path := blob.PathFromURL(rawURL)
	if path == "" {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		s.log.Warn("blob delete failed", zap.String("path", path), zap.Error(err))
	}
}

// opErr passes typed errors through and wraps anything unexpected as
// internal, logging the cause.
func (s *Service) opErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	s.log.Error("operation failed", zap.String("op", op), zap.Error(err))
	return apperr.Wrap(err, op+" failed")
}

// parseTokens splits a single-space-delimited string into trimmed,
// non-empty tokens.
func parseTokens(s string) []string {
	parts := strings.Split(s, " ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func requireAuth(uid string) error {
	if uid == "" {
		return apperr.New(apperr.Unauthenticated, "authentication required")
	}
	return nil
}
