package service

import (
	"context"
	"testing"

	"github.com/NikolaGunchev/SnapBlog/internal/apperr"
	"github.com/NikolaGunchev/SnapBlog/internal/models"
)

func TestPostComment(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newTestService(t)
	seedUser(t, store, "u1")
	seedUser(t, store, "u2")
	pid := createPost(t, svc, "u1", "g1", "hello world")

	cid, err := svc.PostComment(ctx, "u2", models.PostCommentRequest{
		PostID: pid, Text: "great post", CreatorName: "u2",
	})
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}

	comment := getDoc(t, store, "posts/"+pid+"/comments/"+cid)
	if comment.String("creatorId") != "u2" || comment.String("text") != "great post" {
		t.Errorf("comment = %+v", comment.Data)
	}
	if got := getDoc(t, store, "posts/"+pid).Int("commentsCount"); got != 1 {
		t.Errorf("commentsCount = %d", got)
	}
	if !getDoc(t, store, "users/u2").Contains("comments", cid) {
		t.Error("comment not mirrored on the commenter profile")
	}

	_, err = svc.PostComment(ctx, "u2", models.PostCommentRequest{
		PostID: "missing", Text: "hi", CreatorName: "u2",
	})
	wantCode(t, err, apperr.NotFound)

	_, err = svc.PostComment(ctx, "u2", models.PostCommentRequest{
		PostID: pid, Text: "  ", CreatorName: "u2",
	})
	wantCode(t, err, apperr.InvalidArgument)
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newTestService(t)
	seedUser(t, store, "u1")
	seedUser(t, store, "u2")
	pid := createPost(t, svc, "u1", "g1", "hello world")
	cid, err := svc.PostComment(ctx, "u2", models.PostCommentRequest{
		PostID: pid, Text: "great post", CreatorName: "u2",
	})
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}

	// Only the comment creator can delete, not even the post owner.
	wantCode(t, svc.DeleteComment(ctx, "u1", models.DeleteCommentRequest{PostID: pid, CommentID: cid}),
		apperr.PermissionDenied)

	if err := svc.DeleteComment(ctx, "u2", models.DeleteCommentRequest{PostID: pid, CommentID: cid}); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	gone(t, store, "posts/"+pid+"/comments/"+cid)
	if got := getDoc(t, store, "posts/"+pid).Int("commentsCount"); got != 0 {
		t.Errorf("commentsCount = %d", got)
	}
	if getDoc(t, store, "users/u2").Contains("comments", cid) {
		t.Error("comment still mirrored on the commenter profile")
	}

	wantCode(t, svc.DeleteComment(ctx, "u2", models.DeleteCommentRequest{PostID: pid, CommentID: cid}),
		apperr.NotFound)
}
