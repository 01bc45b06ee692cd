package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/NikolaGunchev/SnapBlog/internal/apperr"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
	"github.com/NikolaGunchev/SnapBlog/internal/models"
)

// PostComment creates a comment under a post and bumps the post's comment
// counter in the same transaction. The comment id is also recorded on the
// caller's profile when one exists. Returns the new comment id.
func (s *Service) PostComment(ctx context.Context, uid string, req models.PostCommentRequest) (string, error) {
	if err := requireAuth(uid); err != nil {
		return "", err
	}
	if req.PostID == "" {
		return "", apperr.New(apperr.InvalidArgument, "postId is required")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", apperr.New(apperr.InvalidArgument, "text must not be empty")
	}
	creatorName := strings.TrimSpace(req.CreatorName)
	if creatorName == "" {
		return "", apperr.New(apperr.InvalidArgument, "creatorName is required")
	}

	commentID := uuid.NewString()
	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		post, err := tx.Get(postPath(req.PostID))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "post not found")
		}
		if err != nil {
			return err
		}
		_, userErr := tx.Get(userPath(uid))
		if userErr != nil && !errors.Is(userErr, docstore.ErrNotFound) {
			return userErr
		}

		if err := tx.Create(commentPath(req.PostID, commentID), map[string]any{
			"postId":      req.PostID,
			"creatorId":   uid,
			"creatorName": creatorName,
			"text":        text,
			"likes":       int64(0),
			"createdAt":   docstore.ServerTimestamp(),
		}); err != nil {
			return err
		}
		if err := tx.Update(post.Path, []docstore.Update{
			{Field: "commentsCount", Value: docstore.Increment(1)},
		}); err != nil {
			return err
		}
		if userErr == nil {
			return tx.Update(userPath(uid), []docstore.Update{
				{Field: "comments", Value: docstore.ArrayUnion(commentID)},
			})
		}
		return nil
	})
	if err != nil {
		return "", s.opErr("postComment", err)
	}
	return commentID, nil
}

// DeleteComment removes a comment and decrements the parent post's counter
// in the same transaction.
func (s *Service) DeleteComment(ctx context.Context, uid string, req models.DeleteCommentRequest) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if req.PostID == "" || req.CommentID == "" {
		return apperr.New(apperr.InvalidArgument, "postId and commentId are required")
	}

	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		comment, err := tx.Get(commentPath(req.PostID, req.CommentID))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "comment not found")
		}
		if err != nil {
			return err
		}
		if comment.String("creatorId") != uid {
			return apperr.New(apperr.PermissionDenied, "only the comment creator can delete the comment")
		}
		_, postErr := tx.Get(postPath(req.PostID))
		if postErr != nil && !errors.Is(postErr, docstore.ErrNotFound) {
			return postErr
		}
		_, userErr := tx.Get(userPath(uid))
		if userErr != nil && !errors.Is(userErr, docstore.ErrNotFound) {
			return userErr
		}

		if err := tx.Delete(comment.Path); err != nil {
			return err
		}
		if postErr == nil {
			if err := tx.Update(postPath(req.PostID), []docstore.Update{
				{Field: "commentsCount", Value: docstore.Increment(-1)},
			}); err != nil {
				return err
			}
		}
		if userErr == nil {
			return tx.Update(userPath(uid), []docstore.Update{
				{Field: "comments", Value: docstore.ArrayRemove(req.CommentID)},
			})
		}
		return nil
	})
	return s.opErr("deleteComment", err)
}
