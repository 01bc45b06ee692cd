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

// CreatePost creates a post in a group and records the ownership on the
// caller's profile. A post needs a title and at least one of content or
// image. Returns the new post id.
func (s *Service) CreatePost(ctx context.Context, uid string, req models.CreatePostRequest) (string, error) {
	if err := requireAuth(uid); err != nil {
		return "", err
	}
	if req.GroupID == "" {
		return "", apperr.New(apperr.InvalidArgument, "groupId is required")
	}
	title := strings.TrimSpace(req.Title)
	if len(title) < 5 {
		return "", apperr.New(apperr.InvalidArgument, "title must be at least 5 characters")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == "" {
		return "", apperr.New(apperr.InvalidArgument, "either content or imageUrl is required")
	}
	creatorName := strings.TrimSpace(req.CreatorName)
	if creatorName == "" {
		return "", apperr.New(apperr.InvalidArgument, "creatorName is required")
	}

	postID := uuid.NewString()
	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		if _, err := tx.Get(userPath(uid)); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return apperr.New(apperr.NotFound, "user profile not found")
			}
			return err
		}

		data := map[string]any{
			"groupId":       req.GroupID,
			"userId":        uid,
			"creatorName":   creatorName,
			"title":         title,
			"commentsCount": int64(0),
			"likesCount":    int64(0),
			"createdAt":     docstore.ServerTimestamp(),
		}
		if content != "" {
			data["content"] = content
		}
		if req.ImageURL != "" {
			data["imageUrl"] = req.ImageURL
		}
		if err := tx.Create(postPath(postID), data); err != nil {
			return err
		}
		return tx.Update(userPath(uid), []docstore.Update{
			{Field: "posts", Value: docstore.ArrayUnion(postID)},
		})
	})
	if err != nil {
		return "", s.opErr("createPost", err)
	}
	return postID, nil
}

// EditPost applies the provided fields. A post must always end up with
// non-empty content: provided content must be non-empty, and when content
// is not provided the existing content must already be non-empty.
func (s *Service) EditPost(ctx context.Context, uid string, req models.EditPostRequest) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if req.PostID == "" {
		return apperr.New(apperr.InvalidArgument, "postId is required")
	}

	post, err := s.store.Get(ctx, postPath(req.PostID))
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.New(apperr.NotFound, "post not found")
	}
	if err != nil {
		return s.opErr("editPost", err)
	}
	if post.String("userId") != uid {
		return apperr.New(apperr.PermissionDenied, "only the post owner can edit the post")
	}

	var updates []docstore.Update
	var oldBlobs []string

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < 5 {
			return apperr.New(apperr.InvalidArgument, "title must be at least 5 characters")
		}
		updates = append(updates, docstore.Update{Field: "title", Value: title})
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return apperr.New(apperr.InvalidArgument, "content must not be empty")
		}
		updates = append(updates, docstore.Update{Field: "content", Value: content})
	} else if strings.TrimSpace(post.String("content")) == "" {
		return apperr.New(apperr.InvalidArgument, "post content must not be empty")
	}
	updates, oldBlobs = applyImageField(updates, oldBlobs, post, "imageUrl", req.NewImageURL)

	if len(updates) == 0 {
		return nil
	}
	if err := s.store.Update(ctx, post.Path, updates); err != nil {
		return s.opErr("editPost", err)
	}
	for _, u := range oldBlobs {
		s.deleteBlob(ctx, u)
	}
	return nil
}

// DeletePost removes the post document and the ownership entry in one
// transaction, then cascades the post's comments in the background.
func (s *Service) DeletePost(ctx context.Context, uid, postID string) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if postID == "" {
		return apperr.New(apperr.InvalidArgument, "postId is required")
	}

	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		post, err := tx.Get(postPath(postID))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "post not found")
		}
		if err != nil {
			return err
		}
		if post.String("userId") != uid {
			return apperr.New(apperr.PermissionDenied, "only the post owner can delete the post")
		}
		if err := tx.Delete(post.Path); err != nil {
			return err
		}
		return tx.Update(userPath(uid), []docstore.Update{
			{Field: "posts", Value: docstore.ArrayRemove(postID)},
		})
	})
	if err != nil {
		return s.opErr("deletePost", err)
	}

	s.background("deletePost", func(ctx context.Context) error {
		return s.deleter.DeleteCollection(ctx, postPath(postID)+"/comments", nil)
	})
	return nil
}

// LikePost adds the post to the caller's liked set and bumps the post's
// like counter, atomically. Liking twice fails.
func (s *Service) LikePost(ctx context.Context, uid, postID string) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if postID == "" {
		return apperr.New(apperr.InvalidArgument, "postId is required")
	}

	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		post, err := tx.Get(postPath(postID))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "post not found")
		}
		if err != nil {
			return err
		}
		user, err := tx.Get(userPath(uid))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user profile not found")
		}
		if err != nil {
			return err
		}
		if user.Contains("likedPosts", postID) {
			return apperr.New(apperr.AlreadyExists, "post already liked")
		}

		if err := tx.Update(post.Path, []docstore.Update{
			{Field: "likesCount", Value: docstore.Increment(1)},
		}); err != nil {
			return err
		}
		return tx.Update(user.Path, []docstore.Update{
			{Field: "likedPosts", Value: docstore.ArrayUnion(postID)},
		})
	})
	return s.opErr("likePost", err)
}

// UnlikePost is the inverse of LikePost.
func (s *Service) UnlikePost(ctx context.Context, uid, postID string) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if postID == "" {
		return apperr.New(apperr.InvalidArgument, "postId is required")
	}

	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		post, err := tx.Get(postPath(postID))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "post not found")
		}
		if err != nil {
			return err
		}
		user, err := tx.Get(userPath(uid))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user profile not found")
		}
		if err != nil {
			return err
		}
		if !user.Contains("likedPosts", postID) {
			return apperr.New(apperr.FailedPrecondition, "post is not liked")
		}

		if err := tx.Update(post.Path, []docstore.Update{
			{Field: "likesCount", Value: docstore.Increment(-1)},
		}); err != nil {
			return err
		}
		return tx.Update(user.Path, []docstore.Update{
			{Field: "likedPosts", Value: docstore.ArrayRemove(postID)},
		})
	})
	return s.opErr("unlikePost", err)
}
