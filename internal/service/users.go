package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/NikolaGunchev/SnapBlog/internal/apperr"
	"github.com/NikolaGunchev/SnapBlog/internal/deletion"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
	"github.com/NikolaGunchev/SnapBlog/internal/models"
)

// Register creates the caller's profile document. The profile id is the
// identity subject, so registering twice fails with already-exists.
func (s *Service) Register(ctx context.Context, uid string, req models.RegisterRequest) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return apperr.New(apperr.InvalidArgument, "username must be at least 3 characters")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return apperr.New(apperr.InvalidArgument, "email is required")
	}

	err := s.store.Create(ctx, userPath(uid), map[string]any{
		"email":         email,
		"username":      username,
		"bio":           "",
		"groups":        []string{},
		"posts":         []string{},
		"comments":      []string{},
		"likedPosts":    []string{},
		"dislikedPosts": []string{},
		"createdAt":     docstore.ServerTimestamp(),
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return apperr.New(apperr.AlreadyExists, "profile already exists")
	}
	return s.opErr("register", err)
}

// EditProfile applies the provided fields only.
func (s *Service) EditProfile(ctx context.Context, uid string, req models.EditProfileRequest) error {
	if err := requireAuth(uid); err != nil {
		return err
	}

	var updates []docstore.Update
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if len(username) < 3 {
			return apperr.New(apperr.InvalidArgument, "username must be at least 3 characters")
		}
		updates = append(updates, docstore.Update{Field: "username", Value: username})
	}
	if req.Bio != nil {
		updates = append(updates, docstore.Update{Field: "bio", Value: strings.TrimSpace(*req.Bio)})
	}
	if len(updates) == 0 {
		return nil
	}

	err := s.store.Update(ctx, userPath(uid), updates)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.New(apperr.NotFound, "user profile not found")
	}
	return s.opErr("editProfile", err)
}

// DeleteUserAccount tears down everything the caller owns, in an order that
// keeps counters honest: comments on other people's posts first (with the
// parent counters decremented), then owned posts, then owned groups, then
// the memberships, then the profile, and finally the identity-provider
// account. Each step is idempotent, so a failed run can be repeated.
func (s *Service) DeleteUserAccount(ctx context.Context, uid string) error {
	if err := requireAuth(uid); err != nil {
		return err
	}

	byCreator := []docstore.Filter{{Field: "creatorId", Op: "==", Value: uid}}

	err := s.deleter.DeleteCollectionGroup(ctx, "comments", byCreator, func(ctx context.Context, d docstore.Document) {
		parent := parentDocPath(d.Path)
		if parent == "" {
			return
		}
		err := s.store.Update(ctx, parent, []docstore.Update{
			{Field: "commentsCount", Value: docstore.Increment(-1)},
		})
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			s.log.Warn("comment counter decrement failed", zap.String("post", parent), zap.Error(err))
		}
	})
	if err != nil {
		return s.opErr("deleteUserAccount", err)
	}

	if err := s.deleter.DeleteMatching(ctx, "posts",
		[]docstore.Filter{{Field: "userId", Op: "==", Value: uid}}, postCascade); err != nil {
		return s.opErr("deleteUserAccount", err)
	}

	if err := s.deleter.DeleteMatching(ctx, "groups", byCreator, groupCascade); err != nil {
		return s.opErr("deleteUserAccount", err)
	}

	if err := s.leaveAllGroups(ctx, uid); err != nil {
		return s.opErr("deleteUserAccount", err)
	}

	if err := s.store.Delete(ctx, userPath(uid)); err != nil {
		return s.opErr("deleteUserAccount", err)
	}

	if err := s.accounts.DeleteAccount(ctx, uid); err != nil {
		return s.opErr("deleteUserAccount", err)
	}
	return nil
}

// leaveAllGroups withdraws the user from every group whose member set still
// holds them. Removal shrinks the result set, so each pass re-queries from
// the start until nothing matches.
func (s *Service) leaveAllGroups(ctx context.Context, uid string) error {
	for {
		docs, err := s.store.Query(ctx, docstore.Query{
			Path:    "groups",
			Filters: []docstore.Filter{{Field: "members", Op: "array-contains", Value: uid}},
			Limit:   deletion.DefaultBatchSize,
		})
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		for _, d := range docs {
			err := s.store.Update(ctx, d.Path, []docstore.Update{
				{Field: "members", Value: docstore.ArrayRemove(uid)},
				{Field: "memberCount", Value: docstore.Increment(-1)},
			})
			if err != nil && !errors.Is(err, docstore.ErrNotFound) {
				return err
			}
		}
		if len(docs) < deletion.DefaultBatchSize {
			return nil
		}
	}
}

// parentDocPath strips the last two segments, mapping a child document back
// to the document that owns its collection. Top-level paths have no parent.
func parentDocPath(path string) string {
	segs := strings.Split(path, "/")
	if len(segs) < 4 {
		return ""
	}
	return strings.Join(segs[:len(segs)-2], "/")
}
