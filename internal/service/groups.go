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

// JoinGroup adds the caller to the group's member set and mirrors the
// membership on the caller's profile, atomically.
func (s *Service) JoinGroup(ctx context.Context, uid, groupID string) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if groupID == "" {
		return apperr.New(apperr.InvalidArgument, "groupId is required")
	}

	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		group, err := tx.Get(groupPath(groupID))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "group not found")
		}
		if err != nil {
			return err
		}
		if _, err := tx.Get(userPath(uid)); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return apperr.New(apperr.NotFound, "user profile not found")
			}
			return err
		}
		if group.Contains("members", uid) {
			return apperr.New(apperr.AlreadyExists, "user is already a member of this group")
		}

		if err := tx.Update(group.Path, []docstore.Update{
			{Field: "members", Value: docstore.ArrayUnion(uid)},
			{Field: "memberCount", Value: docstore.Increment(1)},
		}); err != nil {
			return err
		}
		return tx.Update(userPath(uid), []docstore.Update{
			{Field: "groups", Value: docstore.ArrayUnion(groupID)},
		})
	})
	return s.opErr("joinGroup", err)
}

// LeaveGroup is the inverse of JoinGroup; leaving a group the caller is not
// in fails without touching anything.
func (s *Service) LeaveGroup(ctx context.Context, uid, groupID string) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if groupID == "" {
		return apperr.New(apperr.InvalidArgument, "groupId is required")
	}

	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		group, err := tx.Get(groupPath(groupID))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "group not found")
		}
		if err != nil {
			return err
		}
		if _, err := tx.Get(userPath(uid)); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return apperr.New(apperr.NotFound, "user profile not found")
			}
			return err
		}
		if !group.Contains("members", uid) {
			return apperr.New(apperr.FailedPrecondition, "user is not a member of this group")
		}

		if err := tx.Update(group.Path, []docstore.Update{
			{Field: "members", Value: docstore.ArrayRemove(uid)},
			{Field: "memberCount", Value: docstore.Increment(-1)},
		}); err != nil {
			return err
		}
		return tx.Update(userPath(uid), []docstore.Update{
			{Field: "groups", Value: docstore.ArrayRemove(groupID)},
		})
	})
	return s.opErr("leaveGroup", err)
}

// CreateGroup creates a group with the caller as sole member and records
// the ownership on the caller's profile. Returns the new group id.
func (s *Service) CreateGroup(ctx context.Context, uid string, req models.CreateGroupRequest) (string, error) {
	if err := requireAuth(uid); err != nil {
		return "", err
	}
	name := strings.TrimSpace(req.Name)
	if len(name) < 4 {
		return "", apperr.New(apperr.InvalidArgument, "name must be at least 4 characters")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return "", apperr.New(apperr.InvalidArgument, "description is required")
	}
	tags := parseTokens(req.Tags)
	if len(tags) < 3 {
		return "", apperr.New(apperr.InvalidArgument, "at least 3 tags are required")
	}
	rules := parseTokens(req.Rules)

	groupID := uuid.NewString()
	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		if _, err := tx.Get(userPath(uid)); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return apperr.New(apperr.NotFound, "user profile not found")
			}
			return err
		}

		data := map[string]any{
			"name":        name,
			"description": description,
			"creatorId":   uid,
			"members":     []string{uid},
			"memberCount": int64(1),
			"tags":        tags,
			"rules":       rules,
			"createdAt":   docstore.ServerTimestamp(),
		}
		if req.LogoImgURL != "" {
			data["logoImgUrl"] = req.LogoImgURL
		}
		if req.BannerImgURL != "" {
			data["bannerImgUrl"] = req.BannerImgURL
		}
		if err := tx.Create(groupPath(groupID), data); err != nil {
			return err
		}
		return tx.Update(userPath(uid), []docstore.Update{
			{Field: "groups", Value: docstore.ArrayUnion(groupID)},
		})
	})
	if err != nil {
		return "", s.opErr("createGroup", err)
	}
	return groupID, nil
}

// EditGroup applies the provided fields only. Image fields are tri-state:
// absent leaves the image untouched, explicit null removes it, a new URL
// replaces it; replaced or removed images get their old blob deleted
// best-effort after the write commits.
func (s *Service) EditGroup(ctx context.Context, uid string, req models.EditGroupRequest) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if req.GroupID == "" {
		return apperr.New(apperr.InvalidArgument, "groupId is required")
	}

	group, err := s.store.Get(ctx, groupPath(req.GroupID))
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.New(apperr.NotFound, "group not found")
	}
	if err != nil {
		return s.opErr("editGroup", err)
	}
	if group.String("creatorId") != uid {
		return apperr.New(apperr.PermissionDenied, "only the group creator can edit the group")
	}

	var updates []docstore.Update
	var oldBlobs []string

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 4 {
			return apperr.New(apperr.InvalidArgument, "name must be at least 4 characters")
		}
		updates = append(updates, docstore.Update{Field: "name", Value: name})
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return apperr.New(apperr.InvalidArgument, "description must not be empty")
		}
		updates = append(updates, docstore.Update{Field: "description", Value: description})
	}
	if req.Tags != nil {
		tags := parseTokens(*req.Tags)
		if len(tags) < 3 {
			return apperr.New(apperr.InvalidArgument, "at least 3 tags are required")
		}
		updates = append(updates, docstore.Update{Field: "tags", Value: tags})
	}
	if req.Rules != nil {
		updates = append(updates, docstore.Update{Field: "rules", Value: parseTokens(*req.Rules)})
	}
	updates, oldBlobs = applyImageField(updates, oldBlobs, group, "logoImgUrl", req.NewLogoImgURL)
	updates, oldBlobs = applyImageField(updates, oldBlobs, group, "bannerImgUrl", req.NewBannerImgURL)

	if len(updates) == 0 {
		// Nothing to change is not an error.
		return nil
	}
	if err := s.store.Update(ctx, group.Path, updates); err != nil {
		return s.opErr("editGroup", err)
	}
	for _, u := range oldBlobs {
		s.deleteBlob(ctx, u)
	}
	return nil
}

// applyImageField folds one tri-state image field into the update list and
// collects the URL of any image being replaced or removed.
func applyImageField(updates []docstore.Update, oldBlobs []string, doc docstore.Document, field string, v models.OptionalString) ([]docstore.Update, []string) {
	if !v.Present {
		return updates, oldBlobs
	}
	if old := doc.String(field); old != "" {
		oldBlobs = append(oldBlobs, old)
	}
	if v.Value == nil {
		updates = append(updates, docstore.Update{Field: field, Value: docstore.DeleteField()})
	} else {
		updates = append(updates, docstore.Update{Field: field, Value: *v.Value})
	}
	return updates, oldBlobs
}

// DeleteGroup removes the group document and the ownership entry in one
// transaction, then cascades the group's posts and their comments in the
// background.
func (s *Service) DeleteGroup(ctx context.Context, uid, groupID string) error {
	if err := requireAuth(uid); err != nil {
		return err
	}
	if groupID == "" {
		return apperr.New(apperr.InvalidArgument, "groupId is required")
	}

	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		group, err := tx.Get(groupPath(groupID))
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.New(apperr.NotFound, "group not found")
		}
		if err != nil {
			return err
		}
		if group.String("creatorId") != uid {
			return apperr.New(apperr.PermissionDenied, "only the group creator can delete the group")
		}
		if err := tx.Delete(group.Path); err != nil {
			return err
		}
		return tx.Update(userPath(uid), []docstore.Update{
			{Field: "groups", Value: docstore.ArrayRemove(groupID)},
		})
	})
	if err != nil {
		return s.opErr("deleteGroup", err)
	}

	s.background("deleteGroup", func(ctx context.Context) error {
		return s.deleter.DeleteMatching(ctx, "posts",
			[]docstore.Filter{{Field: "groupId", Op: "==", Value: groupID}}, postCascade)
	})
	return nil
}
