package service

import (
	"context"
	"testing"

	"github.com/NikolaGunchev/SnapBlog/internal/apperr"
	"github.com/NikolaGunchev/SnapBlog/internal/models"
)

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newTestService(t)
	seedUser(t, store, "u1")

	gid := createGroup(t, svc, "u1", "gophers")

	group := getDoc(t, store, "groups/"+gid)
	if group.String("creatorId") != "u1" {
		t.Errorf("creatorId = %q", group.String("creatorId"))
	}
	if !group.Contains("members", "u1") || group.Int("memberCount") != 1 {
		t.Errorf("creator not sole member: members=%v count=%d",
			group.Strings("members"), group.Int("memberCount"))
	}
	if got := group.Strings("tags"); len(got) != 3 {
		t.Errorf("tags = %v", got)
	}
	user := getDoc(t, store, "users/u1")
	if !user.Contains("groups", gid) {
		t.Error("group id not mirrored on the creator profile")
	}

	// Validation failures.
	_, err := svc.CreateGroup(ctx, "u1", models.CreateGroupRequest{
		Name: "abc", Description: "d", Tags: "a b c",
	})
	wantCode(t, err, apperr.InvalidArgument)

	_, err = svc.CreateGroup(ctx, "u1", models.CreateGroupRequest{
		Name: "valid name", Description: "d", Tags: "only two",
	})
	wantCode(t, err, apperr.InvalidArgument)

	_, err = svc.CreateGroup(ctx, "ghost", models.CreateGroupRequest{
		Name: "valid name", Description: "d", Tags: "a b c",
	})
	wantCode(t, err, apperr.NotFound)

	_, err = svc.CreateGroup(ctx, "", models.CreateGroupRequest{
		Name: "valid name", Description: "d", Tags: "a b c",
	})
	wantCode(t, err, apperr.Unauthenticated)
}

func TestJoinGroup(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newTestService(t)
	seedUser(t, store, "u1")
	seedUser(t, store, "u2")
	gid := createGroup(t, svc, "u1", "gophers")

	if err := svc.JoinGroup(ctx, "u2", gid); err != nil {
		t.Fatalf("JoinGroup: %v", err)
	}

	group := getDoc(t, store, "groups/"+gid)
	if !group.Contains("members", "u2") {
		t.Error("u2 not in members")
	}
	if n := group.Int("memberCount"); int(n) != len(group.Strings("members")) {
		t.Errorf("memberCount %d != len(members) %d", n, len(group.Strings("members")))
	}
	if !getDoc(t, store, "users/u2").Contains("groups", gid) {
		t.Error("group not mirrored on the joiner profile")
	}

	// Joining twice fails and changes nothing.
	wantCode(t, svc.JoinGroup(ctx, "u2", gid), apperr.AlreadyExists)
	group = getDoc(t, store, "groups/"+gid)
	if group.Int("memberCount") != 2 {
		t.Errorf("memberCount after failed join = %d", group.Int("memberCount"))
	}

	wantCode(t, svc.JoinGroup(ctx, "u2", "missing"), apperr.NotFound)
	wantCode(t, svc.JoinGroup(ctx, "ghost", gid), apperr.NotFound)
}

func TestLeaveGroup(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newTestService(t)
	seedUser(t, store, "u1")
	seedUser(t, store, "u2")
	gid := createGroup(t, svc, "u1", "gophers")

	// Not a member yet.
	wantCode(t, svc.LeaveGroup(ctx, "u2", gid), apperr.FailedPrecondition)

	if err := svc.JoinGroup(ctx, "u2", gid); err != nil {
		t.Fatalf("JoinGroup: %v", err)
	}
	if err := svc.LeaveGroup(ctx, "u2", gid); err != nil {
		t.Fatalf("LeaveGroup: %v", err)
	}

	group := getDoc(t, store, "groups/"+gid)
	if group.Contains("members", "u2") || group.Int("memberCount") != 1 {
		t.Errorf("leave not applied: members=%v count=%d",
			group.Strings("members"), group.Int("memberCount"))
	}
	if getDoc(t, store, "users/u2").Contains("groups", gid) {
		t.Error("group still mirrored on the leaver profile")
	}
}

func TestEditGroup(t *testing.T) {
	ctx := context.Background()
	svc, store, blobs, _ := newTestService(t)
	seedUser(t, store, "u1")
	seedUser(t, store, "u2")
	gid := createGroup(t, svc, "u1", "gophers")

	// Only the creator can edit.
	name := "new name"
	wantCode(t, svc.EditGroup(ctx, "u2", models.EditGroupRequest{GroupID: gid, Name: &name}),
		apperr.PermissionDenied)

	if err := svc.EditGroup(ctx, "u1", models.EditGroupRequest{GroupID: gid, Name: &name}); err != nil {
		t.Fatalf("EditGroup: %v", err)
	}
	if got := getDoc(t, store, "groups/"+gid).String("name"); got != "new name" {
		t.Errorf("name = %q", got)
	}

	// A request that changes nothing succeeds.
	if err := svc.EditGroup(ctx, "u1", models.EditGroupRequest{GroupID: gid}); err != nil {
		t.Fatalf("no-op edit: %v", err)
	}

	// Replacing the logo deletes the old blob.
	logo := "https://firebasestorage.googleapis.com/v0/b/demo/o/logos%2Fold.png?alt=media"
	if err := svc.EditGroup(ctx, "u1", models.EditGroupRequest{
		GroupID:       gid,
		NewLogoImgURL: models.OptionalString{Present: true, Value: &logo},
	}); err != nil {
		t.Fatalf("set logo: %v", err)
	}
	newLogo := "https://firebasestorage.googleapis.com/v0/b/demo/o/logos%2Fnew.png?alt=media"
	if err := svc.EditGroup(ctx, "u1", models.EditGroupRequest{
		GroupID:       gid,
		NewLogoImgURL: models.OptionalString{Present: true, Value: &newLogo},
	}); err != nil {
		t.Fatalf("replace logo: %v", err)
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != "logos/old.png" {
		t.Errorf("deleted blobs = %v", blobs.deleted)
	}

	// Explicit null removes the field and deletes the blob.
	if err := svc.EditGroup(ctx, "u1", models.EditGroupRequest{
		GroupID:       gid,
		NewLogoImgURL: models.OptionalString{Present: true, Value: nil},
	}); err != nil {
		t.Fatalf("remove logo: %v", err)
	}
	group := getDoc(t, store, "groups/"+gid)
	if _, ok := group.Data["logoImgUrl"]; ok {
		t.Error("logoImgUrl still present")
	}
	if len(blobs.deleted) != 2 || blobs.deleted[1] != "logos/new.png" {
		t.Errorf("deleted blobs = %v", blobs.deleted)
	}
}

func TestDeleteGroupCascades(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newTestService(t)
	seedUser(t, store, "u1")
	seedUser(t, store, "u2")
	gid := createGroup(t, svc, "u1", "gophers")
	pid := createPost(t, svc, "u2", gid, "hello world")
	if _, err := svc.PostComment(ctx, "u2", models.PostCommentRequest{
		PostID: pid, Text: "first", CreatorName: "u2",
	}); err != nil {
		t.Fatalf("PostComment: %v", err)
	}
	otherPid := createPost(t, svc, "u2", "other-group", "other post")

	wantCode(t, svc.DeleteGroup(ctx, "u2", gid), apperr.PermissionDenied)

	if err := svc.DeleteGroup(ctx, "u1", gid); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	svc.Wait()

	gone(t, store, "groups/"+gid)
	gone(t, store, "posts/"+pid)
	if getDoc(t, store, "users/u1").Contains("groups", gid) {
		t.Error("group still mirrored on the creator profile")
	}
	if _, err := store.Get(ctx, "posts/"+otherPid); err != nil {
		t.Errorf("post of another group was deleted: %v", err)
	}

	comments, err := store.Query(ctx, queryComments(pid))
	if err != nil {
		t.Fatalf("query comments: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("%d comments survived the cascade", len(comments))
	}
}
