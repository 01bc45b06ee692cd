package models

import (
	"time"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

// Post lives in a flat top-level collection and belongs to a group through
// groupId; the containment is logical, enforced by the deletion cascade
// rather than by the store.
type Post struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"groupId"`
	UserID        string    `json:"userId"`
	CreatorName   string    `json:"creatorName"`
	Title         string    `json:"title"`
	Content       string    `json:"content,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CommentsCount int64     `json:"commentsCount"`
	LikesCount    int64     `json:"likesCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func PostFromDocument(d docstore.Document) Post {
	return Post{
		ID:            d.ID,
		GroupID:       d.String("groupId"),
		UserID:        d.String("userId"),
		CreatorName:   d.String("creatorName"),
		Title:         d.String("title"),
		Content:       d.String("content"),
		ImageURL:      d.String("imageUrl"),
		CommentsCount: d.Int("commentsCount"),
		LikesCount:    d.Int("likesCount"),
		CreatedAt:     d.Time("createdAt"),
	}
}

type CreatePostRequest struct {
	GroupID     string `json:"groupId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	CreatorName string `json:"creatorName" validate:"required"`
}

type EditPostRequest struct {
	PostID      string         `json:"postId" validate:"required"`
	Title       *string        `json:"title,omitempty"`
	Content     *string        `json:"content,omitempty"`
	NewImageURL OptionalString `json:"newImageUrl"`
}

type DeletePostRequest struct {
	PostID string `json:"postId" validate:"required"`
}

type LikePostRequest struct {
	PostID string `json:"postId" validate:"required"`
}
