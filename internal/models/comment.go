package models

import (
	"time"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

// Comment is stored in a child collection under its post.
type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"postId"`
	CreatorID   string    `json:"creatorId"`
	CreatorName string    `json:"creatorName"`
	Text        string    `json:"text"`
	Likes       int64     `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
}

func CommentFromDocument(d docstore.Document) Comment {
	return Comment{
		ID:          d.ID,
		PostID:      d.String("postId"),
		CreatorID:   d.String("creatorId"),
		CreatorName: d.String("creatorName"),
		Text:        d.String("text"),
		Likes:       d.Int("likes"),
		CreatedAt:   d.Time("createdAt"),
	}
}

type PostCommentRequest struct {
	PostID      string `json:"postId" validate:"required"`
	Text        string `json:"text" validate:"required"`
	CreatorName string `json:"creatorName" validate:"required"`
}

type DeleteCommentRequest struct {
	PostID    string `json:"postId" validate:"required"`
	CommentID string `json:"commentId" validate:"required"`
}
