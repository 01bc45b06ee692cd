package models

import (
	"time"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

// User is the profile document paired one-to-one with an identity-provider
// account. The id is the identity subject and never changes. The groups
// set mirrors the member lists of the groups the user belongs to.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Bio           string    `json:"bio,omitempty"`
	Groups        []string  `json:"groups"`
	Posts         []string  `json:"posts"`
	Comments      []string  `json:"comments"`
	LikedPosts    []string  `json:"likedPosts"`
	DislikedPosts []string  `json:"dislikedPosts"`
	CreatedAt     time.Time `json:"createdAt"`
}

func UserFromDocument(d docstore.Document) User {
	return User{
		ID:            d.ID,
		Email:         d.String("email"),
		Username:      d.String("username"),
		Bio:           d.String("bio"),
		Groups:        d.Strings("groups"),
		Posts:         d.Strings("posts"),
		Comments:      d.Strings("comments"),
		LikedPosts:    d.Strings("likedPosts"),
		DislikedPosts: d.Strings("dislikedPosts"),
		CreatedAt:     d.Time("createdAt"),
	}
}

// RegisterRequest creates the caller's profile document after sign-up.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

type EditProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}
