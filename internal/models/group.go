package models

import (
	"time"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
)

// Group is a community users join and post into. memberCount is the
// denormalized cardinality of members and the two are only ever mutated
// together, atomically.
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatorID    string    `json:"creatorId"`
	Members      []string  `json:"members"`
	MemberCount  int64     `json:"memberCount"`
	Tags         []string  `json:"tags"`
	Rules        []string  `json:"rules"`
	LogoImgURL   string    `json:"logoImgUrl,omitempty"`
	BannerImgURL string    `json:"bannerImgUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func GroupFromDocument(d docstore.Document) Group {
	return Group{
		ID:           d.ID,
		Name:         d.String("name"),
		Description:  d.String("description"),
		CreatorID:    d.String("creatorId"),
		Members:      d.Strings("members"),
		MemberCount:  d.Int("memberCount"),
		Tags:         d.Strings("tags"),
		Rules:        d.Strings("rules"),
		LogoImgURL:   d.String("logoImgUrl"),
		BannerImgURL: d.String("bannerImgUrl"),
		CreatedAt:    d.Time("createdAt"),
	}
}

type JoinGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type LeaveGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

// CreateGroupRequest carries tags and rules as single whitespace-delimited
// strings, the way the composer submits them.
type CreateGroupRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Tags         string `json:"tags" validate:"required"`
	Rules        string `json:"rules,omitempty"`
	LogoImgURL   string `json:"logoImgUrl,omitempty" validate:"omitempty,url"`
	BannerImgURL string `json:"bannerImgUrl,omitempty" validate:"omitempty,url"`
}

type EditGroupRequest struct {
	GroupID         string         `json:"groupId" validate:"required"`
	Name            *string        `json:"name,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Tags            *string        `json:"tags,omitempty"`
	Rules           *string        `json:"rules,omitempty"`
	NewLogoImgURL   OptionalString `json:"newLogoImgUrl"`
	NewBannerImgURL OptionalString `json:"newBannerImgUrl"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}
