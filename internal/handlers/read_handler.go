package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
	"github.com/NikolaGunchev/SnapBlog/internal/models"
)

// topGroupsLimit bounds the popularity listing on the landing page.
const topGroupsLimit = 5

// ReadHandler serves the public read endpoints straight from the store.
type ReadHandler struct {
	store docstore.Store
}

// NewReadHandler creates a new ReadHandler
func NewReadHandler(store docstore.Store) *ReadHandler {
	return &ReadHandler{store: store}
}

// RegisterReadRoutes registers the read-only routes
func (h *ReadHandler) RegisterReadRoutes(g *echo.Group) {
	g.GET("/groups", h.ListGroups)
	g.GET("/groups/top", h.TopGroups)
	g.GET("/groups/:id", h.GetGroup)
	g.GET("/groups/:id/posts", h.ListGroupPosts)
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/:id/comments", h.ListPostComments)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/posts", h.ListUserPosts)
	g.GET("/users/:id/groups", h.ListUserGroups)
}

// ListGroups returns every group
func (h *ReadHandler) ListGroups(c echo.Context) error {
	docs, err := h.store.Query(c.Request().Context(), docstore.Query{Path: "groups"})
	if err != nil {
		return fail(c, err)
	}
	out := make([]models.Group, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.GroupFromDocument(d))
	}
	return c.JSON(http.StatusOK, out)
}

// TopGroups returns the most popular groups by member count
func (h *ReadHandler) TopGroups(c echo.Context) error {
	docs, err := h.store.Query(c.Request().Context(), docstore.Query{
		Path:       "groups",
		OrderBy:    "memberCount",
		Descending: true,
		Limit:      topGroupsLimit,
	})
	if err != nil {
		return fail(c, err)
	}
	out := make([]models.Group, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.GroupFromDocument(d))
	}
	return c.JSON(http.StatusOK, out)
}

// GetGroup returns one group by id
func (h *ReadHandler) GetGroup(c echo.Context) error {
	doc, err := h.store.Get(c.Request().Context(), "groups/"+c.Param("id"))
	if errors.Is(err, docstore.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "group not found")
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, models.GroupFromDocument(doc))
}

// ListGroupPosts returns the posts of one group
func (h *ReadHandler) ListGroupPosts(c echo.Context) error {
	docs, err := h.store.Query(c.Request().Context(), docstore.Query{
		Path:    "posts",
		Filters: []docstore.Filter{{Field: "groupId", Op: "==", Value: c.Param("id")}},
	})
	if err != nil {
		return fail(c, err)
	}
	out := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.PostFromDocument(d))
	}
	return c.JSON(http.StatusOK, out)
}

// ListPosts returns every post
func (h *ReadHandler) ListPosts(c echo.Context) error {
	docs, err := h.store.Query(c.Request().Context(), docstore.Query{Path: "posts"})
	if err != nil {
		return fail(c, err)
	}
	out := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.PostFromDocument(d))
	}
	return c.JSON(http.StatusOK, out)
}

// GetPost returns one post by id
func (h *ReadHandler) GetPost(c echo.Context) error {
	doc, err := h.store.Get(c.Request().Context(), "posts/"+c.Param("id"))
	if errors.Is(err, docstore.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, models.PostFromDocument(doc))
}

// ListPostComments returns the comments under one post
func (h *ReadHandler) ListPostComments(c echo.Context) error {
	docs, err := h.store.Query(c.Request().Context(), docstore.Query{
		Path: "posts/" + c.Param("id") + "/comments",
	})
	if err != nil {
		return fail(c, err)
	}
	out := make([]models.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.CommentFromDocument(d))
	}
	return c.JSON(http.StatusOK, out)
}

// GetUser returns one profile by id
func (h *ReadHandler) GetUser(c echo.Context) error {
	doc, err := h.store.Get(c.Request().Context(), "users/"+c.Param("id"))
	if errors.Is(err, docstore.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, models.UserFromDocument(doc))
}

// ListUserPosts returns the posts created by one user
func (h *ReadHandler) ListUserPosts(c echo.Context) error {
	docs, err := h.store.Query(c.Request().Context(), docstore.Query{
		Path:    "posts",
		Filters: []docstore.Filter{{Field: "userId", Op: "==", Value: c.Param("id")}},
	})
	if err != nil {
		return fail(c, err)
	}
	out := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.PostFromDocument(d))
	}
	return c.JSON(http.StatusOK, out)
}

// ListUserGroups returns the groups one user is a member of
func (h *ReadHandler) ListUserGroups(c echo.Context) error {
	docs, err := h.store.Query(c.Request().Context(), docstore.Query{
		Path:    "groups",
		Filters: []docstore.Filter{{Field: "members", Op: "array-contains", Value: c.Param("id")}},
	})
	if err != nil {
		return fail(c, err)
	}
	out := make([]models.Group, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.GroupFromDocument(d))
	}
	return c.JSON(http.StatusOK, out)
}
