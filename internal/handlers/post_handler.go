package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/NikolaGunchev/SnapBlog/internal/models"
	"github.com/NikolaGunchev/SnapBlog/internal/service"
)

// PostHandler handles the post mutation endpoints
type PostHandler struct {
	service *service.Service
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(svc *service.Service) *PostHandler {
	return &PostHandler{service: svc}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/createPost", h.CreatePost)
	g.POST("/editPost", h.EditPost)
	g.POST("/deletePost", h.DeletePost)
	g.POST("/likePost", h.LikePost)
	g.POST("/unlikePost", h.UnlikePost)
}

// CreatePost creates a post in a group
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	postID, err := h.service.CreatePost(c.Request().Context(), callerUID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{PostID: postID})
}

// EditPost updates the caller's post
func (h *PostHandler) EditPost(c echo.Context) error {
	var req models.EditPostRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.EditPost(c.Request().Context(), callerUID(c), req); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}

// DeletePost deletes the caller's post and cascades its comments
func (h *PostHandler) DeletePost(c echo.Context) error {
	var req models.DeletePostRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.DeletePost(c.Request().Context(), callerUID(c), req.PostID); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}

// LikePost records a like by the caller
func (h *PostHandler) LikePost(c echo.Context) error {
	var req models.LikePostRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.LikePost(c.Request().Context(), callerUID(c), req.PostID); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}

// UnlikePost removes the caller's like
func (h *PostHandler) UnlikePost(c echo.Context) error {
	var req models.LikePostRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.UnlikePost(c.Request().Context(), callerUID(c), req.PostID); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}
