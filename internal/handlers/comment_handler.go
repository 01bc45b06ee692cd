package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/NikolaGunchev/SnapBlog/internal/models"
	"github.com/NikolaGunchev/SnapBlog/internal/service"
)

// CommentHandler handles the comment mutation endpoints
type CommentHandler struct {
	service *service.Service
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(svc *service.Service) *CommentHandler {
	return &CommentHandler{service: svc}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/postComment", h.PostComment)
	g.POST("/deleteComment", h.DeleteComment)
}

// PostComment creates a comment under a post
func (h *CommentHandler) PostComment(c echo.Context) error {
	var req models.PostCommentRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	commentID, err := h.service.PostComment(c.Request().Context(), callerUID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{CommentID: commentID})
}

// DeleteComment deletes the caller's comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	var req models.DeleteCommentRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.DeleteComment(c.Request().Context(), callerUID(c), req); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}
