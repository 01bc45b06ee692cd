package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/NikolaGunchev/SnapBlog/internal/models"
	"github.com/NikolaGunchev/SnapBlog/internal/service"
)

// UserHandler handles the profile and account endpoints
type UserHandler struct {
	service *service.Service
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc *service.Service) *UserHandler {
	return &UserHandler{service: svc}
}

// RegisterUserRoutes registers profile-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
	g.POST("/editProfile", h.EditProfile)
	g.POST("/deleteUserAccount", h.DeleteUserAccount)
}

// Register creates the caller's profile document after sign-up
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.Register(c.Request().Context(), callerUID(c), req); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}

// EditProfile updates the caller's profile
func (h *UserHandler) EditProfile(c echo.Context) error {
	var req models.EditProfileRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.EditProfile(c.Request().Context(), callerUID(c), req); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}

// DeleteUserAccount tears down everything the caller owns, then the account
func (h *UserHandler) DeleteUserAccount(c echo.Context) error {
	if err := h.service.DeleteUserAccount(c.Request().Context(), callerUID(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}
