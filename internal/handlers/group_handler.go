package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/NikolaGunchev/SnapBlog/internal/models"
	"github.com/NikolaGunchev/SnapBlog/internal/service"
)

// GroupHandler handles the group mutation endpoints
type GroupHandler struct {
	service *service.Service
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(svc *service.Service) *GroupHandler {
	return &GroupHandler{service: svc}
}

// RegisterGroupRoutes registers group-related routes
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/joinGroup", h.JoinGroup)
	g.POST("/leaveGroup", h.LeaveGroup)
	g.POST("/createGroup", h.CreateGroup)
	g.POST("/editGroup", h.EditGroup)
	g.POST("/deleteGroup", h.DeleteGroup)
}

// JoinGroup adds the caller to a group
func (h *GroupHandler) JoinGroup(c echo.Context) error {
	var req models.JoinGroupRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.JoinGroup(c.Request().Context(), callerUID(c), req.GroupID); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}

// LeaveGroup removes the caller from a group
func (h *GroupHandler) LeaveGroup(c echo.Context) error {
	var req models.LeaveGroupRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.LeaveGroup(c.Request().Context(), callerUID(c), req.GroupID); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}

// CreateGroup creates a group owned by the caller
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	groupID, err := h.service.CreateGroup(c.Request().Context(), callerUID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{GroupID: groupID})
}

// EditGroup updates the caller's group
func (h *GroupHandler) EditGroup(c echo.Context) error {
	var req models.EditGroupRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.EditGroup(c.Request().Context(), callerUID(c), req); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}

// DeleteGroup deletes the caller's group and cascades its content
func (h *GroupHandler) DeleteGroup(c echo.Context) error {
	var req models.DeleteGroupRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err.Error())
	}
	if err := h.service.DeleteGroup(c.Request().Context(), callerUID(c), req.GroupID); err != nil {
		return fail(c, err)
	}
	return ok(c, callResponse{})
}
