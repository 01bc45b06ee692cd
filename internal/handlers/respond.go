package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NikolaGunchev/SnapBlog/internal/apperr"
)

// callResponse is the uniform envelope of the mutation endpoints. Exactly one
// of the id fields is set by the create operations.
type callResponse struct {
	Success   bool   `json:"success"`
	GroupID   string `json:"groupId,omitempty"`
	PostID    string `json:"postId,omitempty"`
	CommentID string `json:"commentId,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
}

func ok(c echo.Context, resp callResponse) error {
	resp.Success = true
	return c.JSON(http.StatusOK, resp)
}

func fail(c echo.Context, err error) error {
	ae := apperr.From(err)
	return c.JSON(apperr.HTTPStatus(ae.Code), callResponse{
		Success: false,
		Error:   ae.Message,
		Code:    string(ae.Code),
	})
}

func invalid(c echo.Context, msg string) error {
	return fail(c, apperr.New(apperr.InvalidArgument, msg))
}

// callerUID reads the Firebase UID set by the auth middleware.
func callerUID(c echo.Context) string {
	uid, _ := c.Get("firebaseUID").(string)
	return uid
}
