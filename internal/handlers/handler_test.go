package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/NikolaGunchev/SnapBlog/internal/blob"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore/memstore"
	"github.com/NikolaGunchev/SnapBlog/internal/service"
	"github.com/NikolaGunchev/SnapBlog/validators"
)

type noopAccounts struct{}

func (noopAccounts) DeleteAccount(context.Context, string) error { return nil }

// stubAuth stands in for the Firebase middleware: it trusts the bearer token
// as the UID so handler behavior can be tested without a live auth backend.
func stubAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if uid, ok := strings.CutPrefix(header, "Bearer "); ok {
			c.Set("firebaseUID", uid)
		}
		return next(c)
	}
}

func newTestServer(t *testing.T) (*echo.Echo, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	svc := service.New(store, blob.Discard{}, noopAccounts{}, zap.NewNop())

	e := echo.New()
	e.Validator = validators.NewValidator()

	api := e.Group("/api/v1")
	api.Use(stubAuth)
	NewGroupHandler(svc).RegisterGroupRoutes(api)
	NewPostHandler(svc).RegisterPostRoutes(api)
	NewCommentHandler(svc).RegisterCommentRoutes(api)
	NewUserHandler(svc).RegisterUserRoutes(api)
	NewReadHandler(store).RegisterReadRoutes(e.Group("/api/v1"))
	return e, store
}

func call(t *testing.T, e *echo.Echo, method, path, uid, body string) (*httptest.ResponseRecorder, callResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+uid)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp callResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: bad body %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, resp
}

func TestRegisterAndCreateGroup(t *testing.T) {
	e, _ := newTestServer(t)

	rec, resp := call(t, e, http.MethodPost, "/api/v1/auth/register", "u1",
		`{"username":"ana","email":"ana@example.com"}`)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("register: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec, resp = call(t, e, http.MethodPost, "/api/v1/createGroup", "u1",
		`{"name":"gophers","description":"talk go","tags":"go web backend"}`)
	if rec.Code != http.StatusOK || !resp.Success || resp.GroupID == "" {
		t.Fatalf("createGroup: status=%d body=%s", rec.Code, rec.Body.String())
	}

	// The group is readable without auth.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/"+resp.GroupID, nil)
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("GET group: status=%d body=%s", rec2.Code, rec2.Body.String())
	}
}

func TestErrorEnvelope(t *testing.T) {
	e, _ := newTestServer(t)

	// Unauthenticated caller.
	rec, resp := call(t, e, http.MethodPost, "/api/v1/joinGroup", "",
		`{"groupId":"g1"}`)
	if rec.Code != http.StatusUnauthorized || resp.Code != "unauthenticated" {
		t.Errorf("unauthenticated: status=%d code=%s", rec.Code, resp.Code)
	}

	// Missing required field fails validation.
	rec, resp = call(t, e, http.MethodPost, "/api/v1/joinGroup", "u1", `{}`)
	if rec.Code != http.StatusBadRequest || resp.Code != "invalid-argument" {
		t.Errorf("validation: status=%d code=%s", rec.Code, resp.Code)
	}

	// Unknown group maps to 404.
	rec, resp = call(t, e, http.MethodPost, "/api/v1/joinGroup", "u1",
		`{"groupId":"missing"}`)
	if rec.Code != http.StatusNotFound || resp.Code != "not-found" {
		t.Errorf("not found: status=%d code=%s", rec.Code, resp.Code)
	}
	if resp.Success {
		t.Error("error envelope reports success")
	}
}

func TestMembershipConflictStatus(t *testing.T) {
	e, _ := newTestServer(t)

	call(t, e, http.MethodPost, "/api/v1/auth/register", "u1",
		`{"username":"ana","email":"ana@example.com"}`)
	call(t, e, http.MethodPost, "/api/v1/auth/register", "u2",
		`{"username":"bob","email":"bob@example.com"}`)
	_, created := call(t, e, http.MethodPost, "/api/v1/createGroup", "u1",
		`{"name":"gophers","description":"talk go","tags":"go web backend"}`)

	body := `{"groupId":"` + created.GroupID + `"}`
	rec, _ := call(t, e, http.MethodPost, "/api/v1/joinGroup", "u2", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("join: status=%d", rec.Code)
	}

	rec, resp := call(t, e, http.MethodPost, "/api/v1/joinGroup", "u2", body)
	if rec.Code != http.StatusConflict || resp.Code != "already-exists" {
		t.Errorf("double join: status=%d code=%s", rec.Code, resp.Code)
	}

	rec, resp = call(t, e, http.MethodPost, "/api/v1/leaveGroup", "u1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("leave: status=%d", rec.Code)
	}
	rec, resp = call(t, e, http.MethodPost, "/api/v1/leaveGroup", "u1", body)
	if rec.Code != http.StatusPreconditionFailed || resp.Code != "failed-precondition" {
		t.Errorf("double leave: status=%d code=%s", rec.Code, resp.Code)
	}
}
