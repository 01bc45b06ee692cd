package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
	"github.com/NikolaGunchev/SnapBlog/internal/handlers"
	"github.com/NikolaGunchev/SnapBlog/internal/middleware"
	"github.com/NikolaGunchev/SnapBlog/internal/service"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, store docstore.Store, svc *service.Service, firebaseAuthClient *auth.Client) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Public read routes ---
	public := e.Group("/api/v1")
	readHandler := handlers.NewReadHandler(store)
	readHandler.RegisterReadRoutes(public)

	// --- Protected mutation routes (require a Firebase ID token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))

	groupHandler := handlers.NewGroupHandler(svc)
	groupHandler.RegisterGroupRoutes(api)

	postHandler := handlers.NewPostHandler(svc)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(svc)
	commentHandler.RegisterCommentRoutes(api)

	userHandler := handlers.NewUserHandler(svc)
	userHandler.RegisterUserRoutes(api)
}
