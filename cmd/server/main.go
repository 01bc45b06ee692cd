package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/NikolaGunchev/SnapBlog/internal/blob"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore/firestorestore"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore/memstore"
	"github.com/NikolaGunchev/SnapBlog/internal/docstore/mongostore"
	"github.com/NikolaGunchev/SnapBlog/internal/router"
	"github.com/NikolaGunchev/SnapBlog/internal/service"
	"github.com/NikolaGunchev/SnapBlog/pkg/config"
	"github.com/NikolaGunchev/SnapBlog/pkg/firebase"
	"github.com/NikolaGunchev/SnapBlog/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Pick the document store backend
	var store docstore.Store
	switch cfg.StoreBackend {
	case "mongo":
		mongoClient, err := config.InitMongo(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer config.CloseMongo(mongoClient)
		store = mongostore.New(mongoClient.Database(cfg.MongoDatabase))
	case "memory":
		store = memstore.New()
	default:
		store = firestorestore.New(firebaseApp.Firestore)
	}

	var blobs blob.Deleter = blob.Discard{}
	if firebaseApp.Bucket != nil {
		blobs = blob.NewBucketDeleter(firebaseApp.Bucket)
	}

	svc := service.New(store, blobs, firebase.NewAccountDeleter(firebaseApp.AuthClient), logger)
	defer svc.Wait()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, store, svc, firebaseApp.AuthClient)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
