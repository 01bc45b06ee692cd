package firebase

import (
	"context"
	"fmt"
	"os"

	gcs "cloud.google.com/go/storage"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and the clients built from it
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
	Firestore   *firestore.Client
	Bucket      *gcs.BucketHandle
}

// InitFirebase initializes the Firebase application and its clients
func InitFirebase(ctx context.Context, credentialsPath, storageBucket string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: storageBucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	fsClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}

	app := &App{FirebaseApp: firebaseApp, AuthClient: authClient, Firestore: fsClient}

	if storageBucket != "" {
		storageClient, err := firebaseApp.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting storage client: %w", err)
		}
		bucket, err := storageClient.DefaultBucket()
		if err != nil {
			return nil, fmt.Errorf("error getting default bucket: %w", err)
		}
		app.Bucket = bucket
	}

	return app, nil
}

// AccountDeleter removes Firebase Auth accounts. Deleting an account that is
// already gone is treated as success.
type AccountDeleter struct {
	client *auth.Client
}

func NewAccountDeleter(client *auth.Client) *AccountDeleter {
	return &AccountDeleter{client: client}
}

func (d *AccountDeleter) DeleteAccount(ctx context.Context, uid string) error {
	err := d.client.DeleteUser(ctx, uid)
	if err != nil && auth.IsUserNotFound(err) {
		return nil
	}
	return err
}
