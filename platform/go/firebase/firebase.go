// Package firebase initializes the Firebase app and the Firestore client
// backing the legacy per-user credential records.
package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// CredentialsPathEnv optionally points at a service account JSON file for
// local development; deployed environments rely on ambient credentials.
const CredentialsPathEnv = "FIREBASE_CONFIG"

// NewApp creates a Firebase App, using the credentials file from the
// environment when one is configured.
func NewApp(ctx context.Context) (*firebase.App, error) {
	if path, found := os.LookupEnv(CredentialsPathEnv); found {
		return firebase.NewApp(ctx, nil, option.WithCredentialsFile(path))
	}
	return firebase.NewApp(ctx, nil)
}

// InitFirestore initializes the Firebase App and returns a Firestore client.
// The client is process-wide; per-request reads go through it.
func InitFirestore(ctx context.Context) (*firebase.App, *firestore.Client, error) {
	app, err := NewApp(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase app [%w]", err)
	}

	store, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firestore client [%w]", err)
	}

	return app, store, nil
}
