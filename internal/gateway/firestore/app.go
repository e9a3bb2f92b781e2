// Package firestore backs the gateway with Firebase: Cloud Firestore for
// documents, Firebase Auth for accounts and Identity Toolkit for password
// sign-in.
package firestore

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/gabonshop/gabonshop-backend/config"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// NewApp initializes the Firebase Admin SDK. Without a credentials file it
// falls back to Application Default Credentials.
func NewApp(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	var opt option.ClientOption
	if cfg.CredentialsPath != "" {
		opt = option.WithCredentialsFile(cfg.CredentialsPath)
	} else {
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH not set and no default credentials: %w", err)
		}
		opt = option.WithCredentials(creds)
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// NewToolkit returns an Identity Toolkit client authenticated by web API key.
func NewToolkit(ctx context.Context, apiKey string) (*identitytoolkit.Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("FIREBASE_API_KEY is required")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}
	return svc, nil
}
