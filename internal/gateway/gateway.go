// Package gateway describes the remote data gateway the marketplace delegates
// persistence and identity to: a document store holding the users, products
// and moderationLogs collections, and an authentication service.
package gateway

import (
	"context"
	"errors"
)

const (
	CollectionUsers          = "users"
	CollectionProducts       = "products"
	CollectionModerationLogs = "moderationLogs"
)

var (
	ErrNotFound           = errors.New("document not found")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid session token")
)

// Document is a stored document: its gateway-issued id and raw field data.
// Field values keep whatever shape the backend decoded them into.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Query orders a collection listing. An empty OrderBy lists in backend order.
type Query struct {
	OrderBy string
	Desc    bool
}

// Documents is document CRUD against named collections.
type Documents interface {
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Add creates a document with a gateway-issued id and returns that id.
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// Set writes a document under a caller-chosen id, replacing any existing one.
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	// Update merges patch into an existing document. Missing documents yield ErrNotFound.
	Update(ctx context.Context, collection, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
}

// Session is an authenticated identity as reported by the auth service.
type Session struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Credentials are the fields needed to create an account.
type Credentials struct {
	Email       string
	Password    string
	DisplayName string
}

// Auth is the identity half of the gateway.
//
// Session changes caused by CreateAccount, SignIn and SignOut are delivered to
// subscribers after the call succeeds; a nil session means signed out.
type Auth interface {
	CreateAccount(ctx context.Context, cred Credentials) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, uid string) error
	VerifyToken(ctx context.Context, idToken string) (*Session, error)
	Subscribe(fn func(*Session)) (unsubscribe func())
}
