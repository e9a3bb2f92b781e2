package firestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
)

// Auth implements gateway.Auth with the Firebase Admin SDK. Password sign-in
// has no Admin SDK equivalent and goes through Identity Toolkit, throttled by
// limiter so a burst of login attempts cannot exhaust the project quota.
type Auth struct {
	gateway.SessionListeners

	client  *auth.Client
	toolkit *identitytoolkit.Service
	limiter *rate.Limiter
}

func NewAuth(client *auth.Client, toolkit *identitytoolkit.Service, limiter *rate.Limiter) *Auth {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Auth{client: client, toolkit: toolkit, limiter: limiter}
}

func (a *Auth) CreateAccount(ctx context.Context, cred gateway.Credentials) (*gateway.Session, error) {
	params := (&auth.UserToCreate{}).Email(cred.Email).Password(cred.Password)
	if cred.DisplayName != "" {
		params = params.DisplayName(cred.DisplayName)
	}

	if _, err := a.client.CreateUser(ctx, params); err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, gateway.ErrEmailInUse
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	// A freshly created account is signed in, as with the client SDK.
	return a.SignIn(ctx, cred.Email, cred.Password)
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	resp, err := a.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
			return nil, gateway.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	s := &gateway.Session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}
	a.Notify(s)
	return s, nil
}

// SignOut revokes every refresh token of uid. VerifyToken checks revocation,
// so ID tokens issued before the sign-out stop verifying too.
func (a *Auth) SignOut(ctx context.Context, uid string) error {
	if err := a.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	a.Notify(nil)
	return nil
}

func (a *Auth) VerifyToken(ctx context.Context, idToken string) (*gateway.Session, error) {
	tok, err := a.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, gateway.ErrInvalidToken
	}

	s := &gateway.Session{UID: tok.UID, IDToken: idToken}
	if email, ok := tok.Claims["email"].(string); ok {
		s.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		s.DisplayName = name
	}
	return s, nil
}
