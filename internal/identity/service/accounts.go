package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/identity/domain"
)

// ProfileRepository is the users collection.
type ProfileRepository interface {
	Get(ctx context.Context, uid string) (*domain.Profile, error)
	Create(ctx context.Context, p domain.Profile) error
}

// Accounts delegates credentials to the gateway auth service and keeps the
// profile documents next to them.
type Accounts struct {
	auth     gateway.Auth
	profiles ProfileRepository
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func NewAccounts(auth gateway.Auth, profiles ProfileRepository, validate *validator.Validate, log *zap.Logger) *Accounts {
	return &Accounts{
		auth:     auth,
		profiles: profiles,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

// Register creates the account, then its profile document. The two writes
// are not atomic: when the profile write fails the session is still
// returned, together with an error wrapping domain.ErrProfileWrite, and the
// account is left without a profile.
func (a *Accounts) Register(ctx context.Context, req domain.RegisterRequest) (*gateway.Session, error) {
	if err := req.Validate(a.validate); err != nil {
		return nil, err
	}

	session, err := a.auth.CreateAccount(ctx, gateway.Credentials{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	profile := domain.Profile{
		ID:        session.UID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      domain.RoleUser,
		CreatedAt: a.now().UnixMilli(),
	}
	if err := a.profiles.Create(ctx, profile); err != nil {
		a.log.Error("account created without profile",
			zap.String("uid", session.UID),
			zap.Error(err),
		)
		return session, fmt.Errorf("%w: %v", domain.ErrProfileWrite, err)
	}

	a.log.Info("account registered", zap.String("uid", session.UID))
	return session, nil
}

func (a *Accounts) Login(ctx context.Context, email, password string) (*gateway.Session, error) {
	session, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return session, nil
}

func (a *Accounts) Logout(ctx context.Context, uid string) error {
	if err := a.auth.SignOut(ctx, uid); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Resolve projects a session onto its profile. A missing profile is not an
// error: it is logged and replaced by defaults. Any other fetch failure is
// returned so the caller can treat the session as signed out.
func (a *Accounts) Resolve(ctx context.Context, s *gateway.Session) (*domain.CurrentUser, error) {
	profile, err := a.profiles.Get(ctx, s.UID)
	if errors.Is(err, domain.ErrUserNotFound) {
		a.log.Warn("profile document missing, using defaults", zap.String("uid", s.UID))
		profile = nil
	} else if err != nil {
		return nil, err
	}

	u := domain.Project(s.UID, s.Email, s.DisplayName, profile)
	return &u, nil
}

// Authenticate verifies an ID token and resolves its user. An unusable
// token yields gateway.ErrInvalidToken.
func (a *Accounts) Authenticate(ctx context.Context, idToken string) (*domain.CurrentUser, error) {
	s, err := a.auth.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return a.Resolve(ctx, s)
}
