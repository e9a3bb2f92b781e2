package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
)

type account struct {
	uid         string
	email       string
	password    string
	displayName string
}

// Auth is an in-memory identity service issuing opaque random tokens.
type Auth struct {
	gateway.SessionListeners

	mu       sync.Mutex
	accounts map[string]*account // by lower-cased email
	tokens   map[string]string   // id token -> uid
	failNext error
}

func NewAuth() *Auth {
	return &Auth{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
	}
}

// FailNext makes the next Auth call return err.
func (a *Auth) FailNext(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failNext = err
}

func (a *Auth) takeFailure() error {
	err := a.failNext
	a.failNext = nil
	return err
}

func (a *Auth) CreateAccount(ctx context.Context, cred gateway.Credentials) (*gateway.Session, error) {
	a.mu.Lock()
	if err := a.takeFailure(); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(cred.Email))
	if _, exists := a.accounts[key]; exists {
		a.mu.Unlock()
		return nil, gateway.ErrEmailInUse
	}
	acc := &account{
		uid:         uuid.NewString(),
		email:       strings.TrimSpace(cred.Email),
		password:    cred.Password,
		displayName: cred.DisplayName,
	}
	a.accounts[key] = acc
	s := a.issue(acc)
	a.mu.Unlock()

	a.Notify(s)
	return s, nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	a.mu.Lock()
	if err := a.takeFailure(); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	acc, ok := a.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok || acc.password != password {
		a.mu.Unlock()
		return nil, gateway.ErrInvalidCredentials
	}
	s := a.issue(acc)
	a.mu.Unlock()

	a.Notify(s)
	return s, nil
}

func (a *Auth) SignOut(ctx context.Context, uid string) error {
	a.mu.Lock()
	if err := a.takeFailure(); err != nil {
		a.mu.Unlock()
		return err
	}
	for tok, owner := range a.tokens {
		if owner == uid {
			delete(a.tokens, tok)
		}
	}
	a.mu.Unlock()

	a.Notify(nil)
	return nil
}

func (a *Auth) VerifyToken(ctx context.Context, idToken string) (*gateway.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	uid, ok := a.tokens[idToken]
	if !ok {
		return nil, gateway.ErrInvalidToken
	}
	for _, acc := range a.accounts {
		if acc.uid == uid {
			return &gateway.Session{UID: acc.uid, Email: acc.email, DisplayName: acc.displayName, IDToken: idToken}, nil
		}
	}
	return nil, gateway.ErrInvalidToken
}

// issue must be called with a.mu held.
func (a *Auth) issue(acc *account) *gateway.Session {
	tok := uuid.NewString()
	a.tokens[tok] = acc.uid
	return &gateway.Session{
		UID:          acc.uid,
		Email:        acc.email,
		DisplayName:  acc.displayName,
		IDToken:      tok,
		RefreshToken: uuid.NewString(),
	}
}
