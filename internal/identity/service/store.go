package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/identity/domain"
)

// Store keeps the current user of one client session in sync with the
// gateway's session notifications. It is a single-client projection: the
// gateway notifies every subscriber, so once signed in the store ignores
// sessions of other users. Sign-out notifications carry no uid and always
// clear it; request handling uses Authenticate instead.
//
// Register, Login and Logout return only the outcome of the call itself;
// Current changes once the resulting session notification has been
// projected. A profile fetch failure leaves the store signed out for that
// notification.
type Store struct {
	accounts *Accounts
	auth     gateway.Auth
	log      *zap.Logger

	mu          sync.RWMutex
	ctx         context.Context
	session     *gateway.Session
	current     *domain.CurrentUser
	unsubscribe func()
	listeners   []func(*domain.CurrentUser)
}

func NewStore(accounts *Accounts, auth gateway.Auth, log *zap.Logger) *Store {
	return &Store{accounts: accounts, auth: auth, log: log}
}

// Init subscribes to session changes. ctx bounds the profile fetches made
// from the subscription.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	s.ctx = ctx
	s.unsubscribe = s.auth.Subscribe(s.onSession)
}

func (s *Store) onSession(sess *gateway.Session) {
	s.mu.RLock()
	held := s.session
	s.mu.RUnlock()
	if sess != nil && held != nil && sess.UID != held.UID {
		return
	}
	s.apply(sess)
}

// Dispose stops following session changes and clears the current user.
func (s *Store) Dispose() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.session = nil
	s.current = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Refresh re-reads the profile of the current session.
func (s *Store) Refresh() {
	s.mu.RLock()
	sess := s.session
	s.mu.RUnlock()
	s.apply(sess)
}

// Current returns a copy of the signed-in user, or nil when signed out.
func (s *Store) Current() *domain.CurrentUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// OnChange registers fn to be called with every new projection.
func (s *Store) OnChange(fn func(*domain.CurrentUser)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) apply(sess *gateway.Session) {
	var current *domain.CurrentUser
	if sess != nil {
		s.mu.RLock()
		ctx := s.ctx
		s.mu.RUnlock()
		if ctx == nil {
			ctx = context.Background()
		}

		u, err := s.accounts.Resolve(ctx, sess)
		if err != nil {
			s.log.Warn("profile fetch failed, treating session as signed out",
				zap.String("uid", sess.UID),
				zap.Error(err),
			)
		} else {
			current = u
		}
	}

	s.mu.Lock()
	s.session = sess
	s.current = current
	listeners := make([]func(*domain.CurrentUser), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		var cp *domain.CurrentUser
		if current != nil {
			u := *current
			cp = &u
		}
		fn(cp)
	}
}

// Register creates the account and profile, then re-projects the session so
// a successful profile write is visible immediately.
func (s *Store) Register(ctx context.Context, req domain.RegisterRequest) error {
	sess, err := s.accounts.Register(ctx, req)
	if sess != nil {
		s.Refresh()
	}
	return err
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	_, err := s.accounts.Login(ctx, email, password)
	return err
}

// Logout signs the current session out. Signed-out stores return
// domain.ErrNotAuthenticated.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.RLock()
	sess := s.session
	s.mu.RUnlock()
	if sess == nil {
		return domain.ErrNotAuthenticated
	}
	return s.accounts.Logout(ctx, sess.UID)
}
