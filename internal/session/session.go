// Package session owns the bearer token and current user. A Session is built
// once per process and handed to the API client as its token source.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"helpdesk-cli/internal/model"
)

var ErrNotAuthenticated = errors.New("not logged in; run `helpdesk login`")

// TokenStore is durable client storage for the session.
type TokenStore interface {
	LoadSession(ctx context.Context) (string, *model.User, error)
	SaveSession(ctx context.Context, token string, user *model.User) error
	ClearSession(ctx context.Context) error
}

// Authenticator is the subset of the API used by the session lifecycle.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (model.Session, error)
	Me(ctx context.Context) (model.User, error)
	Logout(ctx context.Context) error
}

// Unauthorized reports whether err means the token was rejected.
type Unauthorized func(err error) bool

type Session struct {
	store        TokenStore
	unauthorized Unauthorized
	log          *slog.Logger

	mu    sync.RWMutex
	token string
	user  *model.User
}

func New(store TokenStore, unauthorized Unauthorized, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{store: store, unauthorized: unauthorized, log: log}
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) Role() model.Role {
	u, ok := s.User()
	if !ok {
		return ""
	}
	return u.Role
}

// Require returns the current user or ErrNotAuthenticated.
func (s *Session) Require() (model.User, error) {
	if !s.Authenticated() {
		return model.User{}, ErrNotAuthenticated
	}
	u, _ := s.User()
	return u, nil
}

// Init bootstraps the session from durable storage. A stored token that the
// API rejects is discarded and the session stays anonymous.
func (s *Session) Init(ctx context.Context, auth Authenticator) error {
	token, cached, err := s.store.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.user = cached
	s.mu.Unlock()

	me, err := auth.Me(ctx)
	if err != nil {
		if s.unauthorized != nil && s.unauthorized(err) {
			s.log.InfoContext(ctx, "stored session rejected; clearing")
			return s.Clear(ctx)
		}
		s.mu.Lock()
		s.token = ""
		s.user = nil
		s.mu.Unlock()
		return fmt.Errorf("load current user: %w", err)
	}

	s.mu.Lock()
	s.user = &me
	s.mu.Unlock()
	if err := s.store.SaveSession(ctx, token, &me); err != nil {
		s.log.WarnContext(ctx, "cache current user", "err", err)
	}
	return nil
}

func (s *Session) Login(ctx context.Context, auth Authenticator, creds model.Credentials) (model.User, error) {
	sess, err := auth.Login(ctx, creds)
	if err != nil {
		return model.User{}, err
	}
	if err := s.store.SaveSession(ctx, sess.Token, &sess.User); err != nil {
		return model.User{}, fmt.Errorf("save session: %w", err)
	}
	s.mu.Lock()
	s.token = sess.Token
	u := sess.User
	s.user = &u
	s.mu.Unlock()
	return u, nil
}

// Logout tells the API (best effort) and clears local state.
func (s *Session) Logout(ctx context.Context, auth Authenticator) error {
	if s.Token() != "" {
		if err := auth.Logout(ctx); err != nil {
			s.log.WarnContext(ctx, "logout request failed", "err", err)
		}
	}
	return s.Clear(ctx)
}

// Clear drops the token and user from memory and durable storage.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return s.store.ClearSession(ctx)
}
