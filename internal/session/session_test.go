package session

import (
	"context"
	"errors"
	"testing"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/apitest"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/store"
)

func isUnauthorized(err error) bool { return errors.Is(err, api.ErrUnauthorized) }

type fixture struct {
	srv   *apitest.Server
	state *store.State
	sess  *Session
	api   *api.Client
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	srv := apitest.New(t)
	st, err := store.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	sess := New(st, isUnauthorized, nil)
	return fixture{srv: srv, state: st, sess: sess, api: api.New(api.Options{BaseURL: srv.URL, Tokens: sess})}
}

var ada = model.User{ID: "u1", FullName: "Ada Admin", Email: "ada@example.com", Role: model.RoleAdmin, Active: true}

func TestLoginPersistsTokenAndInitRestoresIt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.srv.AddAccount(ada, "secret123")

	u, err := f.sess.Login(ctx, f.api, model.Credentials{Email: ada.Email, Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != ada.ID || !f.sess.Authenticated() || f.sess.Role() != model.RoleAdmin {
		t.Fatalf("unexpected session state: user=%+v authenticated=%v", u, f.sess.Authenticated())
	}

	// A fresh session over the same storage bootstraps from the stored token.
	again := New(f.state, isUnauthorized, nil)
	client := api.New(api.Options{BaseURL: f.srv.URL, Tokens: again})
	if err := again.Init(ctx, client); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !again.Authenticated() || again.Token() != f.sess.Token() {
		t.Fatalf("expected restored session")
	}
	if n := f.srv.Hits("GET /auth/me"); n != 1 {
		t.Fatalf("expected one /auth/me call, got %d", n)
	}
}

func TestInitWithRejectedTokenClearsStorage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	if err := f.state.SaveSession(ctx, "stale-token", &ada); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := f.sess.Init(ctx, f.api); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if f.sess.Authenticated() || f.sess.Token() != "" {
		t.Fatalf("expected anonymous session after rejected token")
	}
	tok, user, err := f.state.LoadSession(ctx)
	if err != nil || tok != "" || user != nil {
		t.Fatalf("expected cleared storage, got tok=%q user=%v err=%v", tok, user, err)
	}
}

func TestInitWithoutTokenMakesNoRequest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if err := f.sess.Init(context.Background(), f.api); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if f.srv.Hits("GET /auth/me") != 0 {
		t.Fatalf("expected no /auth/me call")
	}
	if _, err := f.sess.Require(); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.srv.AddAccount(ada, "secret123")
	if _, err := f.sess.Login(ctx, f.api, model.Credentials{Email: ada.Email, Password: "secret123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.sess.Logout(ctx, f.api); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if f.sess.Authenticated() {
		t.Fatalf("expected anonymous session after logout")
	}
	if f.srv.Hits("POST /auth/logout") != 1 {
		t.Fatalf("expected logout request")
	}
	if tok, _, _ := f.state.LoadSession(ctx); tok != "" {
		t.Fatalf("expected token removed from storage")
	}
}
