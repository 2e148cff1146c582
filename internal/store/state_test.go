package store

import (
	"context"
	"fmt"
	"testing"

	"helpdesk-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func openTestState(t *testing.T) *State {
	t.Helper()
	st, err := Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestKV(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestState(t)

	if _, ok, err := st.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := st.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := st.Get(ctx, "a")
	if err != nil || !ok || v != "2" {
		t.Fatalf("Get = %q ok=%v err=%v", v, ok, err)
	}
	if err := st.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "a"); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestSessionPersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	st, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	user := &model.User{ID: "u1", FullName: "Ada Admin", Email: "ada@example.com", Role: model.RoleAdmin, Active: true}
	if err := st.SaveSession(ctx, "tok-1", user); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	_ = st.Close()

	st, err = Open(ctx, dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	token, got, err := st.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("token = %q", token)
	}
	if diff := cmp.Diff(user, got); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}

	if err := st.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	token, got, err = st.LoadSession(ctx)
	if err != nil || token != "" || got != nil {
		t.Fatalf("expected cleared session, got token=%q user=%v err=%v", token, got, err)
	}
}

func TestRecentSearchesNewestFirstAndCapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestState(t)

	for i := 0; i < maxRecentSearches+5; i++ {
		if err := st.AddRecentSearch(ctx, fmt.Sprintf("q%02d", i)); err != nil {
			t.Fatalf("AddRecentSearch: %v", err)
		}
	}
	// Re-using an old query moves it to the front.
	if err := st.AddRecentSearch(ctx, "  q10  "); err != nil {
		t.Fatalf("AddRecentSearch: %v", err)
	}

	got, err := st.RecentSearches(ctx, 0)
	if err != nil {
		t.Fatalf("RecentSearches: %v", err)
	}
	if len(got) != maxRecentSearches {
		t.Fatalf("expected %d entries, got %d", maxRecentSearches, len(got))
	}
	if got[0] != "q10" {
		t.Fatalf("expected most recent first, got %v", got[:3])
	}
	for _, q := range got {
		if q == "q00" {
			t.Fatalf("expected oldest query to be evicted: %v", got)
		}
	}
}
