package streamselect

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"helpdesk-cli/internal/model"
)

type fakeLoader struct {
	mu       sync.Mutex
	parents  map[string][]model.Stream
	children map[string][]model.Stream
	failOn   map[string]error
	calls    []string
}

func (f *fakeLoader) ListParentStreams(_ context.Context, projectID string) ([]model.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "parents:"+projectID)
	if err := f.failOn["parents:"+projectID]; err != nil {
		return nil, err
	}
	return f.parents[projectID], nil
}

func (f *fakeLoader) ListChildStreams(_ context.Context, parentID string) ([]model.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "children:"+parentID)
	if err := f.failOn["children:"+parentID]; err != nil {
		return nil, err
	}
	return f.children[parentID], nil
}

func streams(ids ...string) []model.Stream {
	out := make([]model.Stream, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Stream{ID: id, Name: "Stream " + id, Active: true})
	}
	return out
}

func newLoader() *fakeLoader {
	return &fakeLoader{
		parents: map[string][]model.Stream{
			"p1": streams("hw", "sw", "ops"),
			"p2": streams("billing"),
		},
		children: map[string][]model.Stream{
			"hw":  streams("hw-laptop", "hw-printer"),
			"sw":  streams("sw-crash", "hw-printer"),
			"ops": nil,
		},
		failOn: map[string]error{},
	}
}

type recorder struct{ got []string }

func (r *recorder) opts() Options {
	return Options{OnValueChange: func(id string) { r.got = append(r.got, id) }}
}

func TestSelectParentWithoutChildrenEmitsParentOnce(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	s := NewSelector(newLoader(), rec.opts())
	ctx := context.Background()

	if err := s.SetProject(ctx, "p1"); err != nil {
		t.Fatalf("SetProject: %v", err)
	}
	if s.Machine().State() != StateNoParent {
		t.Fatalf("state = %v, want no-parent", s.Machine().State())
	}
	if err := s.SelectParent(ctx, "ops"); err != nil {
		t.Fatalf("SelectParent: %v", err)
	}
	if diff := cmp.Diff([]string{"ops"}, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}
	m := s.Machine()
	if m.State() != StateNoChildren || m.ShowChildSelect() || m.Info() == "" {
		t.Fatalf("expected no-children with info, got state=%v show=%v", m.State(), m.ShowChildSelect())
	}
	if s.Value() != "ops" {
		t.Fatalf("value = %q", s.Value())
	}
}

func TestSelectParentWithChildrenWaitsForChild(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	s := NewSelector(newLoader(), rec.opts())
	ctx := context.Background()
	_ = s.SetProject(ctx, "p1")

	if err := s.SelectParent(ctx, "hw"); err != nil {
		t.Fatalf("SelectParent: %v", err)
	}
	if len(rec.got) != 0 {
		t.Fatalf("expected no emission before a type is chosen, got %v", rec.got)
	}
	if !s.Machine().ShowChildSelect() {
		t.Fatalf("expected type select to be shown")
	}
	if err := s.SelectChild("hw-printer"); err != nil {
		t.Fatalf("SelectChild: %v", err)
	}
	if err := s.SelectChild("sw-crash"); !errors.Is(err, ErrUnknownStream) {
		t.Fatalf("expected ErrUnknownStream for a foreign type, got %v", err)
	}
	if diff := cmp.Diff([]string{"hw-printer"}, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}
}

func TestChangingParentClearsChild(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	s := NewSelector(newLoader(), rec.opts())
	ctx := context.Background()
	_ = s.SetProject(ctx, "p1")
	_ = s.SelectParent(ctx, "hw")
	_ = s.SelectChild("hw-laptop")

	if err := s.SelectParent(ctx, "sw"); err != nil {
		t.Fatalf("SelectParent: %v", err)
	}
	m := s.Machine()
	if m.ChildID() != "" || m.State() != StateAwaitingChild {
		t.Fatalf("expected cleared type, got child=%q state=%v", m.ChildID(), m.State())
	}
	if diff := cmp.Diff([]string{"hw-laptop", ""}, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}

	s.ClearParent()
	if m.ParentID() != "" || m.State() != StateNoParent {
		t.Fatalf("expected cleared category, got %q %v", m.ParentID(), m.State())
	}
	if len(rec.got) != 2 {
		t.Fatalf("clearing an already empty value must not emit again: %v", rec.got)
	}
}

func TestStaleChildrenResponseIsDropped(t *testing.T) {
	t.Parallel()
	m := New(Options{})
	req := m.SetProject("p1")
	m.Apply(Result{Req: req, Streams: streams("hw", "sw")})

	first, err := m.SelectParent("hw")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.SelectParent("sw")
	if err != nil {
		t.Fatal(err)
	}
	// The slow response for "hw" arrives after "sw" was chosen.
	m.Apply(Result{Req: first, Streams: streams("hw-laptop")})
	if m.State() != StateLoadingChildren || m.Children() != nil {
		t.Fatalf("stale response applied: state=%v children=%v", m.State(), m.Children())
	}
	m.Apply(Result{Req: second, Streams: streams("sw-crash")})
	if diff := cmp.Diff(streams("sw-crash"), m.Children()); diff != "" {
		t.Fatalf("children (-want +got):\n%s", diff)
	}
}

func TestProjectChangeDropsInFlightResponses(t *testing.T) {
	t.Parallel()
	m := New(Options{})
	old := m.SetProject("p1")
	cur := m.SetProject("p2")

	m.Apply(Result{Req: old, Streams: streams("hw")})
	if m.State() != StateLoadingParents {
		t.Fatalf("stale parents applied, state=%v", m.State())
	}
	m.Apply(Result{Req: cur, Streams: streams("billing")})
	if diff := cmp.Diff(streams("billing"), m.Parents()); diff != "" {
		t.Fatalf("parents (-want +got):\n%s", diff)
	}
}

func TestSetValueReconcilesChildToFirstOwningParent(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	loader := newLoader()
	s := NewSelector(loader, rec.opts())
	ctx := context.Background()

	// Value known before the categories load.
	if err := s.SetValue(ctx, "hw-printer"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetProject(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	m := s.Machine()
	if m.ParentID() != "hw" || m.ChildID() != "hw-printer" || m.State() != StateChildSelected {
		t.Fatalf("got parent=%q child=%q state=%v", m.ParentID(), m.ChildID(), m.State())
	}
	// Probing stops at the first owner.
	want := []string{"parents:p1", "children:hw"}
	if diff := cmp.Diff(want, loader.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
	if len(rec.got) != 0 {
		t.Fatalf("reconciling must not echo the value back: %v", rec.got)
	}
}

func TestSetValueReconcilesParentWithoutChildren(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	s := NewSelector(newLoader(), rec.opts())
	ctx := context.Background()
	_ = s.SetProject(ctx, "p1")

	if err := s.SetValue(ctx, "ops"); err != nil {
		t.Fatal(err)
	}
	m := s.Machine()
	if m.ParentID() != "ops" || m.State() != StateNoChildren || s.Value() != "ops" {
		t.Fatalf("got parent=%q state=%v value=%q", m.ParentID(), m.State(), s.Value())
	}
	if len(rec.got) != 0 {
		t.Fatalf("unexpected emissions %v", rec.got)
	}
}

func TestSetValueUnknownLeavesSelectionEmpty(t *testing.T) {
	t.Parallel()
	s := NewSelector(newLoader(), Options{})
	ctx := context.Background()
	_ = s.SetProject(ctx, "p1")

	if err := s.SetValue(ctx, "nope"); err != nil {
		t.Fatal(err)
	}
	if s.Machine().State() != StateNoParent || s.Value() != "" {
		t.Fatalf("got state=%v value=%q", s.Machine().State(), s.Value())
	}
}

func TestLoadErrorKeepsLoadedParents(t *testing.T) {
	t.Parallel()
	loader := newLoader()
	loader.failOn["children:sw"] = errors.New("boom")
	s := NewSelector(loader, Options{})
	ctx := context.Background()
	_ = s.SetProject(ctx, "p1")

	err := s.SelectParent(ctx, "sw")
	if err == nil {
		t.Fatalf("expected error")
	}
	m := s.Machine()
	if m.State() != StateError || m.Err() == "" {
		t.Fatalf("expected error state, got %v %q", m.State(), m.Err())
	}
	if len(m.Parents()) != 3 || m.ParentID() != "sw" {
		t.Fatalf("expected categories and selection kept, got %d %q", len(m.Parents()), m.ParentID())
	}

	delete(loader.failOn, "children:sw")
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if m.State() != StateAwaitingChild || m.Err() != "" {
		t.Fatalf("expected recovery, got %v %q", m.State(), m.Err())
	}
}

func TestRequiredAndDisabled(t *testing.T) {
	t.Parallel()
	s := NewSelector(newLoader(), Options{Required: true})
	ctx := context.Background()
	_ = s.SetProject(ctx, "p1")

	var fe model.FieldErrors
	if err := s.Machine().Validate(); !errors.As(err, &fe) || fe["streamId"] == "" {
		t.Fatalf("expected streamId required, got %v", err)
	}
	_ = s.SelectParent(ctx, "ops")
	if err := s.Machine().Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	s.Machine().SetDisabled(true)
	if err := s.SelectParent(ctx, "hw"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestSelectParentBeforeLoad(t *testing.T) {
	t.Parallel()
	m := New(Options{})
	m.SetProject("p1")
	if _, err := m.SelectParent("hw"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestRepliesFromAnotherMachineAreIgnored(t *testing.T) {
	t.Parallel()
	first := New(Options{})
	stale := first.SetProject("p1")
	second := New(Options{})
	cur := second.SetProject("p2")

	second.Apply(Result{Req: stale, Streams: streams("hw")})
	if second.State() != StateLoadingParents || second.Parents() != nil {
		t.Fatalf("foreign reply applied: state=%v parents=%v", second.State(), second.Parents())
	}
	second.Apply(Result{Req: cur, Streams: streams("billing")})
	if diff := cmp.Diff(streams("billing"), second.Parents()); diff != "" {
		t.Fatalf("parents (-want +got):\n%s", diff)
	}
}

func TestParentsReplyForOtherProjectIsIgnored(t *testing.T) {
	t.Parallel()
	m := New(Options{})
	m.SetProject("p2")

	m.Apply(Result{Req: Request{Kind: RequestParents, Gen: m.gen, ProjectID: "p1"}, Streams: streams("hw")})
	if m.State() != StateLoadingParents || m.Parents() != nil {
		t.Fatalf("reply for p1 applied to p2: state=%v parents=%v", m.State(), m.Parents())
	}
}

func TestClearParentWhileCategoriesLoadKeepsRequest(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	m := New(rec.opts())
	m.SetValue("hw-printer")
	req := m.SetProject("p1")

	m.ClearParent()
	if m.State() != StateLoadingParents {
		t.Fatalf("expected categories still loading, got %v", m.State())
	}
	if next := m.Apply(Result{Req: req, Streams: streams("hw", "ops")}); next.Pending() {
		t.Fatalf("dropped value must not be reconciled, got %+v", next)
	}
	if m.State() != StateNoParent || len(m.Parents()) != 2 {
		t.Fatalf("got state=%v parents=%v", m.State(), m.Parents())
	}
	if diff := cmp.Diff([]string{""}, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}
}

func TestSetValueCategoryWithTypesDoesNotEmit(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	s := NewSelector(newLoader(), rec.opts())
	ctx := context.Background()
	_ = s.SetProject(ctx, "p1")

	if err := s.SetValue(ctx, "hw"); err != nil {
		t.Fatal(err)
	}
	m := s.Machine()
	if m.ParentID() != "hw" || m.State() != StateAwaitingChild || s.Value() != "" {
		t.Fatalf("got parent=%q state=%v value=%q", m.ParentID(), m.State(), s.Value())
	}
	if len(rec.got) != 0 {
		t.Fatalf("unexpected emissions %v", rec.got)
	}

	// A user choice afterwards still notifies.
	if err := s.SelectChild("hw-laptop"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"hw-laptop"}, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}
}
