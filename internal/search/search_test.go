package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/clock"
	"helpdesk-cli/internal/model"
)

type fakeSource struct {
	mu       sync.Mutex
	tickets  []model.Ticket
	projects []model.Project
	users    []model.User
	fail     map[string]error
	calls    []string
	limits   []int
	// gate, when set, blocks ListTickets until it is closed or ctx ends.
	gate chan struct{}
}

func (f *fakeSource) record(name string, o api.ListOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.limits = append(f.limits, o.Limit)
	return f.fail[name]
}

func (f *fakeSource) ListTickets(ctx context.Context, flt api.TicketFilter) (model.Page[model.Ticket], error) {
	if err := f.record("tickets", flt.ListOptions); err != nil {
		return model.Page[model.Ticket]{}, err
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return model.Page[model.Ticket]{}, ctx.Err()
		}
	}
	return model.Page[model.Ticket]{Items: f.tickets, Total: len(f.tickets)}, nil
}

func (f *fakeSource) ListProjects(_ context.Context, flt api.ProjectFilter) (model.Page[model.Project], error) {
	if err := f.record("projects", flt.ListOptions); err != nil {
		return model.Page[model.Project]{}, err
	}
	return model.Page[model.Project]{Items: f.projects, Total: len(f.projects)}, nil
}

func (f *fakeSource) ListUsers(_ context.Context, flt api.UserFilter) (model.Page[model.User], error) {
	if err := f.record("users", flt.ListOptions); err != nil {
		return model.Page[model.User]{}, err
	}
	return model.Page[model.User]{Items: f.users, Total: len(f.users)}, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func scenarioSource() *fakeSource {
	return &fakeSource{
		tickets:  []model.Ticket{{ID: "t1", Title: "Test ticket"}},
		projects: []model.Project{{ID: "p1", Name: "Test project"}},
		users:    []model.User{{ID: "u1", FullName: "Test User", Email: "test@example.com"}},
		fail:     map[string]error{},
	}
}

func newTestSearcher(src Source) (*Searcher, *clock.Fake, *[]Snapshot, *sync.Mutex) {
	clk := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	var mu sync.Mutex
	var updates []Snapshot
	s := NewSearcher(src, Options{
		Clock: clk,
		OnUpdate: func(snap Snapshot) {
			mu.Lock()
			updates = append(updates, snap)
			mu.Unlock()
		},
	})
	return s, clk, &updates, &mu
}

func TestShortQueryResetsWithoutRequests(t *testing.T) {
	t.Parallel()
	for _, q := range []string{"", "t", "  t  ", "é"} {
		q := q
		t.Run(fmt.Sprintf("%q", q), func(t *testing.T) {
			t.Parallel()
			src := scenarioSource()
			s, clk, _, _ := newTestSearcher(src)
			defer s.Close()

			s.SetQuery(q)
			clk.Advance(time.Second)
			s.Wait()

			snap := s.Snapshot()
			if len(snap.Results) != 0 || snap.Loading {
				t.Fatalf("expected empty idle snapshot, got %+v", snap)
			}
			if src.callCount() != 0 {
				t.Fatalf("expected no requests, got %v", src.calls)
			}
		})
	}
}

func TestScenarioMergesInTypeOrder(t *testing.T) {
	t.Parallel()
	src := scenarioSource()
	s, clk, _, _ := newTestSearcher(src)
	defer s.Close()

	s.SetQuery("te")
	clk.Advance(299 * time.Millisecond)
	if src.callCount() != 0 {
		t.Fatalf("searched before the debounce elapsed")
	}
	clk.Advance(time.Millisecond)
	s.Wait()

	want := []model.SearchResult{
		{Type: model.SearchResultTicket, ID: "t1", Title: "Test ticket", Subtitle: "#t1", URL: "/tickets/t1"},
		{Type: model.SearchResultProject, ID: "p1", Title: "Test project", URL: "/projects/p1"},
		{Type: model.SearchResultUser, ID: "u1", Title: "Test User", Subtitle: "test@example.com", URL: "/users/u1"},
	}
	snap := s.Snapshot()
	if diff := cmp.Diff(want, snap.Results); diff != "" {
		t.Fatalf("results (-want +got):\n%s", diff)
	}
	if snap.Loading || snap.Err != nil {
		t.Fatalf("expected settled snapshot, got loading=%v err=%v", snap.Loading, snap.Err)
	}
	for _, l := range src.limits {
		if l != PageSize {
			t.Fatalf("expected limit %d on every source, got %v", PageSize, src.limits)
		}
	}
}

func TestDebounceKeepsOnlyLastQuery(t *testing.T) {
	t.Parallel()
	src := scenarioSource()
	s, clk, _, _ := newTestSearcher(src)
	defer s.Close()

	s.SetQuery("te")
	clk.Advance(200 * time.Millisecond)
	s.SetQuery("tes")
	clk.Advance(200 * time.Millisecond)
	s.SetQuery("test")
	clk.Advance(300 * time.Millisecond)
	s.Wait()

	if got := src.callCount(); got != 3 {
		t.Fatalf("expected one pass (3 calls), got %d: %v", got, src.calls)
	}
	if clk.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", clk.Pending())
	}
}

func TestClearingQueryResetsSynchronously(t *testing.T) {
	t.Parallel()
	src := scenarioSource()
	s, clk, updates, mu := newTestSearcher(src)
	defer s.Close()

	s.SetQuery("te")
	clk.Advance(DefaultDebounce)
	s.Wait()
	if len(s.Snapshot().Results) == 0 {
		t.Fatalf("expected results before clearing")
	}

	s.SetQuery("")
	snap := s.Snapshot()
	if len(snap.Results) != 0 || snap.Loading {
		t.Fatalf("expected immediate reset, got %+v", snap)
	}
	mu.Lock()
	last := (*updates)[len(*updates)-1]
	mu.Unlock()
	if len(last.Results) != 0 {
		t.Fatalf("expected reset to be published, got %+v", last)
	}
}

func TestPerTypeCap(t *testing.T) {
	t.Parallel()
	var tickets []model.Ticket
	var users []model.User
	for i := 0; i < 10; i++ {
		tickets = append(tickets, model.Ticket{ID: fmt.Sprintf("t%d", i), Title: "Network down"})
		users = append(users, model.User{ID: fmt.Sprintf("u%d", i), FullName: "Net Admin"})
	}
	projects := []model.Project{{ID: "p1", Name: "Infra", Description: "network gear"}}

	got := Filter("NET", tickets, projects, users)
	if len(got) != PerType+1+PerType {
		t.Fatalf("expected %d results, got %d", 2*PerType+1, len(got))
	}
	var order []model.SearchResultType
	for _, r := range got {
		if len(order) == 0 || order[len(order)-1] != r.Type {
			order = append(order, r.Type)
		}
	}
	want := []model.SearchResultType{model.SearchResultTicket, model.SearchResultProject, model.SearchResultUser}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("type order (-want +got):\n%s", diff)
	}
}

func TestFilterMatchesIDAndEmail(t *testing.T) {
	t.Parallel()
	tickets := []model.Ticket{{ID: "HD-42", Title: "Printer"}}
	users := []model.User{{ID: "u1", FullName: "Ada", Email: "ada@hd-42.example"}}
	got := Filter("hd-42", tickets, nil, users)
	if len(got) != 2 || got[0].ID != "HD-42" || got[1].ID != "u1" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestFailingSourceKeepsOthers(t *testing.T) {
	t.Parallel()
	src := scenarioSource()
	src.fail["projects"] = errors.New("connection reset")
	s, clk, _, _ := newTestSearcher(src)
	defer s.Close()

	s.SetQuery("test")
	clk.Advance(DefaultDebounce)
	s.Wait()

	snap := s.Snapshot()
	if len(snap.Results) != 2 {
		t.Fatalf("expected ticket and user results, got %+v", snap.Results)
	}
	var se *SourceError
	if !errors.As(snap.Err, &se) || se.Source != "projects" {
		t.Fatalf("expected projects SourceError, got %v", snap.Err)
	}
}

func TestForbiddenSourceIsSkipped(t *testing.T) {
	t.Parallel()
	src := scenarioSource()
	src.fail["users"] = &api.Error{StatusCode: 403, Code: "forbidden"}

	got, err := Search(context.Background(), src, "test", nil)
	if err != nil {
		t.Fatalf("expected forbidden source to be skipped, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %+v", got)
	}
}

func TestStalePassIsDiscarded(t *testing.T) {
	t.Parallel()
	src := scenarioSource()
	src.gate = make(chan struct{})
	s, clk, _, _ := newTestSearcher(src)
	defer s.Close()

	s.SetQuery("test")
	clk.Advance(DefaultDebounce)
	if !s.Snapshot().Loading {
		t.Fatalf("expected loading while the pass is in flight")
	}

	// A new short query cancels the blocked pass.
	s.SetQuery("x")
	s.Wait()
	close(src.gate)

	snap := s.Snapshot()
	if len(snap.Results) != 0 || snap.Loading || snap.Err != nil {
		t.Fatalf("stale pass leaked into snapshot: %+v", snap)
	}
}

func TestCloseStopsPendingTimer(t *testing.T) {
	t.Parallel()
	src := scenarioSource()
	s, clk, _, _ := newTestSearcher(src)

	s.SetQuery("test")
	s.Close()
	clk.Advance(time.Second)
	s.SetQuery("other")
	clk.Advance(time.Second)

	if src.callCount() != 0 {
		t.Fatalf("expected no requests after Close, got %v", src.calls)
	}
}
