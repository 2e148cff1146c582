// Package search aggregates tickets, projects and users matching a free-text
// query. Each pass lists the first page of every source and filters it in
// memory; there is no server-side index.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/model"

	"golang.org/x/sync/errgroup"
)

const (
	// MinQueryLen is the trimmed length below which no search runs.
	MinQueryLen = 2
	// PageSize is the limit sent to every source.
	PageSize = 10
	// PerType caps each result type before merging.
	PerType = 5
)

// Source is the part of the API client a search pass reads from.
type Source interface {
	ListTickets(ctx context.Context, f api.TicketFilter) (model.Page[model.Ticket], error)
	ListProjects(ctx context.Context, f api.ProjectFilter) (model.Page[model.Project], error)
	ListUsers(ctx context.Context, f api.UserFilter) (model.Page[model.User], error)
}

// SourceError reports a single source that failed during a pass.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string { return fmt.Sprintf("search %s: %v", e.Source, e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// Qualifies reports whether q is long enough to search for.
func Qualifies(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) >= MinQueryLen
}

// Search runs one pass without debouncing. A failing source contributes no
// results; its error is joined into the returned error while the other
// sources' results are still returned. Sources the caller may not read
// (403) are skipped silently.
func Search(ctx context.Context, src Source, query string, log *slog.Logger) ([]model.SearchResult, error) {
	q := strings.TrimSpace(query)
	if !Qualifies(q) {
		return nil, nil
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	page := api.ListOptions{Limit: PageSize, Offset: 0}
	var (
		tickets  []model.Ticket
		projects []model.Project
		users    []model.User
		errs     [3]error
	)
	var g errgroup.Group
	g.Go(func() error {
		p, err := src.ListTickets(ctx, api.TicketFilter{ListOptions: page})
		tickets, errs[0] = p.Items, err
		return nil
	})
	g.Go(func() error {
		p, err := src.ListProjects(ctx, api.ProjectFilter{ListOptions: page})
		projects, errs[1] = p.Items, err
		return nil
	})
	g.Go(func() error {
		p, err := src.ListUsers(ctx, api.UserFilter{ListOptions: page})
		users, errs[2] = p.Items, err
		return nil
	})
	_ = g.Wait()

	var failed []error
	for i, name := range []string{"tickets", "projects", "users"} {
		err := errs[i]
		if err == nil {
			continue
		}
		if errors.Is(err, api.ErrForbidden) {
			log.Debug("search source not permitted", "source", name)
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("search source failed", "source", name, "query", q, "err", err)
		failed = append(failed, &SourceError{Source: name, Err: err})
	}
	return Filter(q, tickets, projects, users), errors.Join(failed...)
}

// Filter matches q case-insensitively against ticket title/id, project
// name/description and user name/email, caps each type at PerType and merges
// them tickets first, then projects, then users.
func Filter(q string, tickets []model.Ticket, projects []model.Project, users []model.User) []model.SearchResult {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return nil
	}
	match := func(fields ...string) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), needle) {
				return true
			}
		}
		return false
	}

	out := make([]model.SearchResult, 0, 3*PerType)
	n := 0
	for _, t := range tickets {
		if n == PerType {
			break
		}
		if !match(t.Title, t.ID) {
			continue
		}
		out = append(out, model.SearchResult{
			Type:     model.SearchResultTicket,
			ID:       t.ID,
			Title:    t.Title,
			Subtitle: "#" + t.ID,
			URL:      "/tickets/" + t.ID,
		})
		n++
	}
	n = 0
	for _, p := range projects {
		if n == PerType {
			break
		}
		if !match(p.Name, p.Description) {
			continue
		}
		out = append(out, model.SearchResult{
			Type:     model.SearchResultProject,
			ID:       p.ID,
			Title:    p.Name,
			Subtitle: p.Description,
			URL:      "/projects/" + p.ID,
		})
		n++
	}
	n = 0
	for _, u := range users {
		if n == PerType {
			break
		}
		if !match(u.FullName, u.Email) {
			continue
		}
		out = append(out, model.SearchResult{
			Type:     model.SearchResultUser,
			ID:       u.ID,
			Title:    u.FullName,
			Subtitle: u.Email,
			URL:      "/users/" + u.ID,
		})
		n++
	}
	return out
}
