package tui

import (
	"errors"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/search"
	"helpdesk-cli/internal/streamselect"

	tea "github.com/charmbracelet/bubbletea"
)

const boardTicketLimit = 200

type loginDoneMsg struct {
	user model.User
	err  error
}

type logoutDoneMsg struct{ err error }

type taxonomyLoadedMsg struct {
	statuses   []model.Status
	priorities []model.Priority
	err        error
}

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type ticketsLoadedMsg struct {
	projectID string
	tickets   []model.Ticket
	total     int
	err       error
}

type ticketMovedMsg struct {
	ticketID string
	from     string
	ticket   model.Ticket
	err      error
}

type detailLoadedMsg struct {
	ticket   model.Ticket
	comments []model.Comment
	err      error
}

type dashboardLoadedMsg struct {
	dash api.Dashboard
	err  error
}

type searchUpdateMsg struct{ snap search.Snapshot }

type recentSearchesMsg struct{ queries []string }

// streamResultMsg carries the machine that asked, so a reply for a closed
// picker never reaches the one that replaced it.
type streamResultMsg struct {
	sel *streamselect.Machine
	res streamselect.Result
}

type streamSavedMsg struct {
	ticket model.Ticket
	err    error
}

type logMsg struct{ entry LogEntry }

// begin marks kind as in flight and starts the spinner if it was idle.
func (m appModel) begin(kind string) tea.Cmd {
	idle := len(m.busy) == 0
	m.busy[kind] = true
	if idle {
		return m.spin.Tick
	}
	return nil
}

func (m appModel) done(kind string) {
	delete(m.busy, kind)
}

func (m appModel) doLogin(creds model.Credentials) tea.Cmd {
	ctx, client, sess := m.ctx, m.client, m.session
	return tea.Batch(m.begin("login"), func() tea.Msg {
		u, err := sess.Login(ctx, client, creds)
		return loginDoneMsg{user: u, err: err}
	})
}

func (m appModel) doLogout() tea.Cmd {
	ctx, client, sess := m.ctx, m.client, m.session
	return func() tea.Msg {
		return logoutDoneMsg{err: sess.Logout(ctx, client)}
	}
}

func (m appModel) loadTaxonomy() tea.Cmd {
	ctx, client := m.ctx, m.client
	return tea.Batch(m.begin("taxonomy"), func() tea.Msg {
		statuses, err := client.Statuses(ctx)
		if err != nil {
			return taxonomyLoadedMsg{err: err}
		}
		priorities, err := client.Priorities(ctx)
		return taxonomyLoadedMsg{statuses: statuses, priorities: priorities, err: err}
	})
}

func (m appModel) loadProjects() tea.Cmd {
	ctx, client := m.ctx, m.client
	return tea.Batch(m.begin("projects"), func() tea.Msg {
		page, err := client.ListProjects(ctx, api.ProjectFilter{ListOptions: api.ListOptions{Limit: 100}})
		return projectsLoadedMsg{projects: page.Items, err: err}
	})
}

func (m appModel) loadTickets() tea.Cmd {
	ctx, client, projectID := m.ctx, m.client, m.projectID
	return tea.Batch(m.begin("tickets"), func() tea.Msg {
		page, err := client.ListTickets(ctx, api.TicketFilter{
			ListOptions: api.ListOptions{Limit: boardTicketLimit},
			ProjectID:   projectID,
		})
		return ticketsLoadedMsg{projectID: projectID, tickets: page.Items, total: page.Total, err: err}
	})
}

func (m appModel) moveTicket(mv pendingMove, from string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return tea.Batch(m.begin("move:"+mv.ticketID), func() tea.Msg {
		t, err := client.MoveTicket(ctx, mv.ticketID, mv.toStatus)
		return ticketMovedMsg{ticketID: mv.ticketID, from: from, ticket: t, err: err}
	})
}

func (m appModel) loadDetail(id string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return tea.Batch(m.begin("detail"), func() tea.Msg {
		t, err := client.GetTicket(ctx, id)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		comments, err := client.ListComments(ctx, id)
		if errors.Is(err, api.ErrForbidden) {
			err = nil
		}
		return detailLoadedMsg{ticket: t, comments: comments, err: err}
	})
}

func (m appModel) loadDashboard() tea.Cmd {
	ctx, client, projectID := m.ctx, m.client, m.projectID
	return tea.Batch(m.begin("dashboard"), func() tea.Msg {
		d, err := client.LoadDashboard(ctx, projectID)
		return dashboardLoadedMsg{dash: d, err: err}
	})
}

func (m appModel) loadRecentSearches() tea.Cmd {
	ctx, st, log := m.ctx, m.state, m.log
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		qs, err := st.RecentSearches(ctx, 10)
		if err != nil {
			log.WarnContext(ctx, "load recent searches", "err", err)
		}
		return recentSearchesMsg{queries: qs}
	}
}

func (m appModel) saveRecentSearch(q string) tea.Cmd {
	ctx, st, log := m.ctx, m.state, m.log
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		if err := st.AddRecentSearch(ctx, q); err != nil {
			log.WarnContext(ctx, "save recent search", "err", err)
		}
		return nil
	}
}

// fetchStreams runs a selector request; the result is applied back to the
// machine by Update, which drops it if it has been superseded.
func (m appModel) fetchStreams(req streamselect.Request) tea.Cmd {
	if !req.Pending() {
		return nil
	}
	ctx, client, sel := m.ctx, m.client, m.streams.sel
	return func() tea.Msg {
		return streamResultMsg{sel: sel, res: streamselect.Fetch(ctx, client, req)}
	}
}

func (m appModel) saveStream(ticketID, streamID string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return tea.Batch(m.begin("stream"), func() tea.Msg {
		v := streamID
		t, err := client.UpdateTicket(ctx, ticketID, model.TicketInput{StreamID: &v})
		return streamSavedMsg{ticket: t, err: err}
	})
}
