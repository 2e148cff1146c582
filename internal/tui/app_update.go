package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/perm"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) setFlash(s string, ok bool) {
	m.flash = s
	m.flashOK = ok
}

// failed reports err in the status bar. A rejected token ends the session.
func (m appModel) failed(what string, err error) (appModel, tea.Cmd) {
	m.log.WarnContext(m.ctx, what, "err", err)
	if errors.Is(err, api.ErrUnauthorized) {
		return m.signedOut("Your session has expired. Please sign in again.")
	}
	m.setFlash(what+": "+err.Error(), false)
	return m, nil
}

func (m appModel) signedOut(note string) (appModel, tea.Cmd) {
	m.view = viewLogin
	m.modal = modalNone
	m.board.Cancel()
	m.tickets = nil
	m.dashboard = nil
	m.rebuildBoard()
	m.login = newLoginForm()
	m.login.err = note
	return m, m.login.focus()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refreshDetailContent()
		if m.modal == modalProjects {
			m.picker.list.SetSize(min(max(m.width-10, 30), 70), max(m.height-8, 5))
		}
		return m, nil

	case spinner.TickMsg:
		if len(m.busy) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case logMsg:
		if msg.entry.Level >= slog.LevelWarn {
			e := msg.entry
			m.lastLog = &e
		}
		return m, nil

	case loginDoneMsg:
		m.done("login")
		m.login.pending = false
		if msg.err != nil {
			m.login.err = loginError(msg.err)
			m.login.password.SetValue("")
			return m, nil
		}
		m.login = newLoginForm()
		m.view = m.homeView(msg.user.Role)
		m.setFlash("Signed in as "+msg.user.FullName+".", true)
		return m, m.startSession()

	case logoutDoneMsg:
		if msg.err != nil {
			m.log.WarnContext(m.ctx, "clear session", "err", msg.err)
		}
		return m.signedOut("Signed out.")

	case taxonomyLoadedMsg:
		m.done("taxonomy")
		if msg.err != nil {
			return m.failed("Load statuses", msg.err)
		}
		m.statuses = msg.statuses
		m.priorities = msg.priorities
		m.rebuildBoard()
		m.refreshDetailContent()
		return m, nil

	case projectsLoadedMsg:
		m.done("projects")
		if msg.err != nil {
			return m.failed("Load projects", msg.err)
		}
		m.projects = msg.projects
		if m.projectID == "" && len(m.projects) > 0 {
			return m.selectProject(m.projects[0].ID)
		}
		return m, nil

	case ticketsLoadedMsg:
		if msg.projectID != m.projectID {
			return m, nil
		}
		m.done("tickets")
		if msg.err != nil {
			return m.failed("Load tickets", msg.err)
		}
		m.tickets = msg.tickets
		m.rebuildBoard()
		if msg.total > len(msg.tickets) {
			m.setFlash(fmt.Sprintf("Showing the first %d of %d tickets.", len(msg.tickets), msg.total), true)
		}
		return m, nil

	case ticketMovedMsg:
		m.done("move:" + msg.ticketID)
		if msg.err != nil {
			m.applyStatus(msg.ticketID, msg.from)
			return m.failed("Move #"+msg.ticketID, msg.err)
		}
		m.replaceTicket(msg.ticket)
		return m, nil

	case detailLoadedMsg:
		m.done("detail")
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrNotFound) {
				m.detail.err = "Ticket #" + m.detail.id + " not found."
				return m, nil
			}
			m.detail.err = msg.err.Error()
			return m.failed("Load ticket", msg.err)
		}
		if msg.ticket.ID != m.detail.id {
			return m, nil
		}
		m.detail.ticket = msg.ticket
		m.detail.comments = msg.comments
		m.detail.loaded = true
		m.refreshDetailContent()
		return m, nil

	case dashboardLoadedMsg:
		m.done("dashboard")
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrForbidden) {
				return m, nil
			}
			return m.failed("Load dashboard", msg.err)
		}
		d := msg.dash
		m.dashboard = &d
		return m, nil

	case searchUpdateMsg:
		return m.applySearchSnapshot(msg.snap), nil

	case recentSearchesMsg:
		m.search.recent = msg.queries
		return m, nil

	case streamResultMsg:
		if msg.sel != m.streams.sel {
			return m, nil
		}
		return m.applyStreamResult(msg.res)

	case streamSavedMsg:
		m.done("stream")
		m.streams.saving = false
		if msg.err != nil {
			m.streams.saveErr = msg.err.Error()
			return m.failed("Save stream", msg.err)
		}
		m.modal = modalNone
		m.replaceTicket(msg.ticket)
		if m.detail.id == msg.ticket.ID && m.detail.loaded {
			m.detail.ticket = msg.ticket
			m.refreshDetailContent()
		}
		m.setFlash("Stream updated for #"+msg.ticket.ID+".", true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == viewLogin {
		return m.updateLogin(msg)
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.modal {
	case modalSearch:
		return m.updateSearch(msg)
	case modalStreams:
		return m.updateStreamPicker(msg)
	case modalProjects:
		return m.updateProjectPicker(msg)
	case modalHelp:
		m.modal = modalNone
		return m, nil
	}

	_, dragging := m.board.Dragging()
	if !dragging {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.modal = modalHelp
			return m, nil
		case key.Matches(msg, m.keys.Search):
			if perm.CanView(m.role(), perm.SectionSearch) {
				return m.openSearch()
			}
			return m, nil
		case key.Matches(msg, m.keys.Projects):
			return m.openProjectPicker()
		case key.Matches(msg, m.keys.Home):
			if perm.CanView(m.role(), perm.SectionDashboard) {
				m.view = viewDashboard
				return m, m.loadDashboard()
			}
			return m, nil
		case key.Matches(msg, m.keys.Board) && m.view != viewBoard:
			m.view = viewBoard
			return m, nil
		case key.Matches(msg, m.keys.Logout):
			return m, m.doLogout()
		}
	}

	switch m.view {
	case viewBoard:
		return m.updateBoard(msg)
	case viewDetail:
		return m.updateDetail(msg)
	case viewDashboard:
		if key.Matches(msg, m.keys.Reload) {
			return m, m.loadDashboard()
		}
	}
	return m, nil
}

func loginError(err error) string {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "Invalid email or password."
	}
	return err.Error()
}
