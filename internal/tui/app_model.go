package tui

import (
	"context"
	"log/slog"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/board"
	"helpdesk-cli/internal/config"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"
	"helpdesk-cli/internal/search"
	"helpdesk-cli/internal/session"
	"helpdesk-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewBoard
	viewDetail
)

type modalKind int

const (
	modalNone modalKind = iota
	modalSearch
	modalStreams
	modalProjects
	modalHelp
)

// searchEngine is the part of search.Searcher the model drives.
type searchEngine interface {
	SetQuery(q string)
	Snapshot() search.Snapshot
}

// moveQueue collects the board's move callbacks; it is shared by all copies
// of the model so a drop handled in Update can be turned into commands.
type moveQueue struct {
	pending []pendingMove
}

type pendingMove struct {
	ticketID string
	toStatus string
}

func (q *moveQueue) drain() []pendingMove {
	out := q.pending
	q.pending = nil
	return out
}

type appModel struct {
	ctx     context.Context
	client  *api.Client
	session *session.Session
	state   *store.State
	cfg     *config.Config
	log     *slog.Logger

	keys keyMap
	help help.Model
	spin spinner.Model

	width  int
	height int

	view  view
	modal modalKind

	// busy holds the kinds of requests in flight; the spinner runs while it
	// is non-empty. Maps are shared by model copies, so Init may mark it.
	busy    map[string]bool
	flash   string
	flashOK bool
	lastLog *LogEntry

	login loginForm

	projects  []model.Project
	projectID string
	picker    projectPicker

	statuses   []model.Status
	priorities []model.Priority
	tickets    []model.Ticket
	board      *board.Board
	moves      *moveQueue
	sel        board.Selection

	detail    detailState
	dashboard *api.Dashboard

	searcher searchEngine
	search   searchState

	streams streamPicker
}

func newAppModel(ctx context.Context, deps Deps, searcher searchEngine) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styleMuted()

	m := appModel{
		ctx:      ctx,
		client:   deps.Client,
		session:  deps.Session,
		state:    deps.State,
		cfg:      deps.Config,
		log:      log,
		keys:     defaultKeys(),
		help:     help.New(),
		spin:     sp,
		moves:    &moveQueue{},
		busy:     map[string]bool{},
		searcher: searcher,
		login:    newLoginForm(),
		search:   newSearchState(),
		picker:   newProjectPicker(),
	}
	if deps.Config != nil {
		m.projectID = deps.Config.DefaultProjectID
	}
	q := m.moves
	m.board = board.New(nil, nil, func(ticketID, toStatusID string) {
		q.pending = append(q.pending, pendingMove{ticketID: ticketID, toStatus: toStatusID})
	})

	if u, ok := m.currentUser(); ok {
		m.view = m.homeView(u.Role)
	} else {
		m.view = viewLogin
		m.login.focus()
	}
	return m
}

func (m appModel) currentUser() (model.User, bool) {
	if m.session == nil {
		return model.User{}, false
	}
	return m.session.User()
}

func (m appModel) role() model.Role {
	if m.session == nil {
		return ""
	}
	return m.session.Role()
}

func (m appModel) homeView(role model.Role) view {
	if perm.CanView(role, perm.SectionBoard) {
		return viewBoard
	}
	return viewDashboard
}

func (m appModel) Init() tea.Cmd {
	if m.view == viewLogin {
		return textinput.Blink
	}
	return m.startSession()
}

// startSession loads what the signed-in user's first screen needs.
func (m appModel) startSession() tea.Cmd {
	cmds := []tea.Cmd{m.loadTaxonomy(), m.loadProjects()}
	if m.projectID != "" {
		cmds = append(cmds, m.loadTickets())
	}
	if perm.CanView(m.role(), perm.SectionDashboard) {
		cmds = append(cmds, m.loadDashboard())
	}
	return tea.Batch(cmds...)
}
