// Package tui is the interactive helpdesk client.
package tui

import (
	"context"
	"log/slog"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/config"
	"helpdesk-cli/internal/search"
	"helpdesk-cli/internal/session"
	"helpdesk-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Deps struct {
	Client  *api.Client
	Session *session.Session
	State   *store.State
	Config  *config.Config
	Logger  *slog.Logger
	// Logs, when set, is the handler behind Logger; its records are shown
	// in the status bar.
	Logs *LogHandler
}

func Run(ctx context.Context, deps Deps) error {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	var profile string
	if deps.Config != nil && deps.Config.TUI != nil {
		profile = deps.Config.TUI.Profile
	}
	applyColorProfilePreference(profile)
	applyThemePreference()

	// Search passes complete off the UI goroutine; their snapshots reach
	// the program as messages.
	var p *tea.Program
	searcher := search.NewSearcher(deps.Client, search.Options{
		Debounce: deps.Config.SearchDebounce(),
		Logger:   deps.Logger,
		OnUpdate: func(s search.Snapshot) { p.Send(searchUpdateMsg{snap: s}) },
	})
	defer searcher.Close()

	m := newAppModel(ctx, deps, searcher)
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if deps.Logs != nil {
		deps.Logs.Subscribe(func(e LogEntry) { p.Send(logMsg{entry: e}) })
		defer deps.Logs.Subscribe(nil)
	}

	_, err := p.Run()
	return err
}
