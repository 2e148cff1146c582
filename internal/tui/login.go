package tui

import (
	"strings"

	"helpdesk-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focused  int
	err      string
	pending  bool
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email    "
	email.CharLimit = 254

	pw := textinput.New()
	pw.Prompt = "Password "
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 256

	return loginForm{email: email, password: pw}
}

func (f *loginForm) focus() tea.Cmd {
	f.email.Blur()
	f.password.Blur()
	if f.focused == 1 {
		return f.password.Focus()
	}
	return f.email.Focus()
}

func (f loginForm) credentials() model.Credentials {
	return model.Credentials{Email: strings.TrimSpace(f.email.Value()), Password: f.password.Value()}
}

func (m appModel) updateLogin(msg tea.KeyMsg) (appModel, tea.Cmd) {
	f := &m.login
	if f.pending {
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		f.focused = 1 - f.focused
		return m, f.focus()
	case "enter":
		if f.focused == 0 {
			f.focused = 1
			return m, f.focus()
		}
		creds := f.credentials()
		if err := creds.Validate(); err != nil {
			f.err = err.Error()
			return m, nil
		}
		f.err = ""
		f.pending = true
		return m, m.doLogin(creds)
	}
	var cmd tea.Cmd
	if f.focused == 0 {
		f.email, cmd = f.email.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return m, cmd
}

func (m appModel) viewLogin() string {
	f := m.login
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Helpdesk")
	lines := []string{title, "", f.email.View(), f.password.View(), ""}
	switch {
	case f.pending:
		lines = append(lines, m.spin.View()+" signing in…")
	case f.err != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(colorError).Render(f.err))
	default:
		lines = append(lines, styleMuted().Render("enter to continue · tab to switch field · ctrl+c to quit"))
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder).
		Padding(1, 3).Render(strings.Join(lines, "\n"))
	return overlayCenter(box, m.width, m.height)
}
