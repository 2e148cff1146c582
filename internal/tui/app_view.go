package tui

import (
	"strings"
	"time"

	"helpdesk-cli/internal/perm"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerLines = 1
	footerLines = 2
)

func (m appModel) bodyHeight() int {
	return max(m.height-headerLines-footerLines, 1)
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.view == viewLogin {
		return m.viewLogin()
	}

	body := m.viewBody()
	switch m.modal {
	case modalSearch:
		body = overlayCenter(m.viewSearch(), m.width, m.bodyHeight())
	case modalStreams:
		body = overlayCenter(m.viewStreamPicker(), m.width, m.bodyHeight())
	case modalProjects:
		body = overlayCenter(modalBox("Choose a project", m.picker.list.View(), min(max(m.width-10, 30), 70)), m.width, m.bodyHeight())
	case modalHelp:
		m.help.ShowAll = true
		body = overlayCenter(modalBox("Keys", m.help.View(m.keys), min(max(m.width-10, 30), 90)), m.width, m.bodyHeight())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		normalizePane(body, m.width, m.bodyHeight()),
		m.viewFooter(),
	)
}

func (m appModel) viewBody() string {
	switch m.view {
	case viewBoard:
		if m.projectID == "" {
			return styleMuted().Render("No project selected. Press p to choose one.")
		}
		return renderBoard(m.board, boardRender{
			sel:        m.sel,
			priorities: m.priorities,
			now:        time.Now(),
			width:      m.width,
			height:     m.bodyHeight(),
		})
	case viewDetail:
		return m.viewDetailBody()
	case viewDashboard:
		return renderDashboard(m.dashboard, m.width)
	}
	return ""
}

func (m appModel) viewHeader() string {
	tab := func(label string, active bool) string {
		st := lipgloss.NewStyle().Padding(0, 1).Foreground(colorChromeMutedFg)
		if active {
			st = st.Foreground(colorAccentFg).Background(colorAccent).Bold(true)
		}
		return st.Render(label)
	}
	role := m.role()
	var tabs []string
	if perm.CanView(role, perm.SectionDashboard) {
		tabs = append(tabs, tab("Dashboard", m.view == viewDashboard))
	}
	if perm.CanView(role, perm.SectionBoard) {
		tabs = append(tabs, tab("Board", m.view == viewBoard || m.view == viewDetail))
	}
	left := strings.Join(tabs, "")
	if m.projectID != "" {
		left += styleMuted().Render("  " + m.projectName(m.projectID))
	}

	var right []string
	if len(m.busy) > 0 {
		right = append(right, m.spin.View())
	}
	if u, ok := m.currentUser(); ok {
		right = append(right, u.FullName+" ("+string(u.Role)+")")
	}
	r := strings.Join(right, " ")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(r), 1)
	return normalizePane(left+strings.Repeat(" ", gap)+r, m.width, 1)
}

func (m appModel) viewFooter() string {
	var status string
	switch {
	case m.flash != "" && !m.flashOK:
		status = lipgloss.NewStyle().Foreground(colorError).Render(m.flash)
	case m.lastLog != nil && (m.flash == "" || m.lastLog.Time.After(time.Now().Add(-5*time.Second))):
		status = lipgloss.NewStyle().Foreground(colorWarning).Render(m.lastLog.String())
	case m.flash != "":
		status = lipgloss.NewStyle().Foreground(colorSuccess).Render(m.flash)
	}
	m.help.ShowAll = false
	return normalizePane(status+"\n"+m.help.View(m.keys), m.width, footerLines)
}
