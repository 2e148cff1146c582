package tui

import (
	"strings"

	"helpdesk-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type projectItem struct{ project model.Project }

func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string { return strings.TrimSpace(i.project.Description) }
func (i projectItem) FilterValue() string { return i.project.Name }

type projectPicker struct {
	list list.Model
}

func newProjectPicker() projectPicker {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Projects"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	// esc closes the modal instead of quitting.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return projectPicker{list: l}
}

func (p *projectPicker) setProjects(projects []model.Project, selectedID string) tea.Cmd {
	items := make([]list.Item, 0, len(projects))
	idx := 0
	for i, pr := range projects {
		items = append(items, projectItem{project: pr})
		if pr.ID == selectedID {
			idx = i
		}
	}
	cmd := p.list.SetItems(items)
	p.list.Select(idx)
	return cmd
}

func (m appModel) openProjectPicker() (appModel, tea.Cmd) {
	m.modal = modalProjects
	m.picker.list.SetSize(min(max(m.width-10, 30), 70), max(m.height-8, 5))
	return m, m.picker.setProjects(m.projects, m.projectID)
}

func (m appModel) updateProjectPicker(msg tea.KeyMsg) (appModel, tea.Cmd) {
	filtering := m.picker.list.FilterState() == list.Filtering
	switch msg.String() {
	case "esc":
		if !filtering {
			m.modal = modalNone
			return m, nil
		}
	case "enter":
		if !filtering {
			if it, ok := m.picker.list.SelectedItem().(projectItem); ok {
				m.modal = modalNone
				return m.selectProject(it.project.ID)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker.list, cmd = m.picker.list.Update(msg)
	return m, cmd
}

// selectProject switches the board to projectID and reloads it.
func (m appModel) selectProject(projectID string) (appModel, tea.Cmd) {
	if projectID == "" {
		return m, nil
	}
	if m.projectID != projectID {
		m.board.Cancel()
		m.projectID = projectID
		m.tickets = nil
		m.sel.TicketID = ""
		m.rebuildBoard()
	}
	m.view = viewBoard
	cmds := []tea.Cmd{m.loadTickets()}
	if m.dashboard != nil {
		cmds = append(cmds, m.loadDashboard())
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) projectName(id string) string {
	for _, p := range m.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
