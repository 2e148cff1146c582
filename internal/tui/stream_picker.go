package tui

import (
	"strings"

	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"
	"helpdesk-cli/internal/streamselect"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pickerFocus int

const (
	focusCategories pickerFocus = iota
	focusTypes
)

// streamPicker is the modal that edits a ticket's stream through the
// category -> type selector.
type streamPicker struct {
	ticket  model.Ticket
	sel     *streamselect.Machine
	focus   pickerFocus
	cursor  [2]int
	saving  bool
	saveErr string
}

func (m appModel) openStreamPicker(t model.Ticket) (appModel, tea.Cmd) {
	u, _ := m.currentUser()
	sel := streamselect.New(streamselect.Options{
		Disabled: !perm.CanEditTicket(u, t),
	})
	var current string
	if t.StreamID != nil {
		current = *t.StreamID
	}
	sel.SetValue(current)
	req := sel.SetProject(t.ProjectID)

	m.streams = streamPicker{ticket: t, sel: sel}
	m.modal = modalStreams
	return m, m.fetchStreams(req)
}

func (m appModel) applyStreamResult(res streamselect.Result) (appModel, tea.Cmd) {
	p := &m.streams
	if p.sel == nil {
		return m, nil
	}
	next := p.sel.Apply(res)
	p.syncCursor()
	if p.sel.ShowChildSelect() && p.sel.State() == streamselect.StateAwaitingChild {
		p.focus = focusTypes
	}
	return m, m.fetchStreams(next)
}

// syncCursor points the cursors at the current selection.
func (p *streamPicker) syncCursor() {
	for i, s := range p.sel.Parents() {
		if s.ID == p.sel.ParentID() {
			p.cursor[focusCategories] = i
		}
	}
	for i, s := range p.sel.Children() {
		if s.ID == p.sel.ChildID() {
			p.cursor[focusTypes] = i
		}
	}
	if !p.sel.ShowChildSelect() {
		p.focus = focusCategories
	}
}

func (p streamPicker) list() []model.Stream {
	if p.focus == focusTypes {
		return p.sel.Children()
	}
	return p.sel.Parents()
}

func (m appModel) updateStreamPicker(msg tea.KeyMsg) (appModel, tea.Cmd) {
	p := &m.streams
	if p.saving {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "up", "k":
		if p.cursor[p.focus] > 0 {
			p.cursor[p.focus]--
		}
		return m, nil
	case "down", "j":
		if p.cursor[p.focus] < len(p.list())-1 {
			p.cursor[p.focus]++
		}
		return m, nil
	case "tab", "left", "right", "h", "l":
		if p.sel.ShowChildSelect() {
			p.focus = 1 - p.focus
		}
		return m, nil
	case "r":
		return m, m.fetchStreams(p.sel.Reload())
	case "x", "backspace":
		if p.sel.Disabled() {
			return m, nil
		}
		if p.focus == focusTypes {
			p.sel.ClearChild()
		} else {
			p.sel.ClearParent()
		}
		p.syncCursor()
		return m, nil
	case "enter":
		return m.pickerEnter()
	}
	return m, nil
}

func (m appModel) pickerEnter() (appModel, tea.Cmd) {
	p := &m.streams
	items := p.list()
	if len(items) == 0 {
		return m, nil
	}
	id := items[min(p.cursor[p.focus], len(items)-1)].ID

	if p.focus == focusTypes {
		if err := p.sel.SelectChild(id); err != nil {
			p.saveErr = err.Error()
			return m, nil
		}
		return m.saveStreamChoice()
	}

	// Choosing the selected category again confirms it when it has no types.
	if id == p.sel.ParentID() && p.sel.State() == streamselect.StateNoChildren {
		return m.saveStreamChoice()
	}
	req, err := p.sel.SelectParent(id)
	if err != nil {
		p.saveErr = err.Error()
		return m, nil
	}
	p.saveErr = ""
	return m, m.fetchStreams(req)
}

func (m appModel) saveStreamChoice() (appModel, tea.Cmd) {
	p := &m.streams
	if err := p.sel.Validate(); err != nil {
		p.saveErr = err.Error()
		return m, nil
	}
	v := p.sel.Value()
	if v == "" {
		return m, nil
	}
	p.saving = true
	p.saveErr = ""
	return m, m.saveStream(p.ticket.ID, v)
}

func (m appModel) viewStreamPicker() string {
	p := m.streams
	w := min(max(m.width-10, 40), 90)
	colW := (w - 3) / 2
	sel := p.sel

	renderList := func(items []model.Stream, f pickerFocus, chosen string) string {
		var lines []string
		for i, s := range items {
			st := lipgloss.NewStyle().Width(colW).Padding(0, 1)
			mark := "  "
			if s.ID == chosen {
				mark = "● "
			}
			if p.focus == f && i == p.cursor[f] {
				st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
			}
			lines = append(lines, st.Render(truncateText(mark+s.Name, colW-2)))
		}
		return strings.Join(lines, "\n")
	}

	var left, right string
	switch sel.State() {
	case streamselect.StateLoadingParents:
		left = m.spin.View() + " loading categories…"
	case streamselect.StateIdle:
		left = styleMuted().Render("No project.")
	default:
		if len(sel.Parents()) == 0 && sel.Err() == "" {
			left = styleMuted().Render("This project has no streams.")
		} else {
			left = renderList(sel.Parents(), focusCategories, sel.ParentID())
		}
	}
	switch {
	case sel.State() == streamselect.StateLoadingChildren || sel.State() == streamselect.StateReconciling:
		right = m.spin.View() + " loading types…"
	case sel.ShowChildSelect():
		right = renderList(sel.Children(), focusTypes, sel.ChildID())
	case sel.Info() != "":
		right = styleMuted().Render(strings.Join(wrapWords(sel.Info(), colW), "\n"))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(lipgloss.NewStyle().Bold(true).Render("Category")+"\n"+left, colW, 0), "   ",
		normalizePane(lipgloss.NewStyle().Bold(true).Render("Type")+"\n"+right, colW, 0))

	var foot []string
	if e := sel.Err(); e != "" {
		foot = append(foot, lipgloss.NewStyle().Foreground(colorError).Render(e+"  (r to retry)"))
	}
	if p.saveErr != "" {
		foot = append(foot, lipgloss.NewStyle().Foreground(colorError).Render(p.saveErr))
	}
	switch {
	case p.saving:
		foot = append(foot, m.spin.View()+" saving…")
	case sel.Disabled():
		foot = append(foot, styleMuted().Render("Read only. esc to close"))
	default:
		foot = append(foot, styleMuted().Render("enter choose · tab switch list · x clear · esc close"))
	}
	title := "Stream for #" + p.ticket.ID
	if v := sel.Value(); v != "" {
		title += " · " + v
	}
	return modalBox(title, body+"\n\n"+strings.Join(foot, "\n"), w)
}
