package tui

import (
	"fmt"
	"strings"

	"helpdesk-cli/internal/markdown"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/statusutil"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type detailState struct {
	id       string
	ticket   model.Ticket
	comments []model.Comment
	loaded   bool
	err      string
	vp       viewport.Model
	// back is the view to return to on esc.
	back view
}

func (m appModel) openDetail(id string) (appModel, tea.Cmd) {
	back := m.view
	if back == viewDetail {
		back = m.detail.back
	}
	m.detail = detailState{id: id, back: back, vp: viewport.New(m.width, m.bodyHeight())}
	m.view = viewDetail
	return m, m.loadDetail(id)
}

func (m appModel) updateDetail(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = m.detail.back
		return m, nil
	case key.Matches(msg, m.keys.Streams):
		if m.detail.loaded {
			return m.openStreamPicker(m.detail.ticket)
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadDetail(m.detail.id)
	}
	var cmd tea.Cmd
	m.detail.vp, cmd = m.detail.vp.Update(msg)
	return m, cmd
}

func (m *appModel) refreshDetailContent() {
	m.detail.vp.Width = m.width
	m.detail.vp.Height = m.bodyHeight()
	if !m.detail.loaded {
		return
	}
	m.detail.vp.SetContent(renderDetail(m.detail.ticket, m.detail.comments, m.statuses, m.priorities, m.width))
}

func renderDetail(t model.Ticket, comments []model.Comment, statuses []model.Status, priorities []model.Priority, width int) string {
	width = max(width, 20)
	title := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("#%s  %s", t.ID, t.Title))

	facts := []string{"Status: " + statusutil.Label(statuses, t.StatusID)}
	if t.PriorityID != "" {
		facts = append(facts, "Priority: "+priorityName(priorities, t.PriorityID))
	}
	if t.AssigneeID != nil && *t.AssigneeID != "" {
		facts = append(facts, "Assignee: "+*t.AssigneeID)
	}
	if t.StreamID != nil && *t.StreamID != "" {
		facts = append(facts, "Stream: "+*t.StreamID)
	}
	if t.DueAt != nil {
		facts = append(facts, "Due: "+t.DueAt.Local().Format("2006-01-02"))
	}
	facts = append(facts, "Updated "+humanize.Time(t.UpdatedAt))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Join(facts, " · ")))
	b.WriteString("\n")
	if len(t.Tags) > 0 {
		names := make([]string, 0, len(t.Tags))
		for _, tg := range t.Tags {
			names = append(names, tg.Name)
		}
		b.WriteString(metaIDStyle.Render("tags: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}

	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		desc = "_No description._"
	}
	b.WriteString(markdown.Render(desc, width))

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Comments (%d)", len(comments))))
	b.WriteString("\n")
	for _, c := range comments {
		head := c.AuthorID + " · " + humanize.Time(c.CreatedAt)
		if c.Internal {
			head += " · internal"
		}
		b.WriteString(metaIDStyle.Render(head))
		b.WriteString("\n")
		b.WriteString(markdown.RenderCompact(c.Body, width))
	}
	return b.String()
}

func (m appModel) viewDetailBody() string {
	d := m.detail
	switch {
	case d.err != "":
		return lipgloss.NewStyle().Foreground(colorError).Render(d.err)
	case !d.loaded:
		return m.spin.View() + " loading #" + d.id + "…"
	}
	return d.vp.View()
}
