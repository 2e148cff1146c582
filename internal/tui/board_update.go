package tui

import (
	"helpdesk-cli/internal/board"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"
	"helpdesk-cli/internal/statusutil"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateBoard(msg tea.KeyMsg) (appModel, tea.Cmd) {
	if _, dragging := m.board.Dragging(); dragging {
		return m.updateDrag(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sel = m.board.Move(m.sel, 0, -1)
	case key.Matches(msg, m.keys.Down):
		m.sel = m.board.Move(m.sel, 0, 1)
	case key.Matches(msg, m.keys.Left):
		m.sel = m.board.Move(m.sel, -1, 0)
	case key.Matches(msg, m.keys.Right):
		m.sel = m.board.Move(m.sel, 1, 0)
	case key.Matches(msg, m.keys.Pick):
		return m.pickUp()
	case key.Matches(msg, m.keys.Open):
		if _, id, ok := m.selectedTicket(); ok {
			return m.openDetail(id)
		}
	case key.Matches(msg, m.keys.Streams):
		if t, _, ok := m.selectedTicket(); ok {
			return m.openStreamPicker(t)
		}
	case key.Matches(msg, m.keys.Reload):
		if m.projectID != "" {
			return m, m.loadTickets()
		}
	}
	return m, nil
}

func (m *appModel) selectedTicket() (model.Ticket, string, bool) {
	sel, id, ok := m.board.Selected(m.sel)
	m.sel = sel
	if !ok {
		return model.Ticket{}, "", false
	}
	t, ok := m.board.Ticket(id)
	return t, id, ok
}

func (m appModel) pickUp() (appModel, tea.Cmd) {
	t, id, ok := m.selectedTicket()
	if !ok {
		return m, nil
	}
	if u, _ := m.currentUser(); !perm.CanEditTicket(u, t) {
		m.setFlash("You can't move this ticket.", false)
		return m, nil
	}
	if !m.board.Begin(id) {
		return m, nil
	}
	m.hoverColumn(m.sel.Col)
	m.setFlash("Moving #"+id+": ←/→ choose a column, space/enter to drop, esc to cancel.", true)
	return m, nil
}

// hoverColumn points the drag at column ci (clamped).
func (m *appModel) hoverColumn(ci int) {
	cols := m.board.Columns()
	if len(cols) == 0 {
		return
	}
	ci = min(max(ci, 0), len(cols)-1)
	m.board.Over(board.ColumnTarget(cols[ci].StatusID))
}

func (m appModel) hoveredColumn() int {
	h := m.board.Hovered()
	if h.Kind != board.TargetColumn {
		return m.sel.Col
	}
	for i, c := range m.board.Columns() {
		if c.StatusID == h.ID {
			return i
		}
	}
	return m.sel.Col
}

func (m appModel) updateDrag(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.hoverColumn(m.hoveredColumn() - 1)
	case key.Matches(msg, m.keys.Right):
		m.hoverColumn(m.hoveredColumn() + 1)
	case key.Matches(msg, m.keys.Pick), key.Matches(msg, m.keys.Open):
		return m.drop()
	case key.Matches(msg, m.keys.Back):
		m.board.Cancel()
		m.setFlash("Move cancelled.", true)
	}
	return m, nil
}

// drop ends the drag on the hovered column. The board decides whether a move
// is needed; each requested move is applied locally and then persisted.
func (m appModel) drop() (appModel, tea.Cmd) {
	m.board.Drop(m.board.Hovered())
	m.flash = ""
	var cmds []tea.Cmd
	for _, mv := range m.moves.drain() {
		from := m.applyStatus(mv.ticketID, mv.toStatus)
		m.setFlash("Moved #"+mv.ticketID+" to "+statusutil.Label(m.statuses, mv.toStatus)+".", true)
		cmds = append(cmds, m.moveTicket(mv, from))
	}
	return m, tea.Batch(cmds...)
}

// applyStatus sets a ticket's status in the local list, rebuilds the board
// and returns the previous status.
func (m *appModel) applyStatus(ticketID, statusID string) string {
	var from string
	tickets := make([]model.Ticket, len(m.tickets))
	copy(tickets, m.tickets)
	for i := range tickets {
		if tickets[i].ID == ticketID {
			from = tickets[i].StatusID
			tickets[i].StatusID = statusID
		}
	}
	m.tickets = tickets
	m.rebuildBoard()
	return from
}

func (m *appModel) replaceTicket(t model.Ticket) {
	tickets := make([]model.Ticket, len(m.tickets))
	copy(tickets, m.tickets)
	for i := range tickets {
		if tickets[i].ID == t.ID {
			tickets[i] = t
		}
	}
	m.tickets = tickets
	m.rebuildBoard()
}

func (m *appModel) rebuildBoard() {
	m.board.Rebuild(m.statuses, m.tickets)
	m.sel = m.board.Clamp(m.sel)
}
