package board

import "strings"

type TargetKind int

const (
	TargetNone TargetKind = iota
	// TargetColumn is a status column's drop zone.
	TargetColumn
	// TargetCard is another card; cards are not drop zones.
	TargetCard
)

type Target struct {
	Kind TargetKind
	ID   string
}

func ColumnTarget(statusID string) Target { return Target{Kind: TargetColumn, ID: statusID} }
func CardTarget(ticketID string) Target   { return Target{Kind: TargetCard, ID: ticketID} }

// Begin picks a ticket up. It reports false for unknown tickets.
func (b *Board) Begin(ticketID string) bool {
	if _, _, ok := b.IndexOf(ticketID); !ok {
		return false
	}
	b.dragging = strings.TrimSpace(ticketID)
	b.over = Target{}
	return true
}

func (b *Board) Dragging() (string, bool) { return b.dragging, b.dragging != "" }

// Over records the target currently hovered.
func (b *Board) Over(t Target) {
	if b.dragging == "" {
		return
	}
	b.over = t
}

func (b *Board) Hovered() Target { return b.over }

// Drop ends the drag on t and reports whether a move was requested. The move
// callback runs only when t is a column whose status differs from the
// ticket's current one.
func (b *Board) Drop(t Target) bool {
	id := b.dragging
	b.dragging = ""
	b.over = Target{}
	if id == "" || t.Kind != TargetColumn {
		return false
	}
	to := strings.TrimSpace(t.ID)
	if to == "" {
		return false
	}
	if _, ok := b.Column(to); !ok {
		return false
	}
	tk, ok := b.Ticket(id)
	if !ok || strings.TrimSpace(tk.StatusID) == to {
		return false
	}
	if b.onMove != nil {
		b.onMove(id, to)
	}
	return true
}

func (b *Board) Cancel() {
	b.dragging = ""
	b.over = Target{}
}
