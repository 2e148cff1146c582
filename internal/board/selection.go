package board

import "strings"

// Selection is the keyboard focus on the board. TicketID is preferred over
// Row so focus follows a card across rebuilds.
type Selection struct {
	Col      int
	Row      int
	TicketID string
}

func (b *Board) Clamp(sel Selection) Selection {
	if len(b.cols) == 0 {
		return Selection{Row: -1}
	}
	if ci, ri, ok := b.IndexOf(sel.TicketID); ok {
		sel.Col, sel.Row = ci, ri
	} else {
		sel.TicketID = ""
	}
	if sel.Col < 0 {
		sel.Col = 0
	}
	if sel.Col >= len(b.cols) {
		sel.Col = len(b.cols) - 1
	}
	n := len(b.cols[sel.Col].Tickets)
	if n == 0 {
		sel.Row = -1
		return sel
	}
	if sel.Row < 0 {
		sel.Row = 0
	}
	if sel.Row >= n {
		sel.Row = n - 1
	}
	sel.TicketID = strings.TrimSpace(b.cols[sel.Col].Tickets[sel.Row].ID)
	return sel
}

// Move shifts the selection by dc columns and dr rows, keeping the row index
// when changing columns.
func (b *Board) Move(sel Selection, dc, dr int) Selection {
	sel = b.Clamp(sel)
	if len(b.cols) == 0 {
		return sel
	}
	row := sel.Row
	sel.TicketID = ""
	sel.Col += dc
	if sel.Col < 0 {
		sel.Col = 0
	}
	if sel.Col >= len(b.cols) {
		sel.Col = len(b.cols) - 1
	}
	sel.Row = row + dr
	if sel.Row < 0 {
		sel.Row = 0
	}
	return b.Clamp(sel)
}

// Selected returns the ticket under the selection, if any.
func (b *Board) Selected(sel Selection) (Selection, string, bool) {
	sel = b.Clamp(sel)
	if sel.Row < 0 {
		return sel, "", false
	}
	return sel, sel.TicketID, true
}
