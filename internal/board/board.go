// Package board groups tickets into status columns and owns the pick-up /
// drop lifecycle of moving a card between them. It never changes ticket data
// itself: a drop only reports the requested move, and the owner rebuilds the
// board from refreshed data.
package board

import (
	"sort"
	"strings"

	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/statusutil"
)

const noStatusLabel = "(no status)"

type Column struct {
	StatusID string
	Label    string
	Closed   bool
	Tickets  []model.Ticket
}

// MoveFunc persists a ticket move. It is called at most once per drop.
type MoveFunc func(ticketID, toStatusID string)

type Board struct {
	cols   []Column
	onMove MoveFunc

	dragging string
	over     Target
}

// New builds one column per status (by Status.Order). Tickets whose status
// is missing or unknown land in a leading "(no status)" column, which is only
// present when it has tickets.
func New(statuses []model.Status, tickets []model.Ticket, onMove MoveFunc) *Board {
	b := &Board{onMove: onMove}
	b.Rebuild(statuses, tickets)
	return b
}

// Rebuild replaces the board's data. A ticket being dragged stays picked up
// as long as it still exists.
func (b *Board) Rebuild(statuses []model.Status, tickets []model.Ticket) {
	sorted := statusutil.Sorted(statuses)
	cols := make([]Column, 0, len(sorted)+1)
	cols = append(cols, Column{Label: noStatusLabel})
	index := map[string]int{}
	for _, st := range sorted {
		id := strings.TrimSpace(st.ID)
		if id == "" {
			continue
		}
		lbl := strings.TrimSpace(st.Name)
		if lbl == "" {
			lbl = id
		}
		index[id] = len(cols)
		cols = append(cols, Column{StatusID: id, Label: lbl, Closed: statusutil.IsClosed(sorted, id)})
	}

	for _, t := range tickets {
		ci, ok := index[strings.TrimSpace(t.StatusID)]
		if !ok {
			ci = 0
		}
		cols[ci].Tickets = append(cols[ci].Tickets, t)
	}
	for i := range cols {
		sort.SliceStable(cols[i].Tickets, func(a, c int) bool {
			return lessTicket(cols[i].Tickets[a], cols[i].Tickets[c])
		})
	}
	if len(cols[0].Tickets) == 0 {
		cols = cols[1:]
	}
	b.cols = cols

	if b.dragging != "" {
		if _, _, ok := b.IndexOf(b.dragging); !ok {
			b.Cancel()
		}
	}
}

// lessTicket orders cards by due date (undated last), then newest first.
func lessTicket(a, c model.Ticket) bool {
	switch {
	case a.DueAt != nil && c.DueAt != nil && !a.DueAt.Equal(*c.DueAt):
		return a.DueAt.Before(*c.DueAt)
	case a.DueAt != nil && c.DueAt == nil:
		return true
	case a.DueAt == nil && c.DueAt != nil:
		return false
	}
	if !a.CreatedAt.Equal(c.CreatedAt) {
		return a.CreatedAt.After(c.CreatedAt)
	}
	return a.ID < c.ID
}

func (b *Board) Columns() []Column { return b.cols }

// Column returns the column for a status id.
func (b *Board) Column(statusID string) (Column, bool) {
	for _, c := range b.cols {
		if c.StatusID != "" && c.StatusID == statusID {
			return c, true
		}
	}
	return Column{}, false
}

// IndexOf locates a ticket by id.
func (b *Board) IndexOf(ticketID string) (col, row int, ok bool) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return 0, 0, false
	}
	for ci := range b.cols {
		for ri := range b.cols[ci].Tickets {
			if b.cols[ci].Tickets[ri].ID == ticketID {
				return ci, ri, true
			}
		}
	}
	return 0, 0, false
}

func (b *Board) Ticket(ticketID string) (model.Ticket, bool) {
	ci, ri, ok := b.IndexOf(ticketID)
	if !ok {
		return model.Ticket{}, false
	}
	return b.cols[ci].Tickets[ri], true
}
