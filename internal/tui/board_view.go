package tui

import (
	"fmt"
	"strings"
	"time"

	"helpdesk-cli/internal/board"
	"helpdesk-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

var (
	metaIDStyle       = lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	metaPriorityStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	metaDueStyle      = lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	metaOverdueStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// boardRender is everything renderBoard needs besides the board itself.
type boardRender struct {
	sel        board.Selection
	priorities []model.Priority
	now        time.Time
	width      int
	height     int
}

func priorityName(priorities []model.Priority, id string) string {
	for _, p := range priorities {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func dueLabel(due *time.Time, now time.Time) (string, bool) {
	if due == nil || due.IsZero() {
		return "", false
	}
	overdue := due.Before(now)
	if overdue {
		return "overdue " + humanize.RelTime(*due, now, "ago", "from now"), true
	}
	return "due " + humanize.RelTime(*due, now, "ago", "from now"), false
}

func renderBoard(b *board.Board, r boardRender) string {
	width, height := max(r.width, 0), max(r.height, 0)
	cols := b.Columns()
	n := len(cols)
	if n == 0 {
		return normalizePane(styleMuted().Render("No statuses."), width, height)
	}
	sel := b.Clamp(r.sel)
	dragID, dragging := b.Dragging()
	hover := b.Hovered()

	gap := 2
	colW := max((width-gap*(n-1))/n, 14)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg)
	headerSelectedStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	headerDropStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorDropBg)
	muted := styleMuted()

	// Whitespace, not borders, separates cards.
	cardStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	cardSelectedStyle := cardStyle.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	cardDraggedStyle := cardStyle.Foreground(colorAccentFg).Background(colorAccent)
	innerW := max(colW-2, 0)

	renderMeta := func(t model.Ticket, selected bool) []string {
		var tokens []string
		add := func(st lipgloss.Style, s string) {
			if selected {
				st = st.Background(colorSelectedBg)
			}
			tokens = append(tokens, st.Render(s))
		}
		add(metaIDStyle, "#"+t.ID)
		if t.PriorityID != "" {
			add(metaPriorityStyle, priorityName(r.priorities, t.PriorityID))
		}
		if s, overdue := dueLabel(t.DueAt, r.now); s != "" {
			if overdue {
				add(metaOverdueStyle, s)
			} else {
				add(metaDueStyle, s)
			}
		}
		// Greedy wrap of pre-styled tokens.
		var lines []string
		cur, used := "", 0
		for _, tok := range tokens {
			w := xansi.StringWidth(tok)
			switch {
			case used == 0:
				cur, used = tok, w
			case used+1+w <= innerW:
				cur += " " + tok
				used += 1 + w
			default:
				lines = append(lines, cur)
				cur, used = tok, w
			}
		}
		if used > 0 {
			lines = append(lines, cur)
		}
		return lines
	}

	renderCard := func(c board.Column, t model.Ticket, selected bool) string {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			title = "(untitled)"
		}
		titleStyle := lipgloss.NewStyle().Bold(true)
		switch {
		case selected:
			titleStyle = titleStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
		case c.Closed:
			titleStyle = faintIfDark(lipgloss.NewStyle()).Foreground(colorMuted).Strikethrough(true)
		}
		var content []string
		for _, ln := range wrapWords(title, innerW) {
			content = append(content, titleStyle.Render(ln))
		}
		content = append(content, renderMeta(t, selected)...)
		inner := normalizePane(strings.Join(content, "\n"), innerW, 0)
		switch {
		case dragging && t.ID == dragID:
			return cardDraggedStyle.Render(inner)
		case selected:
			return cardSelectedStyle.Render(inner)
		}
		return cardStyle.Render(inner)
	}

	renderCol := func(ci int, c board.Column) string {
		head := truncateText(fmt.Sprintf("%s (%d)", c.Label, len(c.Tickets)), colW)
		hs := headerStyle
		switch {
		case dragging && hover.Kind == board.TargetColumn && hover.ID == c.StatusID && c.StatusID != "":
			hs = headerDropStyle
		case ci == sel.Col:
			hs = headerSelectedStyle
		}
		lines := []string{hs.Width(colW).Render(head)}
		if len(c.Tickets) == 0 {
			lines = append(lines, muted.Render("(empty)"))
			return normalizePane(strings.Join(lines, "\n"), colW, height)
		}
		lines = append(lines, "")
		for i, t := range c.Tickets {
			card := renderCard(c, t, !dragging && ci == sel.Col && i == sel.Row)
			lines = append(lines, strings.Split(card, "\n")...)
			if i < len(c.Tickets)-1 {
				lines = append(lines, muted.Render(" "+strings.Repeat("─", max(colW-2, 0))+" "))
			}
		}
		return normalizePane(strings.Join(lines, "\n"), colW, height)
	}

	sep := strings.Repeat(" ", gap)
	out := ""
	for i, c := range cols {
		if i == 0 {
			out = renderCol(i, c)
			continue
		}
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, renderCol(i, c))
	}
	return normalizePane(out, width, height)
}
