package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and, when
// height > 0, exactly height lines, so panes line up in JoinHorizontal.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		// Bound the width computation on pathological lines.
		if width > 0 && len(ln) > 8192 {
			ln = xansi.Cut(ln, 0, width)
		}
		ln = truncateText(ln, width)
		if w := xansi.StringWidth(ln); w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncateText cuts s to width columns, ending in an ellipsis when cut.
func truncateText(s string, width int) string {
	if xansi.StringWidth(s) <= width {
		return s
	}
	switch {
	case width <= 0:
		return ""
	case width == 1:
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// wrapWords wraps plain text to width, hard-cutting words that don't fit.
func wrapWords(s string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range strings.Fields(s) {
		for xansi.StringWidth(w) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, xansi.Cut(w, 0, width))
			w = xansi.Cut(w, width, xansi.StringWidth(w))
		}
		switch {
		case cur == "":
			cur = w
		case xansi.StringWidth(cur)+1+xansi.StringWidth(w) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// overlayCenter draws fg centered over a width x height canvas.
func overlayCenter(fg string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, fg)
}

func modalBox(title, body string, width int) string {
	width = max(width, 20)
	head := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg).
		Width(width).Padding(0, 1).Render(title)
	content := lipgloss.NewStyle().Width(width).Padding(1, 1).Render(body)
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSelectedBorder).
		Render(lipgloss.JoinVertical(lipgloss.Left, head, content))
}
