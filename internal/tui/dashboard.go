package tui

import (
	"fmt"
	"strings"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func renderDashboard(d *api.Dashboard, width int) string {
	if d == nil {
		return styleMuted().Render("No dashboard data yet.")
	}
	mt := d.Metrics
	tile := func(label string, n int, fg lipgloss.TerminalColor) string {
		num := lipgloss.NewStyle().Bold(true).Foreground(fg).Render(fmt.Sprint(n))
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder).
			Padding(0, 2).Render(num + "\n" + styleMuted().Render(label))
	}
	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		tile("total", mt.TotalTickets, colorSurfaceFg), " ",
		tile("open", mt.OpenTickets, colorAccent), " ",
		tile("closed", mt.ClosedTickets, colorSuccess), " ",
		tile("overdue", mt.OverdueTickets, colorError),
	)

	sections := []string{tiles}
	if len(mt.ByStatus) > 0 {
		sections = append(sections, countBars("By status", mt.ByStatus, width))
	}
	if len(mt.ByPriority) > 0 {
		sections = append(sections, countBars("By priority", mt.ByPriority, width))
	}
	if len(mt.ByProject) > 0 {
		sections = append(sections, countBars("By project", mt.ByProject, width))
	}
	return strings.Join(sections, "\n\n")
}

// countBars renders one horizontal bar per entry, scaled to the largest count.
func countBars(title string, counts []model.CountBy, width int) string {
	labelW, maxN := 0, 0
	for _, c := range counts {
		labelW = max(labelW, len([]rune(countLabel(c))))
		maxN = max(maxN, c.Count)
	}
	labelW = min(labelW, 24)
	barW := max(width-labelW-8, 4)

	bar := lipgloss.NewStyle().Foreground(colorAccent)
	lines := []string{lipgloss.NewStyle().Bold(true).Render(title)}
	for _, c := range counts {
		n := 0
		if maxN > 0 {
			n = c.Count * barW / maxN
		}
		if c.Count > 0 && n == 0 {
			n = 1
		}
		label := truncateText(countLabel(c), labelW)
		lines = append(lines, fmt.Sprintf("%-*s %s %d", labelW, label, bar.Render(strings.Repeat("█", n)), c.Count))
	}
	return strings.Join(lines, "\n")
}

func countLabel(c model.CountBy) string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	if c.ID == "" {
		return "(none)"
	}
	return c.ID
}
