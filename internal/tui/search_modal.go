package tui

import (
	"fmt"
	"strings"

	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/search"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type searchState struct {
	input  textinput.Model
	snap   search.Snapshot
	recent []string
	cursor int
}

func newSearchState() searchState {
	in := textinput.New()
	in.Placeholder = "Search tickets, projects, users"
	in.Prompt = "/ "
	in.CharLimit = 200
	return searchState{input: in}
}

// rows are what the cursor moves over: results, or recent queries while the
// query is too short to search.
func (s searchState) rows() int {
	if search.Qualifies(s.input.Value()) {
		return len(s.snap.Results)
	}
	return len(s.recent)
}

func (m appModel) openSearch() (appModel, tea.Cmd) {
	m.modal = modalSearch
	m.search.cursor = 0
	return m, tea.Batch(m.search.input.Focus(), m.loadRecentSearches())
}

func (m appModel) closeSearch() appModel {
	m.modal = modalNone
	m.search.input.Blur()
	return m
}

func (m appModel) updateSearch(msg tea.KeyMsg) (appModel, tea.Cmd) {
	s := &m.search
	switch msg.String() {
	case "esc":
		return m.closeSearch(), nil
	case "up", "ctrl+p":
		if s.cursor > 0 {
			s.cursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if s.cursor < s.rows()-1 {
			s.cursor++
		}
		return m, nil
	case "enter":
		return m.chooseSearchRow()
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if v := s.input.Value(); v != before {
		m.setQuery(v)
	}
	return m, cmd
}

func (m *appModel) setQuery(q string) {
	m.search.cursor = 0
	if m.searcher == nil {
		return
	}
	m.searcher.SetQuery(q)
	m.search.snap = m.searcher.Snapshot()
}

func (m appModel) chooseSearchRow() (appModel, tea.Cmd) {
	s := &m.search
	q := strings.TrimSpace(s.input.Value())
	if !search.Qualifies(q) {
		if s.cursor < len(s.recent) {
			s.input.SetValue(s.recent[s.cursor])
			s.input.CursorEnd()
			m.setQuery(s.recent[s.cursor])
		}
		return m, nil
	}
	if s.cursor >= len(s.snap.Results) {
		return m, nil
	}
	r := s.snap.Results[s.cursor]
	save := m.saveRecentSearch(q)
	m = m.closeSearch()
	switch r.Type {
	case model.SearchResultTicket:
		next, cmd := m.openDetail(r.ID)
		return next, tea.Batch(save, cmd)
	case model.SearchResultProject:
		next, cmd := m.selectProject(r.ID)
		return next, tea.Batch(save, cmd)
	default:
		m.setFlash(fmt.Sprintf("%s · %s", r.Title, r.Subtitle), true)
		return m, save
	}
}

func (m appModel) applySearchSnapshot(snap search.Snapshot) appModel {
	if snap.Gen < m.search.snap.Gen {
		return m
	}
	m.search.snap = snap
	if m.search.cursor >= len(snap.Results) {
		m.search.cursor = max(len(snap.Results)-1, 0)
	}
	return m
}

func (m appModel) viewSearch() string {
	s := m.search
	w := min(max(m.width-10, 30), 80)
	lines := []string{s.input.View(), ""}

	row := func(i int, text string) string {
		st := lipgloss.NewStyle().Width(w).Padding(0, 1)
		if i == s.cursor {
			st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		}
		return st.Render(truncateText(text, w-2))
	}

	switch {
	case !search.Qualifies(s.input.Value()):
		if len(s.recent) == 0 {
			lines = append(lines, styleMuted().Render("Type at least 2 characters."))
			break
		}
		lines = append(lines, styleMuted().Render("Recent"))
		for i, q := range s.recent {
			lines = append(lines, row(i, q))
		}
	case s.snap.Loading:
		lines = append(lines, m.spin.View()+" searching…")
	default:
		if s.snap.Err != nil {
			lines = append(lines, lipgloss.NewStyle().Foreground(colorWarning).Render("Some results could not be loaded."))
		}
		if len(s.snap.Results) == 0 && s.snap.Query != "" && !s.snap.Loading {
			lines = append(lines, styleMuted().Render("No results."))
		}
		var last model.SearchResultType
		for i, r := range s.snap.Results {
			if r.Type != last {
				lines = append(lines, styleMuted().Render(strings.ToUpper(string(r.Type))+"S"))
				last = r.Type
			}
			text := r.Title
			if r.Subtitle != "" {
				text += "  " + r.Subtitle
			}
			lines = append(lines, row(i, text))
		}
	}
	return modalBox("Search", strings.Join(lines, "\n"), w)
}
