package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding

	Open     key.Binding
	Back     key.Binding
	Pick     key.Binding
	Search   key.Binding
	Streams  key.Binding
	Projects key.Binding
	Board    key.Binding
	Home     key.Binding
	Reload   key.Binding
	Logout   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/drop")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/cancel")),
		Pick:     key.NewBinding(key.WithKeys(" ", "m"), key.WithHelp("space", "pick up")),
		Search:   key.NewBinding(key.WithKeys("/", "ctrl+k"), key.WithHelp("/", "search")),
		Streams:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stream")),
		Projects: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project")),
		Board:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "board")),
		Home:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dashboard")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Pick, k.Search, k.Streams, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Open, k.Back, k.Pick},
		{k.Search, k.Streams, k.Projects},
		{k.Board, k.Home, k.Reload, k.Logout, k.Quit},
	}
}
