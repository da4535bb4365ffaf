package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Creation
	New          key.Binding
	FromTemplate key.Binding

	// Filter cycles
	CycleStatus   key.Binding
	CycleCategory key.Binding
	CycleSite     key.Binding

	// Item actions (detail view)
	Toggle      key.Binding
	Observation key.Binding
	Attach      key.Binding
	SetStatus   key.Binding

	// Checklist actions
	Sign   key.Binding
	Block  key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open checklist"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new checklist"),
		),
		FromTemplate: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "from template"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "cycle status"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "cycle category"),
		),
		CycleSite: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "cycle site"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle item"),
		),
		Observation: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "observation"),
		),
		Attach: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "attach evidence"),
		),
		SetStatus: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark status"),
		),
		Sign: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sign off"),
		),
		Block: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "block/resume"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel checklist"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Help, k.Refresh, k.New, k.FromTemplate},
		{k.CycleStatus, k.CycleCategory, k.CycleSite},
		{k.Toggle, k.Observation, k.Attach, k.SetStatus},
		{k.Sign, k.Block, k.Cancel},
	}
}
