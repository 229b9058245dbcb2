package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of every tab.
type KeyMap struct {
	Upload  key.Binding
	Save    key.Binding
	Delete  key.Binding
	NextTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Act     key.Binding
	Bulk    key.Binding
	Edit    key.Binding
	Clear   key.Binding
	Refresh key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Upload: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "upload tab"),
		),
		Save: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "save tab"),
		),
		Delete: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "delete tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Act: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "act on row / upload"),
		),
		Bulk: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "save all / delete all"),
		),
		Edit: key.NewBinding(
			key.WithKeys("i", "/"),
			key.WithHelp("i", "add path"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear selection"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "no"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Act, k.Bulk, k.Edit, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Upload, k.Save, k.Delete, k.NextTab},
		{k.Up, k.Down, k.Act, k.Bulk},
		{k.Edit, k.Clear, k.Refresh},
		{k.Help, k.Quit},
	}
}
