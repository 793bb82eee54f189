package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the form's key bindings.
type KeyMap struct {
	Next        key.Binding
	Prev        key.Binding
	OptionNext  key.Binding
	OptionPrev  key.Binding
	Commit      key.Binding
	AddLayer    key.Binding
	RemoveLayer key.Binding
	Quit        key.Binding
}

// DefaultKeyMap is the binding set used by NewModel.
var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("down", "tab"),
		key.WithHelp("↓/tab", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("up", "shift+tab"),
		key.WithHelp("↑/shift+tab", "prev"),
	),
	OptionNext: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next option"),
	),
	OptionPrev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "prev option"),
	),
	Commit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	AddLayer: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "add layer"),
	),
	RemoveLayer: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "remove layer"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.OptionNext, k.Commit, k.AddLayer, k.RemoveLayer, k.Quit}
}
