package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Click     key.Binding
	Spectra   key.Binding
	Heatmap   key.Binding
	Normalize key.Binding
	Continuum key.Binding
	Export    key.Binding
	Clear     key.Binding
	Reload    key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "j", "tab"),
			key.WithHelp("→/l", "next star"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "k", "shift+tab"),
			key.WithHelp("←/h", "prev star"),
		),
		Click: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Spectra: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "only IUE"),
		),
		Heatmap: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "H2 map"),
		),
		Normalize: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "normalize"),
		),
		Continuum: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continuum"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export csv"),
		),
		Clear: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HelpBindings lists the bindings shown in the footer, in order.
func (k KeyMap) HelpBindings() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Click, k.Spectra, k.Heatmap, k.Normalize, k.Continuum, k.Export, k.Clear, k.Reload, k.Quit}
}
