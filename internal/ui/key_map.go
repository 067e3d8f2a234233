package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next     key.Binding
	prev     key.Binding
	autofill key.Binding
	export   key.Binding
	batch    key.Binding
	copy     key.Binding
	reset    key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:     key.NewBinding(key.WithKeys("tab", "down", "enter"), key.WithHelp("tab/↓", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "previous field")),
		autofill: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "autofill")),
		export:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "export png")),
		batch:    key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "batch zip")),
		copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy field")),
		reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.autofill, k.export, k.batch, k.copy, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev},
		{k.autofill, k.export, k.batch},
		{k.copy, k.reset, k.quit},
	}
}
