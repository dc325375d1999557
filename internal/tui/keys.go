package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Press   key.Binding
	Accept  key.Binding
	Decline key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "focus")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("←", "back")),
		Press:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "press")),
		Accept:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		Decline: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// footerBindings are the bindings shown in the help row for the current phase.
func (k keyMap) footerBindings(accepted bool) []key.Binding {
	if accepted {
		return []key.Binding{k.Quit}
	}
	return []key.Binding{k.Next, k.Press, k.Accept, k.Decline, k.Quit}
}
