package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Enter    key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Escape   key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Open     key.Binding
	Copy     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "monter")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "descendre")),
	Top:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "début")),
	Bottom:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "fin")),
	PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("C-u", "page up")),
	PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("C-d", "page dn")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ouvrir/plier")),
	Expand:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "déplier")),
	Collapse: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "replier")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "retour")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filtre")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "pager")),
	Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copier nom")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quitter")),
}
