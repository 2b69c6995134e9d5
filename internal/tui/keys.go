package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding
	Enter        key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding
	Search       key.Binding
	Like         key.Binding
	Comment      key.Binding
	Refresh      key.Binding
	ClearFilters key.Binding
	Help         key.Binding
	Quit         key.Binding
	Escape       key.Binding
}

var keys = keyMap{
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read post")),
	Enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	NextPage:     key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
	PrevPage:     key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
	Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Like:         key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle like")),
	Comment:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	ClearFilters: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear filters")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit/back")),
	Escape:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
