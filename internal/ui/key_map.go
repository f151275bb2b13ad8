package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	sort   key.Binding
	order  key.Binding
	random key.Binding
	more   key.Binding
	listen key.Binding
	sync   key.Binding
	yes    key.Binding
	no     key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort field")),
		order:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
		random: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random")),
		more:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more")),
		listen: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "listened")),
		sync:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.sort, k.order, k.random, k.sync},
		{k.more, k.listen, k.quit},
	}
}
