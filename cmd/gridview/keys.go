package main

import (
	"github.com/bekirdag/gridview/grid"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	grid grid.KeyMap

	pageUp   key.Binding
	pageDown key.Binding
	detail   key.Binding
	copy     key.Binding
	reload   key.Binding
	theme    key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap(g grid.KeyMap) keyMap {
	return keyMap{
		grid: g,
		pageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		pageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		detail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle details"),
		),
		copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy rows"),
		),
		reload: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "reload"),
		),
		theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(k.grid.ShortHelp(), k.copy, k.detail, k.help, k.quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return append(k.grid.FullHelp(),
		[]key.Binding{k.pageUp, k.pageDown, k.detail, k.copy},
		[]key.Binding{k.reload, k.theme, k.help, k.quit},
	)
}
