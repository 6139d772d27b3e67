package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Start key.Binding
	Flip  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var _ help.KeyMap = keyMap{}

func defaultKeys() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start")),
		Flip:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "flip")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	drag := key.NewBinding(key.WithKeys("mouse"), key.WithHelp("drag", "turn the card"))
	return [][]key.Binding{{drag, k.Flip}, {k.Help, k.Quit}}
}
