package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/lox/rpsbot/internal/game"
)

// keyMap implements help.KeyMap
type keyMap struct {
	Choices []key.Binding
	Reset   key.Binding
	Theme   key.Binding
	Quit    key.Binding
}

func newKeyMap(table *game.Table) keyMap {
	km := keyMap{
		Reset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		Theme: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q", "quit")),
	}
	for _, c := range table.Choices() {
		if c.Key == "" {
			continue
		}
		km.Choices = append(km.Choices, key.NewBinding(key.WithKeys(c.Key), key.WithHelp(c.Key, c.Name)))
	}
	return km
}

func (k keyMap) ShortHelp() []key.Binding {
	bindings := append([]key.Binding{}, k.Choices...)
	return append(bindings, k.Reset, k.Theme, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.Choices, {k.Reset, k.Theme, k.Quit}}
}

// setPlaying disables choice and reset bindings while a round is in progress
func (k *keyMap) setPlaying(playing bool) {
	for i := range k.Choices {
		k.Choices[i].SetEnabled(!playing)
	}
	k.Reset.SetEnabled(!playing)
}
