package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/filepilot/filepilot/internal/config"
)

// KeyMap binds session actions to keys. Bindings come from config so users
// can remap them.
type KeyMap struct {
	Quit           key.Binding
	Search         key.Binding
	ToggleStrategy key.Binding
	Up             key.Binding
	Down           key.Binding
	Activate       key.Binding
	Back           key.Binding
	Parent         key.Binding
	Open           key.Binding
	Reveal         key.Binding
}

// NewKeyMap builds a KeyMap from configured key names.
func NewKeyMap(kb config.KeyBindings) KeyMap {
	return KeyMap{
		Quit:           key.NewBinding(key.WithKeys(kb.Quit), key.WithHelp(kb.Quit, "quit")),
		Search:         key.NewBinding(key.WithKeys(kb.Search), key.WithHelp(kb.Search, "search")),
		ToggleStrategy: key.NewBinding(key.WithKeys(kb.ToggleStrategy), key.WithHelp(kb.ToggleStrategy, "strategy")),
		Up:             key.NewBinding(key.WithKeys(kb.Up, "k"), key.WithHelp(kb.Up, "up")),
		Down:           key.NewBinding(key.WithKeys(kb.Down, "j"), key.WithHelp(kb.Down, "down")),
		Activate:       key.NewBinding(key.WithKeys(kb.Activate), key.WithHelp(kb.Activate, "open/enter")),
		Back:           key.NewBinding(key.WithKeys(kb.Back), key.WithHelp(kb.Back, "back")),
		Parent:         key.NewBinding(key.WithKeys(kb.Parent, "h"), key.WithHelp(kb.Parent, "go up")),
		Open:           key.NewBinding(key.WithKeys(kb.Open), key.WithHelp(kb.Open, "open file")),
		Reveal:         key.NewBinding(key.WithKeys(kb.Reveal), key.WithHelp(kb.Reveal, "reveal")),
	}
}

// typingKeys are the bindings still honored while the query buffer captures
// character input.
func (k KeyMap) typingKeys() []key.Binding {
	return []key.Binding{k.Back, k.Activate, k.ToggleStrategy, k.Up, k.Down}
}
