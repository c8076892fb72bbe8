package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings for both screens; screen selects which ones the help bar shows
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	NextChip key.Binding
	PrevChip key.Binding
	Close    key.Binding
	Locate   key.Binding
	Theme    key.Binding
	Quit     key.Binding

	Back   key.Binding
	Pager  key.Binding
	Scroll key.Binding

	screen screen
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑/↓", "suggestions")),
		Down:     key.NewBinding(key.WithKeys("down", "ctrl+n")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		NextChip: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cities")),
		PrevChip: key.NewBinding(key.WithKeys("shift+tab")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close/quit")),
		Locate:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "detect location")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Pager:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in pager")),
		Scroll: key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	if k.screen == screenResults {
		return []key.Binding{k.Scroll, k.Back, k.Pager, k.Theme, k.Quit}
	}
	return []key.Binding{k.Up, k.Enter, k.NextChip, k.Locate, k.Theme, k.Close}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
