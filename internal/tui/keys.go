package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Click      key.Binding
	Buy        key.Binding
	Up         key.Binding
	Down       key.Binding
	ClickPower key.Binding
	Speed      key.Binding
	AutoBuy    key.Binding
	Challenges key.Binding
	Trigger    key.Binding
	Type       key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Click:      key.NewBinding(key.WithKeys("c", " "), key.WithHelp("c/space", "click")),
		Buy:        key.NewBinding(key.WithKeys("enter", "b"), key.WithHelp("enter", "buy")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		ClickPower: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "click power")),
		Speed:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "buyer speed")),
		AutoBuy:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle auto-buy")),
		Challenges: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle challenges")),
		Trigger:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "start challenge")),
		Type:       key.NewBinding(key.WithKeys("tab", "t"), key.WithHelp("tab", "type")),
		Back:       key.NewBinding(key.WithKeys("tab", "esc"), key.WithHelp("tab/esc", "shop")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "save & quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Buy, k.Type, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Click, k.Buy, k.Up, k.Down},
		{k.ClickPower, k.Speed, k.AutoBuy},
		{k.Challenges, k.Trigger, k.Type},
		{k.Help, k.Quit},
	}
}

// typingHelp lists the keys that still work while typing.
func (k keyMap) typingHelp() []key.Binding {
	return []key.Binding{
		k.Back,
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start challenge line")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "save & quit")),
	}
}
