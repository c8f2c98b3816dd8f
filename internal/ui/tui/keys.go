package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause     key.Binding
	Skip      key.Binding
	Postpone  key.Binding
	TakeBreak key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip break"),
		),
		Postpone: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "postpone"),
		),
		TakeBreak: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "break now"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Pause, keys.Skip, keys.Postpone, keys.TakeBreak, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Pause, keys.TakeBreak},
		{keys.Skip, keys.Postpone},
		{keys.Help, keys.Quit},
	}
}

// syncBreakKeys enables skip and postpone only during a break, and
// break-now only while working. Strict breaks only hide the overlay buttons.
func (keys *keyMap) syncBreakKeys(inBreak, paused bool) {
	keys.Skip.SetEnabled(inBreak)
	keys.Postpone.SetEnabled(inBreak)
	keys.TakeBreak.SetEnabled(!inBreak && !paused)
}
