package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the transport bar's key bindings.
type keyMap struct {
	playPause, seekBack, seekForward,
	volumeUp, volumeDown, mute,
	fullscreen, exitFullscreen,
	resync, help, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		playPause: key.NewBinding(
			key.WithKeys(" ", "k"),
			key.WithHelp("space", "play/pause"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "seek back"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "seek forward"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up", "+", "="),
			key.WithHelp("↑/+", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓/-", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		exitFullscreen: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave fullscreen"),
		),
		resync: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resync"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.mute, k.fullscreen, k.help, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.playPause, k.seekBack, k.seekForward},
		{k.volumeUp, k.volumeDown, k.mute},
		{k.fullscreen, k.exitFullscreen, k.resync},
		{k.help, k.quit},
	}
}
