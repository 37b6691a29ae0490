package wizard

import (
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/term"

	"github.com/tessro/reel/internal/mpris"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
	players []mpris.Info
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetPlayers sets the available players for the player picker.
func (i *Interactive) SetPlayers(players []mpris.Info) {
	i.players = players
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptPlayer launches the player picker if interactive mode is available.
// Returns the selected player, or nil if cancelled or not interactive.
func (i *Interactive) PromptPlayer() (*mpris.Info, error) {
	if !i.CanInteract() || len(i.players) == 0 {
		return nil, nil
	}
	return RunPlayerPicker(i.players)
}

// PickPlayer returns the obvious player: the only one, or the only one
// playing. It is absent when the choice is ambiguous.
func PickPlayer(players []mpris.Info) mo.Option[mpris.Info] {
	if len(players) == 1 {
		return mo.Some(players[0])
	}

	playing := lo.Filter(players, func(p mpris.Info, _ int) bool {
		return p.Status == "Playing"
	})
	if len(playing) == 1 {
		return mo.Some(playing[0])
	}
	return mo.None[mpris.Info]()
}
