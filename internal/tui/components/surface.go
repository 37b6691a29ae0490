package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/tui/styles"
)

// Surface stands in for the video area above the bar. Clicking it toggles
// playback.
type Surface struct{}

// NewSurface creates a new Surface component
func NewSurface() *Surface {
	return &Surface{}
}

// Render fills width x height with the title and playback status.
func (s *Surface) Render(title string, state core.PlaybackState, width, height int) string {
	if height <= 0 {
		return ""
	}

	status := styles.StatusIcon(state.IsPlaying)
	switch {
	case !state.HasDuration():
		status += styles.Dim.Render(" loading")
	case state.IsPlaying:
		status += styles.Playing.Render(" playing")
	default:
		status += styles.Paused.Render(" paused")
	}
	if state.IsFullscreen {
		status += styles.Highlight.Render("  fullscreen")
	}

	if width > 2 {
		title = truncate.StringWithTail(title, uint(width-2), "…")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.Title.Render(title),
		"",
		status,
		"",
		styles.Dim.Render("click to play/pause"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
