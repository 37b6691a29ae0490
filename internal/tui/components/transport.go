package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/present"
	"github.com/tessro/reel/internal/tui/styles"
)

// Region names a clickable part of the transport bar.
type Region int

const (
	RegionNone Region = iota
	RegionPlay
	RegionTime
	RegionSeek
	RegionMute
	RegionVolume
	RegionFullscreen
)

const (
	volumeBarWidth = 12
	minSeekWidth   = 10
)

// Span is a region's horizontal extent in cells.
type Span struct {
	Region Region
	Start  int
	Width  int
}

// Layout maps columns of a rendered bar to regions.
type Layout []Span

// Hit returns the region under column x and the offset within it.
func (l Layout) Hit(x int) (Region, Span, int) {
	for _, s := range l {
		if x >= s.Start && x < s.Start+s.Width {
			return s.Region, s, x - s.Start
		}
	}
	return RegionNone, Span{}, 0
}

// Find returns the span for r.
func (l Layout) Find(r Region) (Span, bool) {
	for _, s := range l {
		if s.Region == r {
			return s, true
		}
	}
	return Span{}, false
}

// TransportBar renders the single-line control strip: play/pause, time
// readout, seek bar, mute toggle, volume bar, fullscreen toggle.
type TransportBar struct{}

// NewTransportBar creates a new TransportBar component
func NewTransportBar() *TransportBar {
	return &TransportBar{}
}

// Render draws the bar width cells wide for state at position seconds.
func (b *TransportBar) Render(state core.PlaybackState, position float64, width int) (string, Layout) {
	play := styles.Button.Render(" " + playGlyph(state) + " ")
	readout := styles.Muted.Render(" " + present.TimeReadout(position, state) + " ")
	mute := styles.Button.Render(" " + present.VolumeIcon(state) + " ")
	fullscreen := styles.Button.Render(" " + present.GlyphFullscreen + " ")
	if state.IsFullscreen {
		fullscreen = styles.Highlight.Render(" " + present.GlyphFullscreen + " ")
	}

	fixed := lipgloss.Width(play) + lipgloss.Width(readout) + lipgloss.Width(mute) +
		volumeBarWidth + lipgloss.Width(fullscreen) + 2
	seekWidth := width - fixed
	if seekWidth < minSeekWidth {
		seekWidth = minSeekWidth
	}

	seek := styles.ProgressBar(present.SeekFill(state), seekWidth)
	volume := styles.VolumeBar(present.VolumeFill(state), volumeBarWidth, present.ShowMutedIcon(state))

	parts := []struct {
		region Region
		text   string
	}{
		{RegionPlay, play},
		{RegionTime, readout},
		{RegionSeek, seek},
		{RegionNone, " "},
		{RegionMute, mute},
		{RegionVolume, volume},
		{RegionNone, " "},
		{RegionFullscreen, fullscreen},
	}

	var sb strings.Builder
	var layout Layout
	x := 0
	for _, p := range parts {
		w := lipgloss.Width(p.text)
		if p.region != RegionNone {
			layout = append(layout, Span{Region: p.region, Start: x, Width: w})
		}
		sb.WriteString(p.text)
		x += w
	}
	return sb.String(), layout
}

func playGlyph(state core.PlaybackState) string {
	if state.IsPlaying {
		return styles.Playing.Render(present.PlayIcon(state))
	}
	return styles.Paused.Render(present.PlayIcon(state))
}
