// Package present projects playback state into renderable values. Every
// function is pure.
package present

import (
	"fmt"
	"math"

	"github.com/tessro/reel/internal/core"
)

// Glyphs used by the transport bar.
const (
	GlyphPlay       = "▶"
	GlyphPause      = "⏸"
	GlyphMuted      = "🔇"
	GlyphVolume     = "🔊"
	GlyphFullscreen = "⛶"
)

// FormatTime renders seconds as M:SS. Minutes are unpadded and seconds
// are truncated, never rounded up. Invalid input renders as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// TimeReadout renders "current / total".
func TimeReadout(current float64, s core.PlaybackState) string {
	return FormatTime(current) + " / " + FormatTime(s.DurationSeconds)
}

// PlayIcon shows pause while playing and play otherwise.
func PlayIcon(s core.PlaybackState) string {
	if s.IsPlaying {
		return GlyphPause
	}
	return GlyphPlay
}

// ShowMutedIcon is true when muted or when the volume is zero.
func ShowMutedIcon(s core.PlaybackState) bool {
	return s.IsMuted || s.Volume == 0
}

// VolumeIcon picks the muted or unmuted glyph.
func VolumeIcon(s core.PlaybackState) string {
	if ShowMutedIcon(s) {
		return GlyphMuted
	}
	return GlyphVolume
}

// SeekFill is the filled share of the seek bar in percent.
func SeekFill(s core.PlaybackState) float64 {
	return clampPercent(s.PlayedFraction)
}

// VolumeFill is the filled share of the volume bar in percent.
func VolumeFill(s core.PlaybackState) float64 {
	return clampPercent(s.Volume * 100)
}

// FractionAt maps a click at column x of a bar width cells wide to a
// percentage.
func FractionAt(x, width int) float64 {
	if width <= 1 {
		return 0
	}
	return clampPercent(float64(x) / float64(width-1) * 100)
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
