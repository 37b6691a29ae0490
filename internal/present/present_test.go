package present

import (
	"math"
	"testing"

	"github.com/tessro/reel/internal/core"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59.999, "0:59"},
		{60, "1:00"},
		{65, "1:05"},
		{125.7, "2:05"},
		{3600, "60:00"},
		{-3, "0:00"},
		{math.NaN(), "0:00"},
		{math.Inf(1), "0:00"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTimeReadout(t *testing.T) {
	s := core.PlaybackState{DurationSeconds: 120}
	if got := TimeReadout(30, s); got != "0:30 / 2:00" {
		t.Errorf("TimeReadout() = %q, want %q", got, "0:30 / 2:00")
	}
}

func TestVolumeIcon(t *testing.T) {
	tests := []struct {
		name  string
		state core.PlaybackState
		muted bool
	}{
		{"audible", core.PlaybackState{Volume: 0.5}, false},
		{"muted", core.PlaybackState{Volume: 0.5, IsMuted: true}, true},
		{"zero volume unmuted", core.PlaybackState{Volume: 0}, true},
		{"zero volume muted", core.PlaybackState{Volume: 0, IsMuted: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShowMutedIcon(tt.state); got != tt.muted {
				t.Errorf("ShowMutedIcon() = %v, want %v", got, tt.muted)
			}
			want := GlyphVolume
			if tt.muted {
				want = GlyphMuted
			}
			if got := VolumeIcon(tt.state); got != want {
				t.Errorf("VolumeIcon() = %q, want %q", got, want)
			}
		})
	}
}

func TestPlayIcon(t *testing.T) {
	if got := PlayIcon(core.PlaybackState{IsPlaying: true}); got != GlyphPause {
		t.Errorf("PlayIcon(playing) = %q, want %q", got, GlyphPause)
	}
	if got := PlayIcon(core.PlaybackState{}); got != GlyphPlay {
		t.Errorf("PlayIcon(paused) = %q, want %q", got, GlyphPlay)
	}
}

func TestFills(t *testing.T) {
	s := core.PlaybackState{PlayedFraction: 42, Volume: 0.35}
	if got := SeekFill(s); got != 42 {
		t.Errorf("SeekFill() = %v, want 42", got)
	}
	if got := VolumeFill(s); math.Abs(got-35) > 1e-9 {
		t.Errorf("VolumeFill() = %v, want 35", got)
	}
	if got := SeekFill(core.PlaybackState{PlayedFraction: 130}); got != 100 {
		t.Errorf("SeekFill(130) = %v, want 100", got)
	}
}

func TestFractionAt(t *testing.T) {
	tests := []struct {
		x, width int
		want     float64
	}{
		{0, 11, 0},
		{5, 11, 50},
		{10, 11, 100},
		{20, 11, 100},
		{3, 1, 0},
	}
	for _, tt := range tests {
		if got := FractionAt(tt.x, tt.width); got != tt.want {
			t.Errorf("FractionAt(%d, %d) = %v, want %v", tt.x, tt.width, got, tt.want)
		}
	}
}
