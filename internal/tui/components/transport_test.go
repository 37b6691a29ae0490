package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/reel/internal/core"
)

func TestTransportBarLayout(t *testing.T) {
	b := NewTransportBar()
	state := core.PlaybackState{IsPlaying: true, PlayedFraction: 25, DurationSeconds: 120, Volume: 0.5}

	out, layout := b.Render(state, 30, 100)

	order := []Region{RegionPlay, RegionTime, RegionSeek, RegionMute, RegionVolume, RegionFullscreen}
	if len(layout) != len(order) {
		t.Fatalf("layout has %d spans, want %d", len(layout), len(order))
	}

	end := 0
	for i, s := range layout {
		if s.Region != order[i] {
			t.Errorf("span %d region = %v, want %v", i, s.Region, order[i])
		}
		if s.Start < end {
			t.Errorf("span %d starts at %d, overlapping previous end %d", i, s.Start, end)
		}
		if s.Width <= 0 {
			t.Errorf("span %d width = %d", i, s.Width)
		}
		end = s.Start + s.Width
	}

	if w := lipgloss.Width(out); w != end {
		t.Errorf("rendered width = %d, want %d", w, end)
	}
	if end > 100 {
		t.Errorf("bar is %d cells, wider than 100", end)
	}

	vol, _ := layout.Find(RegionVolume)
	if vol.Width != volumeBarWidth {
		t.Errorf("volume width = %d, want %d", vol.Width, volumeBarWidth)
	}
}

func TestTransportBarNarrow(t *testing.T) {
	_, layout := NewTransportBar().Render(core.PlaybackState{}, 0, 5)

	seek, ok := layout.Find(RegionSeek)
	if !ok {
		t.Fatal("no seek region")
	}
	if seek.Width != minSeekWidth {
		t.Errorf("seek width = %d, want %d", seek.Width, minSeekWidth)
	}
}

func TestLayoutHit(t *testing.T) {
	layout := Layout{
		{Region: RegionPlay, Start: 0, Width: 3},
		{Region: RegionSeek, Start: 5, Width: 10},
	}

	tests := []struct {
		x          int
		wantRegion Region
		wantOffset int
	}{
		{0, RegionPlay, 0},
		{2, RegionPlay, 2},
		{3, RegionNone, 0},
		{5, RegionSeek, 0},
		{14, RegionSeek, 9},
		{15, RegionNone, 0},
	}
	for _, tt := range tests {
		region, _, offset := layout.Hit(tt.x)
		if region != tt.wantRegion || offset != tt.wantOffset {
			t.Errorf("Hit(%d) = %v, %d, want %v, %d", tt.x, region, offset, tt.wantRegion, tt.wantOffset)
		}
	}
}

func TestSurfaceTruncatesTitle(t *testing.T) {
	s := NewSurface()
	title := "a-very-long-recording-name-that-will-not-fit.mkv"

	out := s.Render(title, core.PlaybackState{}, 24, 7)

	if w := lipgloss.Width(out); w != 24 {
		t.Errorf("surface width = %d, want 24", w)
	}
	if h := lipgloss.Height(out); h != 7 {
		t.Errorf("surface height = %d, want 7", h)
	}
}

func TestSurfaceZeroHeight(t *testing.T) {
	if out := NewSurface().Render("x", core.PlaybackState{}, 10, 0); out != "" {
		t.Errorf("Render() = %q, want empty", out)
	}
}
