package tui

import (
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/reel/internal/controller"
	"github.com/tessro/reel/internal/fullscreen"
	"github.com/tessro/reel/internal/mock"
	"github.com/tessro/reel/internal/tui/components"
)

const (
	testWidth  = 100
	testHeight = 20
)

func newTestModel(t *testing.T) (Model, *mock.Media) {
	t.Helper()

	media := mock.NewMedia()
	platform := fullscreen.New()
	media.Platform = platform

	ctrl := controller.New(&mock.Standard{Media: media}, platform, controller.Options{Volume: 0.5})
	m := NewModel(ctrl, Options{Title: "test", SeekStep: 10, VolumeStep: 0.1})

	m = update(t, m, tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	m = update(t, m, mountMsg{})
	media.LoadMetadata(100)
	media.ResetCalls()
	t.Cleanup(ctrl.Unmount)
	return m, media
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return model
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func (m Model) span(t *testing.T, r components.Region) components.Span {
	t.Helper()
	_, layout := m.bar.Render(m.ctrl.State(), m.ctrl.Position(), m.width)
	s, ok := layout.Find(r)
	if !ok {
		t.Fatalf("region %v not in layout", r)
	}
	return s
}

func TestMountOnInit(t *testing.T) {
	m, media := newTestModel(t)

	if !m.mounted {
		t.Error("mounted = false after mountMsg")
	}
	if media.Volume() != 0.5 {
		t.Errorf("media volume = %v, want 0.5", media.Volume())
	}
	if media.Subscriptions() == 0 {
		t.Error("no media subscriptions after mount")
	}
}

func TestKeys(t *testing.T) {
	m, media := newTestModel(t)

	m = update(t, m, keyPress(" "))
	if media.Paused() {
		t.Error("space did not start playback")
	}

	m = update(t, m, keyPress("right"))
	if got := m.ctrl.State().PlayedFraction; got != 10 {
		t.Errorf("PlayedFraction = %v, want 10", got)
	}

	m = update(t, m, keyPress("-"))
	if got := m.ctrl.State().Volume; got != 0.4 {
		t.Errorf("Volume = %v, want 0.4", got)
	}

	m = update(t, m, keyPress("m"))
	if !m.ctrl.State().IsMuted || !media.Muted() {
		t.Error("m did not mute")
	}

	m = update(t, m, keyPress("f"))
	if !m.ctrl.State().IsFullscreen {
		t.Error("f did not enter fullscreen")
	}

	m = update(t, m, keyPress("esc"))
	if m.ctrl.State().IsFullscreen {
		t.Error("esc did not leave fullscreen")
	}
}

func TestKeysIgnoredBeforeMount(t *testing.T) {
	media := mock.NewMedia()
	ctrl := controller.New(media, fullscreen.New(), controller.Options{Volume: 0.5})
	m := NewModel(ctrl, Options{})

	m = update(t, m, keyPress(" "))
	if len(media.Calls()) != 0 {
		t.Errorf("calls = %v, want none before mount", media.Calls())
	}
}

func TestSurfaceClickTogglesPlayback(t *testing.T) {
	m, media := newTestModel(t)

	m = update(t, m, click(10, 3))
	if media.Paused() {
		t.Error("surface click did not start playback")
	}

	m = update(t, m, click(10, 3))
	if !media.Paused() {
		t.Error("second surface click did not pause")
	}
}

func TestBarClicksAreConsumed(t *testing.T) {
	m, media := newTestModel(t)
	barRow := testHeight - barRows

	seek := m.span(t, components.RegionSeek)
	m = update(t, m, click(seek.Start+seek.Width-1, barRow))
	if got := m.ctrl.State().PlayedFraction; got != 100 {
		t.Errorf("PlayedFraction = %v, want 100", got)
	}
	if !media.Paused() {
		t.Error("seek click toggled playback")
	}

	volume := m.span(t, components.RegionVolume)
	m = update(t, m, click(volume.Start, barRow))
	if got := m.ctrl.State().Volume; got != 0 {
		t.Errorf("Volume = %v, want 0", got)
	}

	mute := m.span(t, components.RegionMute)
	m = update(t, m, click(mute.Start, barRow))
	if !m.ctrl.State().IsMuted {
		t.Error("mute click did not mute")
	}

	play := m.span(t, components.RegionPlay)
	m = update(t, m, click(play.Start, barRow))
	if media.Paused() {
		t.Error("play click did not start playback")
	}
}

func TestVolumeClickSnapsToHundredths(t *testing.T) {
	m, _ := newTestModel(t)
	barRow := testHeight - barRows

	volume := m.span(t, components.RegionVolume)
	offset := volume.Width / 3
	m = update(t, m, click(volume.Start+offset, barRow))

	want := math.Round(float64(offset)/float64(volume.Width-1)*100) / 100
	if got := m.ctrl.State().Volume; got != want {
		t.Errorf("Volume = %v, want %v", got, want)
	}
}

func TestHelpRowClickIgnored(t *testing.T) {
	m, media := newTestModel(t)

	m = update(t, m, click(1, testHeight-1))
	if len(media.Calls()) != 0 {
		t.Errorf("calls = %v, want none", media.Calls())
	}
}

func TestQuitUnmounts(t *testing.T) {
	m, media := newTestModel(t)

	next, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command did not produce tea.QuitMsg")
	}
	if media.Subscriptions() != 0 {
		t.Errorf("Subscriptions() = %d, want 0 after quit", media.Subscriptions())
	}
	if next.(Model).View() != "" {
		t.Error("View() not empty after quit")
	}
}

func TestMediaGoneQuits(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(mediaGoneMsg{})
	if cmd == nil {
		t.Fatal("mediaGoneMsg returned no command")
	}
	if !next.(Model).gone {
		t.Error("gone = false after mediaGoneMsg")
	}
}

func TestRunMsgExecutes(t *testing.T) {
	m, _ := newTestModel(t)

	ran := false
	update(t, m, runMsg(func() { ran = true }))
	if !ran {
		t.Error("runMsg was not executed")
	}
}

func TestViewLayout(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	if view == "" || view == "Loading..." {
		t.Fatalf("View() = %q", view)
	}

	m.help.ShowAll = true
	if m.View() == view {
		t.Error("full help did not change the view")
	}
}
