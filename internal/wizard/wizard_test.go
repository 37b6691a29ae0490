package wizard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/reel/internal/mpris"
)

var players = []mpris.Info{
	{Name: "org.mpris.MediaPlayer2.vlc", Identity: "VLC media player", Status: "Paused"},
	{Name: "org.mpris.MediaPlayer2.mpv", Identity: "mpv", Status: "Playing"},
	{Name: "org.mpris.MediaPlayer2.firefox.instance_1_9", Status: "Stopped"},
}

func TestPickPlayer(t *testing.T) {
	tests := []struct {
		name    string
		players []mpris.Info
		want    string
	}{
		{"none", nil, ""},
		{"single", players[:1], "org.mpris.MediaPlayer2.vlc"},
		{"one playing", players, "org.mpris.MediaPlayer2.mpv"},
		{"none playing", []mpris.Info{players[0], players[2]}, ""},
		{"two playing", []mpris.Info{players[1], {Name: "org.mpris.MediaPlayer2.x", Status: "Playing"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickPlayer(tt.players).Get()
			if tt.want == "" {
				if ok {
					t.Errorf("PickPlayer() = %v, want none", got.Name)
				}
				return
			}
			if !ok || got.Name != tt.want {
				t.Errorf("PickPlayer() = %v, want %s", got.Name, tt.want)
			}
		})
	}
}

func TestPlayerModelNavigation(t *testing.T) {
	m := NewPlayerModel(players)

	step := func(key tea.KeyMsg) {
		next, _ := m.Update(key)
		m = next.(PlayerModel)
	}

	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	step(tea.KeyMsg{Type: tea.KeyUp})
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() == nil || m.Selected().Name != "org.mpris.MediaPlayer2.mpv" {
		t.Errorf("Selected() = %v, want mpv", m.Selected())
	}
}

func TestPlayerModelEmptyEnd(t *testing.T) {
	m := NewPlayerModel(nil)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if next.(PlayerModel).cursor != 0 {
		t.Errorf("cursor = %d, want 0", next.(PlayerModel).cursor)
	}
	if !strings.Contains(m.View(), "No players found") {
		t.Error("View() missing empty message")
	}
}

func TestPlayerModelView(t *testing.T) {
	view := NewPlayerModel(players).View()
	for _, want := range []string{"VLC media player", "(vlc)", "firefox.instance_1_9", "playing"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
