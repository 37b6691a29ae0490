package mpris

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/tessro/reel/internal/core"
	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/fullscreen"
)

// fakeObject stands in for a player's bus object.
type fakeObject struct {
	mu    sync.Mutex
	props map[string]interface{}
	calls []string
	fail  error
}

func newFakeObject() *fakeObject {
	return &fakeObject{props: map[string]interface{}{
		PlayerIface + ".PlaybackStatus": "Paused",
		PlayerIface + ".Volume":         0.8,
		PlayerIface + ".Position":       int64(3_000_000),
		PlayerIface + ".Metadata": map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/track/1")),
			"mpris:length":  dbus.MakeVariant(int64(120_000_000)),
		},
	}}
}

func (f *fakeObject) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	return &dbus.Call{Err: f.fail, Args: args}
}

func (f *fakeObject) GetProperty(p string) (dbus.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.props[p]
	if !ok {
		return dbus.Variant{}, errors.New("no such property")
	}
	return dbus.MakeVariant(v), nil
}

func (f *fakeObject) SetProperty(p string, v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	if variant, ok := v.(dbus.Variant); ok {
		v = variant.Value()
	}
	f.props[p] = v
	return nil
}

func (f *fakeObject) prop(p string) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[p]
}

func (f *fakeObject) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func newTestPlayer(t *testing.T, obj *fakeObject) (*Player, *fullscreen.Notifier) {
	t.Helper()
	n := fullscreen.New()
	p := newPlayer("org.mpris.MediaPlayer2.vlc", obj, Options{Notifier: n})
	if err := p.refresh(); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}
	return p, n
}

func TestNames(t *testing.T) {
	got := filterPlayers([]string{
		"org.freedesktop.DBus",
		"org.mpris.MediaPlayer2.vlc",
		":1.42",
		"org.mpris.MediaPlayer2.mpv.instance7",
		"org.mpris.MediaPlayer2",
	})
	want := []string{"org.mpris.MediaPlayer2.mpv.instance7", "org.mpris.MediaPlayer2.vlc"}
	if !slices.Equal(got, want) {
		t.Errorf("filterPlayers() = %v, want %v", got, want)
	}
}

func TestMatch(t *testing.T) {
	names := []string{
		"org.mpris.MediaPlayer2.firefox.instance_1_9",
		"org.mpris.MediaPlayer2.mpv.instance7",
		"org.mpris.MediaPlayer2.vlc",
	}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"vlc", "org.mpris.MediaPlayer2.vlc", false},
		{"org.mpris.MediaPlayer2.vlc", "org.mpris.MediaPlayer2.vlc", false},
		{"mpv", "org.mpris.MediaPlayer2.mpv.instance7", false},
		{"VLC", "org.mpris.MediaPlayer2.vlc", false},
		{"ffx", "org.mpris.MediaPlayer2.firefox.instance_1_9", false},
		{"in", "", true},
		{"spotify", "", true},
	}
	for _, tt := range tests {
		got, err := match(names, tt.in)
		if tt.wantErr {
			if !errors.Is(err, reelerrors.ErrPlayerNotFound) {
				t.Errorf("match(%q) error = %v, want ErrPlayerNotFound", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("match(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestShortAndFullName(t *testing.T) {
	if got := ShortName("org.mpris.MediaPlayer2.vlc"); got != "vlc" {
		t.Errorf("ShortName() = %q, want vlc", got)
	}
	if got := FullName("vlc"); got != "org.mpris.MediaPlayer2.vlc" {
		t.Errorf("FullName() = %q", got)
	}
	if got := FullName("org.mpris.MediaPlayer2.vlc"); got != "org.mpris.MediaPlayer2.vlc" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestRefresh(t *testing.T) {
	p, _ := newTestPlayer(t, newFakeObject())

	if !p.Paused() {
		t.Error("Paused() = false, want true")
	}
	if p.Duration() != 120 {
		t.Errorf("Duration() = %v, want 120", p.Duration())
	}
	if p.CurrentTime() != 3 {
		t.Errorf("CurrentTime() = %v, want 3", p.CurrentTime())
	}
	if p.Volume() != 0.8 {
		t.Errorf("Volume() = %v, want 0.8", p.Volume())
	}
}

func TestSeekUsesTrackID(t *testing.T) {
	obj := newFakeObject()
	p, _ := newTestPlayer(t, obj)

	if err := p.SetCurrentTime(60); err != nil {
		t.Fatalf("SetCurrentTime() error = %v", err)
	}
	if got := obj.lastCall(); got != PlayerIface+".SetPosition" {
		t.Errorf("last call = %q, want SetPosition", got)
	}
	if p.CurrentTime() != 60 {
		t.Errorf("CurrentTime() = %v, want 60", p.CurrentTime())
	}

	delete(obj.props, PlayerIface+".Metadata")
	p2, _ := newTestPlayer(t, obj)
	if err := p2.SetCurrentTime(10); err != nil {
		t.Fatalf("SetCurrentTime() error = %v", err)
	}
	if got := obj.lastCall(); got != PlayerIface+".Seek" {
		t.Errorf("last call = %q, want Seek", got)
	}
}

func TestMuteEmulation(t *testing.T) {
	obj := newFakeObject()
	p, _ := newTestPlayer(t, obj)

	if err := p.SetMuted(true); err != nil {
		t.Fatalf("SetMuted(true) error = %v", err)
	}
	if obj.prop(PlayerIface+".Volume") != 0.0 {
		t.Errorf("bus volume = %v, want 0", obj.prop(PlayerIface+".Volume"))
	}
	if !p.Muted() || p.Volume() != 0.8 {
		t.Errorf("Muted() = %v, Volume() = %v, want true, 0.8", p.Muted(), p.Volume())
	}

	// Volume changes while muted are held back.
	if err := p.SetVolume(0.4); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if obj.prop(PlayerIface+".Volume") != 0.0 {
		t.Errorf("bus volume = %v, want 0 while muted", obj.prop(PlayerIface+".Volume"))
	}

	// Our own zero echoed back does not unmute.
	p.applyChanges(PlayerIface, map[string]dbus.Variant{"Volume": dbus.MakeVariant(0.0)})
	if !p.Muted() {
		t.Error("Muted() = false after echo, want true")
	}

	if err := p.SetMuted(false); err != nil {
		t.Fatalf("SetMuted(false) error = %v", err)
	}
	if obj.prop(PlayerIface+".Volume") != 0.4 {
		t.Errorf("bus volume = %v, want 0.4", obj.prop(PlayerIface+".Volume"))
	}
}

func TestExternalUnmute(t *testing.T) {
	p, _ := newTestPlayer(t, newFakeObject())
	_ = p.SetMuted(true)

	p.applyChanges(PlayerIface, map[string]dbus.Variant{"Volume": dbus.MakeVariant(0.6)})
	if p.Muted() {
		t.Error("Muted() = true, want false after external volume change")
	}
	if p.Volume() != 0.6 {
		t.Errorf("Volume() = %v, want 0.6", p.Volume())
	}
}

func TestApplyChangesEvents(t *testing.T) {
	p, _ := newTestPlayer(t, newFakeObject())

	var got []core.EventKind
	for _, kind := range []core.EventKind{core.EventLoadedMetadata, core.EventPlay, core.EventPause} {
		kind := kind
		p.On(kind, func() { got = append(got, kind) })
	}

	p.applyChanges(PlayerIface, map[string]dbus.Variant{
		"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
			"mpris:length": dbus.MakeVariant(uint64(90_000_000)),
		}),
		"PlaybackStatus": dbus.MakeVariant("Playing"),
	})
	p.applyChanges(PlayerIface, map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Stopped")})

	want := []core.EventKind{core.EventLoadedMetadata, core.EventPlay, core.EventPause}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if p.Duration() != 90 {
		t.Errorf("Duration() = %v, want 90", p.Duration())
	}
	if !p.Paused() {
		t.Error("Paused() = false after Stopped, want true")
	}
}

func TestMetadataWithoutLength(t *testing.T) {
	obj := newFakeObject()
	obj.props[PlayerIface+".Metadata"] = map[string]dbus.Variant{}
	p, _ := newTestPlayer(t, obj)

	if !math.IsNaN(p.Duration()) {
		t.Errorf("Duration() = %v, want NaN", p.Duration())
	}
}

func TestFullscreenCapability(t *testing.T) {
	obj := newFakeObject()
	p, _ := newTestPlayer(t, obj)
	if _, ok := p.Media().(core.Fullscreener); ok {
		t.Error("Media() is a Fullscreener without CanSetFullscreen")
	}

	obj.props[RootInterface+".CanSetFullscreen"] = true
	p, n := newTestPlayer(t, obj)
	fs, ok := p.Media().(core.Fullscreener)
	if !ok {
		t.Fatal("Media() is not a Fullscreener with CanSetFullscreen")
	}
	if err := fs.RequestFullscreen(); err != nil {
		t.Fatalf("RequestFullscreen() error = %v", err)
	}
	if obj.prop(RootInterface+".Fullscreen") != true {
		t.Errorf("Fullscreen = %v, want true", obj.prop(RootInterface+".Fullscreen"))
	}

	p.applyChanges(RootInterface, map[string]dbus.Variant{"Fullscreen": dbus.MakeVariant(true)})
	if el, ok := n.FullscreenElement(); !ok || el != p.Media() {
		t.Errorf("FullscreenElement() = %v, %v, want the player", el, ok)
	}

	if err := n.ExitFullscreen(); err != nil {
		t.Fatalf("ExitFullscreen() error = %v", err)
	}
	if obj.prop(RootInterface+".Fullscreen") != false {
		t.Errorf("Fullscreen = %v, want false", obj.prop(RootInterface+".Fullscreen"))
	}

	p.applyChanges(RootInterface, map[string]dbus.Variant{"Fullscreen": dbus.MakeVariant(false)})
	if _, ok := n.FullscreenElement(); ok {
		t.Error("FullscreenElement() still set after leaving")
	}
}

func TestSignalFromOtherSenderIgnored(t *testing.T) {
	p, _ := newTestPlayer(t, newFakeObject())
	p.owner = ":1.7"

	ticks := 0
	p.On(core.EventTimeUpdate, func() { ticks++ })

	p.handleSignal(&dbus.Signal{Sender: ":1.99", Name: PlayerIface + ".Seeked", Body: []interface{}{int64(5_000_000)}})
	if ticks != 0 {
		t.Errorf("ticks = %d, want 0 for foreign sender", ticks)
	}

	p.handleSignal(&dbus.Signal{Sender: ":1.7", Name: PlayerIface + ".Seeked", Body: []interface{}{int64(5_000_000)}})
	if ticks != 1 || p.CurrentTime() != 5 {
		t.Errorf("ticks = %d, CurrentTime() = %v, want 1, 5", ticks, p.CurrentTime())
	}
}

func TestCommandFailure(t *testing.T) {
	obj := newFakeObject()
	p, _ := newTestPlayer(t, obj)
	obj.fail = errors.New("org.freedesktop.DBus.Error.ServiceUnknown")

	if err := p.Play(); err == nil {
		t.Error("Play() error = nil, want failure")
	}
	if !p.Paused() {
		t.Error("Paused() = false after failed Play, want true")
	}
}

func TestMicros(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{int64(5), 5, true},
		{uint64(7), 7, true},
		{int32(3), 3, true},
		{2.0, 2, true},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		got, ok := micros(dbus.MakeVariant(tt.in))
		if got != tt.want || ok != tt.ok {
			t.Errorf("micros(%v) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
