// Package mock provides an in-memory media primitive for tests and demos.
package mock

import (
	"fmt"
	"sync"

	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/fullscreen"
)

// Media is a scriptable core.Media. Commands change its state and are
// recorded; events are only emitted when the test calls Emit.
type Media struct {
	mu          sync.Mutex
	paused      bool
	currentTime float64
	duration    float64
	volume      float64
	muted       bool
	err         error
	calls       []string

	nextID int
	subs   map[core.EventKind]map[int]func()

	// Platform, when set, is entered by the fullscreen entry points.
	Platform *fullscreen.Notifier
}

// NewMedia returns paused media at full volume with no duration.
func NewMedia() *Media {
	return &Media{
		paused: true,
		volume: 1,
		subs:   make(map[core.EventKind]map[int]func()),
	}
}

// Play starts playback.
func (m *Media) Play() error {
	return m.command("play", func() { m.paused = false })
}

// Pause pauses playback.
func (m *Media) Pause() error {
	return m.command("pause", func() { m.paused = true })
}

// Paused reports the paused flag.
func (m *Media) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// CurrentTime returns the position in seconds.
func (m *Media) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// SetCurrentTime seeks.
func (m *Media) SetCurrentTime(seconds float64) error {
	return m.command(fmt.Sprintf("seek %g", seconds), func() { m.currentTime = seconds })
}

// Duration returns the media length in seconds.
func (m *Media) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// Volume returns the output volume.
func (m *Media) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// SetVolume sets the output volume.
func (m *Media) SetVolume(v float64) error {
	return m.command(fmt.Sprintf("volume %g", v), func() { m.volume = v })
}

// Muted reports the muted flag.
func (m *Media) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// SetMuted sets the muted flag.
func (m *Media) SetMuted(muted bool) error {
	return m.command(fmt.Sprintf("muted %t", muted), func() { m.muted = muted })
}

// On subscribes fn to kind.
func (m *Media) On(kind core.EventKind, fn func()) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if m.subs[kind] == nil {
		m.subs[kind] = make(map[int]func())
	}
	m.subs[kind][id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs[kind], id)
		m.mu.Unlock()
	}
}

// command records name and applies fn unless a failure is scripted.
func (m *Media) command(name string, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	if m.err != nil {
		return m.err
	}
	fn()
	return nil
}

// Test controls

// Emit delivers kind to every subscriber synchronously.
func (m *Media) Emit(kind core.EventKind) {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.subs[kind]))
	for _, fn := range m.subs[kind] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// LoadMetadata sets the duration and emits EventLoadedMetadata.
func (m *Media) LoadMetadata(duration float64) {
	m.mu.Lock()
	m.duration = duration
	m.mu.Unlock()
	m.Emit(core.EventLoadedMetadata)
}

// Advance sets the position and emits EventTimeUpdate.
func (m *Media) Advance(seconds float64) {
	m.mu.Lock()
	m.currentTime = seconds
	m.mu.Unlock()
	m.Emit(core.EventTimeUpdate)
}

// SetPaused changes the paused flag without emitting anything, as a
// player key binding would.
func (m *Media) SetPaused(paused bool) {
	m.mu.Lock()
	m.paused = paused
	m.mu.Unlock()
}

// ForceMuted changes the muted flag out-of-band, as platforms do for
// autoplay or fullscreen transitions.
func (m *Media) ForceMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
}

// Fail makes every following command return err. Pass nil to recover.
func (m *Media) Fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Calls returns the commands issued so far.
func (m *Media) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// ResetCalls forgets recorded commands.
func (m *Media) ResetCalls() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

// Subscriptions returns the number of live event subscriptions.
func (m *Media) Subscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		n += len(s)
	}
	return n
}

// enter records the fullscreen request and hands holder to the platform.
func (m *Media) enter(holder core.Media, entry string) error {
	if err := m.command("fullscreen "+entry, func() {}); err != nil {
		return err
	}
	if m.Platform != nil {
		m.Platform.Enter(holder, func() error {
			m.Platform.Leave(holder)
			return nil
		})
	}
	return nil
}

var _ core.Media = (*Media)(nil)
