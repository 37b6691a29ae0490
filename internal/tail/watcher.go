package tail

import (
	"context"
	"math"
	"time"

	"github.com/tessro/reel/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventLoaded EventType = iota
	EventPlay
	EventPause
	EventSeek
	EventVolumeChange
	EventMute
	EventUnmute
	EventFullscreenEnter
	EventFullscreenExit
)

// seekSlack is how far, in seconds, the position may drift from wall
// time before a jump counts as a seek.
const seekSlack = 2.0

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

type observation struct {
	state core.PlaybackState
	at    time.Time
}

// Watcher turns a stream of controller states into discrete events.
type Watcher struct {
	states chan observation
	events chan Event
	done   chan struct{}
	now    func() time.Time
}

// NewWatcher creates a new state watcher.
func NewWatcher() *Watcher {
	return &Watcher{
		states: make(chan observation, 64),
		events: make(chan Event, 16),
		done:   make(chan struct{}),
		now:    time.Now,
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Observe records a state. Its signature fits a controller OnChange hook.
func (w *Watcher) Observe(s core.PlaybackState) {
	select {
	case w.states <- observation{state: s, at: w.now()}:
	case <-w.done:
	}
}

// Start diffs observed states until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.events)

	var prev *observation

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case obs := <-w.states:
			for _, e := range diffStates(prev, &obs) {
				select {
				case w.events <- e:
				default:
					// Drop event if channel is full
				}
			}
			prev = &obs
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffStates compares two observations and returns detected events.
func diffStates(prev, curr *observation) []Event {
	if curr == nil {
		return nil
	}

	c := curr.state
	event := func(t EventType, p *core.PlaybackState) Event {
		return Event{Type: t, Timestamp: curr.at, Previous: p, Current: &c}
	}

	var events []Event

	// First observation - report what is already true
	if prev == nil {
		if c.HasDuration() {
			events = append(events, event(EventLoaded, nil))
		}
		if c.IsPlaying {
			events = append(events, event(EventPlay, nil))
		}
		return events
	}

	p := prev.state

	if c.HasDuration() && c.DurationSeconds != p.DurationSeconds {
		events = append(events, event(EventLoaded, &p))
	}

	// Play/Pause detection
	if !p.IsPlaying && c.IsPlaying {
		events = append(events, event(EventPlay, &p))
	} else if p.IsPlaying && !c.IsPlaying {
		events = append(events, event(EventPause, &p))
	}

	if seeked(prev, curr) {
		events = append(events, event(EventSeek, &p))
	}

	// Volume change detection
	if p.Volume != c.Volume {
		events = append(events, event(EventVolumeChange, &p))
	}

	if !p.IsMuted && c.IsMuted {
		events = append(events, event(EventMute, &p))
	} else if p.IsMuted && !c.IsMuted {
		events = append(events, event(EventUnmute, &p))
	}

	if !p.IsFullscreen && c.IsFullscreen {
		events = append(events, event(EventFullscreenEnter, &p))
	} else if p.IsFullscreen && !c.IsFullscreen {
		events = append(events, event(EventFullscreenExit, &p))
	}

	return events
}

// seeked returns true if the position moved in a way playback alone
// cannot explain: backwards, or further than the elapsed time allows.
func seeked(prev, curr *observation) bool {
	if !curr.state.HasDuration() || prev.state.DurationSeconds != curr.state.DurationSeconds {
		return false
	}

	moved := curr.state.CurrentSeconds() - prev.state.CurrentSeconds()
	if moved == 0 {
		return false
	}

	var elapsed float64
	if prev.state.IsPlaying {
		elapsed = curr.at.Sub(prev.at).Seconds()
	}
	return math.Abs(moved-elapsed) > seekSlack
}
