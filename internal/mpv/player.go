package mpv

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/fullscreen"
)

// Observer ids for the properties a Player tracks.
const (
	obsTimePos = iota + 1
	obsDuration
	obsPause
	obsMute
	obsVolume
	obsFullscreen
)

var observed = map[int]string{
	obsTimePos:    "time-pos",
	obsDuration:   "duration",
	obsPause:      "pause",
	obsMute:       "mute",
	obsVolume:     "volume",
	obsFullscreen: "fullscreen",
}

// Player is an mpv instance seen as a core.Media. Property reads come from
// a cache kept current by observe_property; writes go straight to mpv.
type Player struct {
	client   *Client
	notifier *fullscreen.Notifier
	log      logrus.FieldLogger

	mu         sync.Mutex
	timePos    float64
	duration   float64
	paused     bool
	muted      bool
	volume     float64
	fullscreen bool
	subs       map[core.EventKind]map[uuid.UUID]func()

	// observedPaused is the last pause value mpv reported; play and pause
	// fire on its transitions only.
	observedPaused bool
	// startPending is set while a file is starting, so that its first
	// playback-restart counts as playback beginning.
	startPending bool
}

var (
	_ core.Media        = (*Player)(nil)
	_ core.Fullscreener = (*Player)(nil)
)

// NewPlayer primes the property cache from client and starts observing.
// Fullscreen transitions are published to notifier; nil means
// fullscreen.Default.
func NewPlayer(client *Client, notifier *fullscreen.Notifier, log logrus.FieldLogger) (*Player, error) {
	if notifier == nil {
		notifier = fullscreen.Default
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	p := &Player{
		client:   client,
		notifier: notifier,
		log:      log.WithField("component", "mpv"),
		duration: math.NaN(),
		paused:   true,
		volume:   1,
		subs:     make(map[core.EventKind]map[uuid.UUID]func()),
	}

	client.OnEvent(p.handleEvent)

	// Nothing is loaded yet when time-pos and duration are unavailable.
	var pos, dur float64
	if err := client.Get("time-pos", &pos); err == nil {
		p.timePos = pos
	}
	if err := client.Get("duration", &dur); err == nil {
		p.duration = dur
	}
	var paused, muted bool
	var volume float64
	if err := client.Get("pause", &paused); err != nil {
		return nil, err
	}
	if err := client.Get("mute", &muted); err != nil {
		return nil, err
	}
	if err := client.Get("volume", &volume); err != nil {
		return nil, err
	}
	p.paused, p.muted, p.volume = paused, muted, scaleVolume(volume)
	p.observedPaused = paused
	p.startPending = math.IsNaN(p.duration)

	for id := obsTimePos; id <= obsFullscreen; id++ {
		if err := client.Observe(id, observed[id]); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Play resumes playback.
func (p *Player) Play() error {
	if err := p.client.Set("pause", false); err != nil {
		return err
	}
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
	return nil
}

// Pause pauses playback.
func (p *Player) Pause() error {
	if err := p.client.Set("pause", true); err != nil {
		return err
	}
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
	return nil
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timePos
}

// SetCurrentTime seeks to an absolute position in seconds.
func (p *Player) SetCurrentTime(seconds float64) error {
	if _, err := p.client.Command("seek", seconds, "absolute"); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.mu.Lock()
	p.timePos = seconds
	p.mu.Unlock()
	return nil
}

// Duration is NaN until mpv knows it.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume takes a level in [0,1]; mpv works in percent.
func (p *Player) SetVolume(v float64) error {
	v = lo.Clamp(v, 0, 1)
	if err := p.client.Set("volume", v*100); err != nil {
		return err
	}
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
	return nil
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) SetMuted(muted bool) error {
	if err := p.client.Set("mute", muted); err != nil {
		return err
	}
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
	return nil
}

// RequestFullscreen switches the mpv window to fullscreen. The platform
// notification follows once mpv reports the change.
func (p *Player) RequestFullscreen() error {
	return p.client.Set("fullscreen", true)
}

func (p *Player) exitFullscreen() error {
	return p.client.Set("fullscreen", false)
}

// On registers fn for kind. fn runs on the IPC event goroutine.
func (p *Player) On(kind core.EventKind, fn func()) (cancel func()) {
	id := uuid.New()

	p.mu.Lock()
	if p.subs[kind] == nil {
		p.subs[kind] = make(map[uuid.UUID]func())
	}
	p.subs[kind][id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs[kind], id)
			p.mu.Unlock()
		})
	}
}

// Close releases fullscreen ownership and the IPC connection.
func (p *Player) Close() error {
	p.notifier.Leave(p)
	return p.client.Close()
}

// Client returns the IPC connection the player talks through.
func (p *Player) Client() *Client {
	return p.client
}

// Done is closed when the IPC connection goes away.
func (p *Player) Done() <-chan struct{} {
	return p.client.Done()
}

func (p *Player) emit(kind core.EventKind) {
	p.mu.Lock()
	fns := make([]func(), 0, len(p.subs[kind]))
	for _, fn := range p.subs[kind] {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// handleEvent translates mpv events into media events.
func (p *Player) handleEvent(ev Event) {
	switch ev.Name {
	case "property-change":
		p.propertyChanged(ev)
	case "start-file", "file-loaded":
		p.mu.Lock()
		p.startPending = true
		p.mu.Unlock()
	case "playback-restart":
		// mpv also restarts playback after every seek and loop wrap; only
		// the first restart of a file that is not paused is a start.
		p.mu.Lock()
		started := p.startPending && !p.paused
		p.startPending = false
		p.mu.Unlock()
		if started {
			p.emit(core.EventPlay)
		}
	case "shutdown":
		p.log.Debug("mpv shutting down")
		p.notifier.Leave(p)
	}
}

func (p *Player) propertyChanged(ev Event) {
	switch ev.ID {
	case obsTimePos:
		var pos *float64
		if json.Unmarshal(ev.Data, &pos) != nil || pos == nil {
			return
		}
		p.mu.Lock()
		p.timePos = *pos
		p.mu.Unlock()
		p.emit(core.EventTimeUpdate)

	case obsDuration:
		var dur *float64
		if json.Unmarshal(ev.Data, &dur) != nil || dur == nil {
			p.mu.Lock()
			p.duration = math.NaN()
			p.mu.Unlock()
			return
		}
		p.mu.Lock()
		p.duration = *dur
		p.mu.Unlock()
		p.emit(core.EventLoadedMetadata)

	case obsPause:
		var paused bool
		if json.Unmarshal(ev.Data, &paused) != nil {
			return
		}
		p.mu.Lock()
		changed := p.observedPaused != paused
		p.observedPaused = paused
		p.paused = paused
		if changed && !paused {
			p.startPending = false
		}
		p.mu.Unlock()
		if !changed {
			return
		}
		if paused {
			p.emit(core.EventPause)
		} else {
			p.emit(core.EventPlay)
		}

	case obsMute:
		var muted bool
		if json.Unmarshal(ev.Data, &muted) != nil {
			return
		}
		p.mu.Lock()
		p.muted = muted
		p.mu.Unlock()

	case obsVolume:
		var volume float64
		if json.Unmarshal(ev.Data, &volume) != nil {
			return
		}
		p.mu.Lock()
		p.volume = scaleVolume(volume)
		p.mu.Unlock()

	case obsFullscreen:
		var fs bool
		if json.Unmarshal(ev.Data, &fs) != nil {
			return
		}
		p.mu.Lock()
		changed := p.fullscreen != fs
		p.fullscreen = fs
		p.mu.Unlock()
		if !changed {
			return
		}
		p.log.WithField("fullscreen", fs).Debug("fullscreen changed")
		if fs {
			p.notifier.Enter(p, p.exitFullscreen)
		} else {
			p.notifier.Leave(p)
		}
	}
}

// scaleVolume maps mpv's percent volume, which may exceed 100, onto [0,1].
func scaleVolume(percent float64) float64 {
	return lo.Clamp(percent/100, 0, 1)
}
