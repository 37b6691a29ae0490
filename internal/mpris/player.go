package mpris

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tessro/reel/internal/core"
	"github.com/tessro/reel/internal/fullscreen"
)

const defaultPollInterval = 500 * time.Millisecond

// object is the part of dbus.BusObject a Player uses.
type object interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
	GetProperty(p string) (dbus.Variant, error)
	SetProperty(p string, v interface{}) error
}

// Options configures a Player.
type Options struct {
	PollInterval time.Duration
	Notifier     *fullscreen.Notifier // fullscreen.Default when nil
	Logger       logrus.FieldLogger
}

// Player is an MPRIS player seen as a core.Media.
//
// MPRIS has no mute property, so muting parks the volume at zero and
// unmuting restores it.
type Player struct {
	name     string
	conn     *dbus.Conn
	obj      object
	notifier *fullscreen.Notifier
	log      logrus.FieldLogger
	poll     time.Duration

	// self is the value handed to the controller and the notifier, which
	// may be a FullscreenPlayer wrapping this Player.
	self core.Media

	mu         sync.Mutex
	owner      string
	position   float64
	duration   float64
	trackID    dbus.ObjectPath
	paused     bool
	volume     float64
	muted      bool
	fullscreen bool
	subs       map[core.EventKind]map[uuid.UUID]func()
}

// FullscreenPlayer is a Player whose CanSetFullscreen is true.
type FullscreenPlayer struct {
	*Player
}

// RequestFullscreen sets the root Fullscreen property.
func (f *FullscreenPlayer) RequestFullscreen() error {
	return f.setFullscreen(true)
}

var (
	_ core.Media        = (*Player)(nil)
	_ core.Fullscreener = (*FullscreenPlayer)(nil)
)

// Connect attaches to the player with bus name name on conn.
func Connect(conn *dbus.Conn, name string, opts Options) (*Player, error) {
	p := newPlayer(name, conn.Object(name, ObjectPath), opts)
	p.conn = conn

	var owner string
	if err := conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner); err != nil {
		return nil, fmt.Errorf("%s: %w", ShortName(name), err)
	}
	p.owner = owner

	if err := p.refresh(); err != nil {
		return nil, fmt.Errorf("%s: %w", ShortName(name), err)
	}
	return p, nil
}

func newPlayer(name string, obj object, opts Options) *Player {
	if opts.Notifier == nil {
		opts.Notifier = fullscreen.Default
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}

	p := &Player{
		name:     name,
		obj:      obj,
		notifier: opts.Notifier,
		log:      opts.Logger.WithFields(logrus.Fields{"component": "mpris", "player": ShortName(name)}),
		poll:     opts.PollInterval,
		duration: math.NaN(),
		paused:   true,
		volume:   1,
		subs:     make(map[core.EventKind]map[uuid.UUID]func()),
	}
	p.self = p

	if v, err := obj.GetProperty(RootInterface + ".CanSetFullscreen"); err == nil {
		if can, _ := v.Value().(bool); can {
			p.self = &FullscreenPlayer{p}
		}
	}
	return p
}

// Media returns the value to control: the Player, or a FullscreenPlayer
// when the player can go fullscreen.
func (p *Player) Media() core.Media {
	return p.self
}

// Name returns the player's bus name.
func (p *Player) Name() string {
	return p.name
}

// refresh reads every tracked property.
func (p *Player) refresh() error {
	status, err := p.obj.GetProperty(PlayerIface + ".PlaybackStatus")
	if err != nil {
		return fmt.Errorf("playback status: %w", err)
	}

	p.mu.Lock()
	p.paused = isPaused(status)
	p.mu.Unlock()

	if v, err := p.obj.GetProperty(PlayerIface + ".Metadata"); err == nil {
		p.applyMetadata(v)
	}
	if v, err := p.obj.GetProperty(PlayerIface + ".Volume"); err == nil {
		if vol, ok := v.Value().(float64); ok {
			p.mu.Lock()
			p.volume = lo.Clamp(vol, 0, 1)
			p.mu.Unlock()
		}
	}
	if v, err := p.obj.GetProperty(RootInterface + ".Fullscreen"); err == nil {
		p.mu.Lock()
		p.fullscreen, _ = v.Value().(bool)
		p.mu.Unlock()
	}
	p.pollPosition()
	return nil
}

func (p *Player) call(method string, args ...interface{}) error {
	return p.obj.Call(PlayerIface+"."+method, 0, args...).Err
}

// Play starts or resumes playback.
func (p *Player) Play() error {
	if err := p.call("Play"); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
	return nil
}

// Pause pauses playback.
func (p *Player) Pause() error {
	if err := p.call("Pause"); err != nil {
		return fmt.Errorf("pause: %w", err)
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
	return p.position
}

// SetCurrentTime uses SetPosition when the track id is known and a
// relative Seek otherwise.
func (p *Player) SetCurrentTime(seconds float64) error {
	p.mu.Lock()
	track, current := p.trackID, p.position
	p.mu.Unlock()

	var err error
	if track != "" {
		err = p.call("SetPosition", track, toMicros(seconds))
	} else {
		err = p.call("Seek", toMicros(seconds-current))
	}
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	p.mu.Lock()
	p.position = seconds
	p.mu.Unlock()
	return nil
}

// Duration is NaN until the player reports mpris:length.
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

// SetVolume stores v and, unless muted, pushes it to the player.
func (p *Player) SetVolume(v float64) error {
	v = lo.Clamp(v, 0, 1)

	p.mu.Lock()
	p.volume = v
	muted := p.muted
	p.mu.Unlock()

	if muted {
		return nil
	}
	return p.setVolume(v)
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) SetMuted(muted bool) error {
	p.mu.Lock()
	was, restore := p.muted, p.volume
	p.muted = muted
	p.mu.Unlock()

	if was == muted {
		return nil
	}
	if muted {
		return p.setVolume(0)
	}
	return p.setVolume(restore)
}

func (p *Player) setVolume(v float64) error {
	if err := p.obj.SetProperty(PlayerIface+".Volume", dbus.MakeVariant(v)); err != nil {
		return fmt.Errorf("volume: %w", err)
	}
	return nil
}

func (p *Player) setFullscreen(on bool) error {
	if err := p.obj.SetProperty(RootInterface+".Fullscreen", dbus.MakeVariant(on)); err != nil {
		return fmt.Errorf("fullscreen: %w", err)
	}
	return nil
}

// On registers fn for kind. fn runs on the goroutine running Run.
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

// Run listens for property changes and polls the position until ctx is
// done or the player leaves the bus.
func (p *Player) Run(ctx context.Context) error {
	if p.conn == nil {
		return fmt.Errorf("%s: not connected", p.name)
	}

	rules := []dbus.MatchOption{
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchSender(p.name),
	}
	if err := p.conn.AddMatchSignal(append(rules, dbus.WithMatchInterface(propertiesFace), dbus.WithMatchMember("PropertiesChanged"))...); err != nil {
		return fmt.Errorf("watch properties: %w", err)
	}
	if err := p.conn.AddMatchSignal(append(rules, dbus.WithMatchInterface(PlayerIface), dbus.WithMatchMember("Seeked"))...); err != nil {
		return fmt.Errorf("watch seeks: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	p.conn.Signal(signals)
	defer p.conn.RemoveSignal(signals)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sig, ok := <-signals:
				if !ok {
					return fmt.Errorf("%s: bus closed", p.name)
				}
				p.handleSignal(sig)
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(p.poll)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if !p.Paused() && p.pollPosition() {
					p.emit(core.EventTimeUpdate)
				}
			}
		}
	})

	return g.Wait()
}

// Close releases fullscreen ownership.
func (p *Player) Close() error {
	p.notifier.Leave(p.self)
	return nil
}

func (p *Player) pollPosition() bool {
	v, err := p.obj.GetProperty(PlayerIface + ".Position")
	if err != nil {
		return false
	}
	us, ok := micros(v)
	if !ok {
		return false
	}
	p.mu.Lock()
	p.position = float64(us) / 1e6
	p.mu.Unlock()
	return true
}

func (p *Player) handleSignal(sig *dbus.Signal) {
	p.mu.Lock()
	owner := p.owner
	p.mu.Unlock()
	if sig.Sender != owner && sig.Sender != p.name {
		return
	}

	switch sig.Name {
	case propertiesFace + ".PropertiesChanged":
		if len(sig.Body) < 2 {
			return
		}
		iface, _ := sig.Body[0].(string)
		changed, _ := sig.Body[1].(map[string]dbus.Variant)
		p.applyChanges(iface, changed)

	case PlayerIface + ".Seeked":
		if len(sig.Body) < 1 {
			return
		}
		us, ok := sig.Body[0].(int64)
		if !ok {
			return
		}
		p.mu.Lock()
		p.position = float64(us) / 1e6
		p.mu.Unlock()
		p.emit(core.EventTimeUpdate)
	}
}

// applyChanges folds one PropertiesChanged payload into the cache and
// emits the matching media events.
func (p *Player) applyChanges(iface string, changed map[string]dbus.Variant) {
	switch iface {
	case PlayerIface:
		if v, ok := changed["Metadata"]; ok {
			if p.applyMetadata(v) {
				p.emit(core.EventLoadedMetadata)
			}
		}
		if v, ok := changed["Volume"]; ok {
			p.applyVolume(v)
		}
		if v, ok := changed["PlaybackStatus"]; ok {
			paused := isPaused(v)
			p.mu.Lock()
			p.paused = paused
			p.mu.Unlock()
			if paused {
				p.emit(core.EventPause)
			} else {
				p.emit(core.EventPlay)
			}
		}

	case RootInterface:
		if v, ok := changed["Fullscreen"]; ok {
			on, _ := v.Value().(bool)
			p.mu.Lock()
			was := p.fullscreen
			p.fullscreen = on
			p.mu.Unlock()
			if was == on {
				return
			}
			p.log.WithField("fullscreen", on).Debug("fullscreen changed")
			if on {
				p.notifier.Enter(p.self, func() error { return p.setFullscreen(false) })
			} else {
				p.notifier.Leave(p.self)
			}
		}
	}
}

// applyVolume takes a volume reported by the player. A zero while muted
// is our own mute; anything else while muted means someone unmuted.
func (p *Player) applyVolume(v dbus.Variant) {
	vol, ok := v.Value().(float64)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.muted && vol == 0 {
		return
	}
	p.muted = false
	p.volume = lo.Clamp(vol, 0, 1)
}

// applyMetadata reports whether a new valid duration arrived.
func (p *Player) applyMetadata(v dbus.Variant) bool {
	m, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := m["mpris:trackid"]; ok {
		switch t := id.Value().(type) {
		case dbus.ObjectPath:
			p.trackID = t
		case string:
			p.trackID = dbus.ObjectPath(t)
		}
	}

	length, ok := m["mpris:length"]
	if !ok {
		return false
	}
	us, ok := micros(length)
	if !ok || us <= 0 {
		return false
	}
	p.duration = float64(us) / 1e6
	return true
}

func isPaused(status dbus.Variant) bool {
	s, _ := status.Value().(string)
	return s != "Playing"
}

// micros reads a microsecond count, which players send as int64 or uint64.
func micros(v dbus.Variant) (int64, bool) {
	switch n := v.Value().(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toMicros(seconds float64) int64 {
	return int64(math.Round(seconds * 1e6))
}
