// Package controller keeps transport-control state synchronized with a
// media primitive.
//
// User intents go through the command handlers, which update the state
// optimistically and issue one command to the media. Events from the
// media and the platform go through the reconcilers, which overwrite the
// state from ground truth. The last writer wins per field.
//
// A Controller is not safe for concurrent use. Every method, and every
// callback it registers, runs on the goroutine that owns it; callbacks
// arriving on other goroutines are marshalled there by the Executor.
package controller

import (
	"io"
	"math"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/tessro/reel/internal/core"
)

// Executor runs fn on the goroutine that owns the controller.
type Executor func(fn func())

// Inline runs fn immediately. Use it when events are already delivered on
// the owning goroutine, as in tests.
func Inline(fn func()) { fn() }

// Options configures a Controller.
type Options struct {
	// Volume is the initial desired volume, clamped to [0,1].
	Volume float64
	// Muted is the initial mute intent.
	Muted bool
	// Autoplay starts playback on Mount.
	Autoplay bool

	// Executor defaults to Inline.
	Executor Executor
	// Logger defaults to a logger that discards output.
	Logger logrus.FieldLogger
	// OnChange is called after every state change.
	OnChange func(core.PlaybackState)
}

// DefaultOptions mirrors the stock widget: half volume, unmuted, autoplay.
func DefaultOptions() Options {
	return Options{Volume: 0.5, Autoplay: true}
}

// Controller owns one PlaybackState for the lifetime of one mounted
// transport bar.
type Controller struct {
	media    core.Media
	platform core.Platform
	opts     Options
	exec     Executor
	log      logrus.FieldLogger
	onChange func(core.PlaybackState)

	state core.PlaybackState

	mounted bool
	unsubs  []func()
	// exitWatch detaches the fullscreen exit watcher; nil when unarmed.
	exitWatch func()
}

// New returns an unmounted controller for media displayed on platform.
func New(media core.Media, platform core.Platform, opts Options) *Controller {
	exec := opts.Executor
	if exec == nil {
		exec = Inline
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Controller{
		media:    media,
		platform: platform,
		opts:     opts,
		exec:     exec,
		log:      log.WithField("component", "controller"),
		onChange: opts.OnChange,
		state: core.PlaybackState{
			Volume:  lo.Clamp(opts.Volume, 0, 1),
			IsMuted: opts.Muted,
		},
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() core.PlaybackState {
	return c.state
}

// Position returns the media's actual position in seconds.
func (c *Controller) Position() float64 {
	t := c.media.CurrentTime()
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return 0
	}
	return t
}

// Media returns the controlled primitive.
func (c *Controller) Media() core.Media {
	return c.media
}

// WatchingFullscreen reports whether the fullscreen exit watcher is armed.
func (c *Controller) WatchingFullscreen() bool {
	return c.exitWatch != nil
}

// Mount attaches the event subscriptions and pushes the initial volume
// and mute intent to the media. Mounting twice is a no-op.
func (c *Controller) Mount() {
	if c.mounted {
		return
	}
	c.mounted = true

	c.subscribe(core.EventTimeUpdate, c.onTimeUpdate)
	c.subscribe(core.EventLoadedMetadata, c.onMetadataLoaded)
	c.subscribe(core.EventPlay, c.onPlaybackStarted)
	c.subscribe(core.EventPause, c.onPaused)

	if c.platform != nil {
		c.unsubs = append(c.unsubs, c.platform.OnFullscreenChange(func() {
			c.exec(c.syncMute)
		}))
	}

	c.issue("volume", c.media.SetVolume(c.state.Volume))
	c.issue("mute", c.media.SetMuted(c.state.IsMuted))
	c.state.IsMuted = c.media.Muted()

	// Media that loaded before we subscribed will not announce it again.
	if d := c.media.Duration(); validDuration(d) {
		c.state.DurationSeconds = d
	}
	c.state.IsPlaying = !c.media.Paused()

	if c.opts.Autoplay && c.media.Paused() {
		c.issue("play", c.media.Play())
	}

	c.log.WithFields(logrus.Fields{
		"volume": c.state.Volume,
		"muted":  c.state.IsMuted,
	}).Debug("mounted")
	c.changed()
}

// Unmount detaches every subscription, including the fullscreen exit
// watcher when still armed. It is safe to call more than once.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false

	for _, cancel := range c.unsubs {
		cancel()
	}
	c.unsubs = nil
	c.disarmExitWatch()

	c.log.Debug("unmounted")
}

func (c *Controller) subscribe(kind core.EventKind, handler func()) {
	cancel := c.media.On(kind, func() {
		c.exec(handler)
	})
	c.unsubs = append(c.unsubs, cancel)
}

// issue logs a failed fire-and-forget command. Failures are tolerated.
func (c *Controller) issue(op string, err error) {
	if err != nil {
		c.log.WithError(err).WithField("op", op).Warn("media command failed")
	}
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange(c.state)
	}
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
