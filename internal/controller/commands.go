package controller

import (
	"math"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/tessro/reel/internal/core"
)

// TogglePlayPause plays or pauses based on the media's actual paused flag,
// not the cached IsPlaying.
func (c *Controller) TogglePlayPause() {
	if c.media.Paused() {
		c.issue("play", c.media.Play())
		c.state.IsPlaying = true
	} else {
		c.issue("pause", c.media.Pause())
		c.state.IsPlaying = false
	}
	c.changed()
}

// SurfaceClick handles a click on the video surface: it toggles playback
// unless fullscreen, where the surface belongs to the platform.
func (c *Controller) SurfaceClick() {
	if c.state.IsFullscreen {
		return
	}
	c.TogglePlayPause()
}

// Seek moves to fraction percent of the duration. Out-of-range input is
// clamped and NaN is ignored. PlayedFraction updates immediately; the
// media is only commanded once the duration is known.
func (c *Controller) Seek(fraction float64) {
	if math.IsNaN(fraction) {
		return
	}
	fraction = lo.Clamp(fraction, 0, 100)

	if c.state.DurationSeconds > 0 {
		target := fraction / 100 * c.state.DurationSeconds
		c.issue("seek", c.media.SetCurrentTime(target))
	}
	c.state.PlayedFraction = fraction
	c.changed()
}

// SeekBy moves the seek position by delta percent.
func (c *Controller) SeekBy(delta float64) {
	c.Seek(c.state.PlayedFraction + delta)
}

// SetVolume sets the desired volume, clamped to [0,1]. When the UI is not
// muted it also unmutes the media, which some platforms mute on their own
// when volume leaves zero.
func (c *Controller) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = lo.Clamp(v, 0, 1)

	c.state.Volume = v
	c.issue("volume", c.media.SetVolume(v))
	if !c.state.IsMuted {
		c.issue("unmute", c.media.SetMuted(false))
	}
	c.changed()
}

// AdjustVolume changes the volume by delta.
func (c *Controller) AdjustVolume(delta float64) {
	c.SetVolume(c.state.Volume + delta)
}

// ToggleMute flips the mute intent and pushes it to the media.
func (c *Controller) ToggleMute() {
	muted := !c.state.IsMuted
	c.state.IsMuted = muted
	c.issue("mute", c.media.SetMuted(muted))
	c.changed()
}

// RequestFullscreen enters fullscreen through the first entry point the
// media exposes and arms the exit watcher. Media without any entry point
// is left alone.
func (c *Controller) RequestFullscreen() {
	name, request := core.FullscreenEntry(c.media)
	if request == nil {
		c.log.Debug("no fullscreen entry point")
		return
	}

	c.issue("fullscreen", request())
	c.state.IsFullscreen = true
	c.armExitWatch()

	c.log.WithField("entry", name).Debug("requested fullscreen")
	c.changed()
}

// ExitFullscreen asks the platform to leave fullscreen. IsFullscreen is
// cleared by the exit watcher once the platform confirms.
func (c *Controller) ExitFullscreen() {
	exiter, ok := c.platform.(core.FullscreenExiter)
	if !ok {
		return
	}
	c.issue("exit fullscreen", exiter.ExitFullscreen())
}

// ToggleFullscreen enters or leaves fullscreen.
func (c *Controller) ToggleFullscreen() {
	if c.state.IsFullscreen {
		c.ExitFullscreen()
		return
	}
	c.RequestFullscreen()
}

// armExitWatch attaches the platform-wide watcher once per session.
func (c *Controller) armExitWatch() {
	if c.exitWatch != nil || c.platform == nil {
		return
	}
	c.exitWatch = c.platform.OnFullscreenChange(func() {
		c.exec(c.onPlatformFullscreenChange)
	})
}

func (c *Controller) disarmExitWatch() {
	if c.exitWatch == nil {
		return
	}
	c.exitWatch()
	c.exitWatch = nil
}

// IntentKind names a user intent.
type IntentKind int

const (
	IntentTogglePlay IntentKind = iota
	IntentSurfaceClick
	IntentSeek
	IntentSeekBy
	IntentSetVolume
	IntentAdjustVolume
	IntentToggleMute
	IntentRequestFullscreen
	IntentExitFullscreen
	IntentToggleFullscreen
)

// Intent is a user action with an optional value: a percentage for
// seeks, a level or delta for volume.
type Intent struct {
	Kind  IntentKind
	Value float64
}

// Dispatch routes an intent to its command handler.
func (c *Controller) Dispatch(in Intent) {
	c.log.WithFields(logrus.Fields{"intent": in.Kind, "value": in.Value}).Trace("dispatch")

	switch in.Kind {
	case IntentTogglePlay:
		c.TogglePlayPause()
	case IntentSurfaceClick:
		c.SurfaceClick()
	case IntentSeek:
		c.Seek(in.Value)
	case IntentSeekBy:
		c.SeekBy(in.Value)
	case IntentSetVolume:
		c.SetVolume(in.Value)
	case IntentAdjustVolume:
		c.AdjustVolume(in.Value)
	case IntentToggleMute:
		c.ToggleMute()
	case IntentRequestFullscreen:
		c.RequestFullscreen()
	case IntentExitFullscreen:
		c.ExitFullscreen()
	case IntentToggleFullscreen:
		c.ToggleFullscreen()
	}
}
