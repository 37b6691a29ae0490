package controller

import "github.com/sirupsen/logrus"

// onTimeUpdate is the authoritative source of PlayedFraction during
// playback. Unknown or zero durations skip the update.
func (c *Controller) onTimeUpdate() {
	duration := c.media.Duration()
	if !validDuration(duration) {
		duration = c.state.DurationSeconds
	}
	if !validDuration(duration) {
		return
	}

	c.state.PlayedFraction = c.Position() / duration * 100
	if c.state.PlayedFraction > 100 {
		c.state.PlayedFraction = 100
	}
	c.changed()
}

func (c *Controller) onMetadataLoaded() {
	d := c.media.Duration()
	if !validDuration(d) {
		return
	}
	c.state.DurationSeconds = d
	c.log.WithField("duration", d).Debug("metadata loaded")
	c.changed()
}

// onPlaybackStarted undoes platform auto-mute. It reads IsMuted when it
// runs, so a mute toggle after subscription is honoured.
func (c *Controller) onPlaybackStarted() {
	if !c.state.IsMuted {
		c.issue("unmute", c.media.SetMuted(false))
	}
	c.state.IsPlaying = true
	c.changed()
}

func (c *Controller) onPaused() {
	c.state.IsPlaying = false
	c.changed()
}

// onPlatformFullscreenChange clears IsFullscreen when fullscreen no longer
// belongs to this media, then detaches the watcher.
func (c *Controller) onPlatformFullscreenChange() {
	if c.exitWatch == nil {
		return
	}
	if el, ok := c.platform.FullscreenElement(); ok && el == c.media {
		return
	}

	c.state.IsFullscreen = false
	c.disarmExitWatch()
	c.log.Debug("left fullscreen")
	c.changed()
}

// syncMute pulls the media's muted flag into IsMuted. Platforms may reset
// it around fullscreen transitions.
func (c *Controller) syncMute() {
	muted := c.media.Muted()
	if muted == c.state.IsMuted {
		return
	}
	c.log.WithFields(logrus.Fields{"was": c.state.IsMuted, "now": muted}).Debug("mute resynced")
	c.state.IsMuted = muted
	c.changed()
}

// Resync pulls every axis the media reports directly. It is the pull
// counterpart of the event reconcilers.
func (c *Controller) Resync() {
	c.state.IsPlaying = !c.media.Paused()
	c.state.IsMuted = c.media.Muted()
	if d := c.media.Duration(); validDuration(d) {
		c.state.DurationSeconds = d
	}
	c.changed()
}
