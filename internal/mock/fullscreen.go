package mock

import "github.com/tessro/reel/internal/core"

// Standard exposes only the standard fullscreen entry point.
type Standard struct{ *Media }

func (s *Standard) RequestFullscreen() error { return s.enter(s, "standard") }

// Webkit exposes only the webkit-prefixed entry point.
type Webkit struct{ *Media }

func (w *Webkit) WebkitRequestFullscreen() error { return w.enter(w, "webkit") }

// Moz exposes only the moz-prefixed entry point.
type Moz struct{ *Media }

func (z *Moz) MozRequestFullScreen() error { return z.enter(z, "moz") }

// MS exposes only the ms-prefixed entry point.
type MS struct{ *Media }

func (s *MS) MSRequestFullscreen() error { return s.enter(s, "ms") }

// AllEntries exposes every entry point.
type AllEntries struct{ *Media }

func (a *AllEntries) RequestFullscreen() error       { return a.enter(a, "standard") }
func (a *AllEntries) WebkitRequestFullscreen() error { return a.enter(a, "webkit") }
func (a *AllEntries) MozRequestFullScreen() error    { return a.enter(a, "moz") }
func (a *AllEntries) MSRequestFullscreen() error     { return a.enter(a, "ms") }

var (
	_ core.Fullscreener       = (*Standard)(nil)
	_ core.WebkitFullscreener = (*Webkit)(nil)
	_ core.MozFullscreener    = (*Moz)(nil)
	_ core.MSFullscreener     = (*MS)(nil)
	_ core.Fullscreener       = (*AllEntries)(nil)
)
