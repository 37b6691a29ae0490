package core

// EventKind identifies a notification emitted by a media primitive.
type EventKind int

const (
	// EventTimeUpdate fires as playback advances.
	EventTimeUpdate EventKind = iota
	// EventLoadedMetadata fires once the real duration is known.
	EventLoadedMetadata
	// EventPlay fires when playback begins, including autoplay.
	EventPlay
	// EventPause fires when playback pauses.
	EventPause
)

func (k EventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "timeupdate"
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	default:
		return "unknown"
	}
}

// Media is the playable media object the transport controls drive.
//
// Commands are fire-and-forget: a nil error only means the command was
// issued. Completion is observed through later events.
type Media interface {
	// Playback control
	Play() error
	Pause() error
	Paused() bool

	// Position, in seconds
	CurrentTime() float64
	SetCurrentTime(seconds float64) error
	Duration() float64

	// Output, volume in [0,1]
	Volume() float64
	SetVolume(v float64) error
	Muted() bool
	SetMuted(muted bool) error

	// On subscribes fn to events of the given kind. The returned cancel
	// func detaches the subscription and is safe to call more than once.
	On(kind EventKind, fn func()) (cancel func())
}

// Fullscreener is the standard fullscreen entry point.
type Fullscreener interface {
	RequestFullscreen() error
}

// WebkitFullscreener is the webkit-prefixed fullscreen entry point.
type WebkitFullscreener interface {
	WebkitRequestFullscreen() error
}

// MozFullscreener is the moz-prefixed fullscreen entry point.
type MozFullscreener interface {
	MozRequestFullScreen() error
}

// MSFullscreener is the ms-prefixed fullscreen entry point.
type MSFullscreener interface {
	MSRequestFullscreen() error
}

// FullscreenEntry finds the first fullscreen entry point m exposes,
// probing standard, webkit, moz and ms in that order. It returns nil
// when none exists.
func FullscreenEntry(m Media) (name string, request func() error) {
	if f, ok := m.(Fullscreener); ok {
		return "standard", f.RequestFullscreen
	}
	if f, ok := m.(WebkitFullscreener); ok {
		return "webkit", f.WebkitRequestFullscreen
	}
	if f, ok := m.(MozFullscreener); ok {
		return "moz", f.MozRequestFullScreen
	}
	if f, ok := m.(MSFullscreener); ok {
		return "ms", f.MSRequestFullscreen
	}
	return "", nil
}
