package core

// Platform is the host environment the media is displayed in. Its
// fullscreen notification is process-wide, not scoped to one Media.
type Platform interface {
	// FullscreenElement reports the media currently holding fullscreen,
	// if any.
	FullscreenElement() (Media, bool)

	// OnFullscreenChange subscribes fn to fullscreen changes anywhere in
	// the process.
	OnFullscreenChange(fn func()) (cancel func())
}

// FullscreenExiter is implemented by platforms that can leave fullscreen
// on request.
type FullscreenExiter interface {
	ExitFullscreen() error
}
