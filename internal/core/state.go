package core

// PlaybackState is what the transport controls believe to be true.
type PlaybackState struct {
	IsPlaying       bool    `json:"is_playing"`
	PlayedFraction  float64 `json:"played_fraction"`
	DurationSeconds float64 `json:"duration_seconds"`
	Volume          float64 `json:"volume"`
	IsMuted         bool    `json:"is_muted"`
	IsFullscreen    bool    `json:"is_fullscreen"`
}

// CurrentSeconds returns the position implied by PlayedFraction.
func (s PlaybackState) CurrentSeconds() float64 {
	if s.DurationSeconds <= 0 {
		return 0
	}
	return s.PlayedFraction / 100 * s.DurationSeconds
}

// HasDuration returns true once metadata has been loaded.
func (s PlaybackState) HasDuration() bool {
	return s.DurationSeconds > 0
}
