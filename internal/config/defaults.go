package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL: "https://www.w3schools.com/html/mov_bbb.mp4",
		},
		Player: PlayerConfig{
			Backend: "mpv",
		},
		MPV: MPVConfig{
			Path:       "mpv",
			Loop:       true,
			IPCTimeout: 5000,
		},
		MPRIS: MPRISConfig{
			PollInterval: 500,
		},
		Defaults: DefaultsConfig{
			Volume:   0.5,
			Muted:    false,
			Autoplay: true,
		},
		Tail: TailConfig{
			Emoji: true,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 250,
			SeekStep:        5,
			VolumeStep:      0.05,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults. Booleans and
// the volume are left alone since their zero values are meaningful.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Player
	if c.Player.Backend == "" {
		c.Player.Backend = d.Player.Backend
	}

	// MPV
	if c.MPV.Path == "" {
		c.MPV.Path = d.MPV.Path
	}
	if c.MPV.IPCTimeout == 0 {
		c.MPV.IPCTimeout = d.MPV.IPCTimeout
	}

	// MPRIS
	if c.MPRIS.PollInterval == 0 {
		c.MPRIS.PollInterval = d.MPRIS.PollInterval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}
	if c.TUI.SeekStep == 0 {
		c.TUI.SeekStep = d.TUI.SeekStep
	}
	if c.TUI.VolumeStep == 0 {
		c.TUI.VolumeStep = d.TUI.VolumeStep
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
