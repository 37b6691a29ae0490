package config

// Config is the root configuration structure.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Player   PlayerConfig   `toml:"player"`
	MPV      MPVConfig      `toml:"mpv"`
	MPRIS    MPRISConfig    `toml:"mpris"`
	Defaults DefaultsConfig `toml:"defaults"`
	Tail     TailConfig     `toml:"tail"`
	TUI      TUIConfig      `toml:"tui"`
	Log      LogConfig      `toml:"log"`
}

// SourceConfig selects the media stream to load.
type SourceConfig struct {
	URL string `toml:"url"`
}

// PlayerConfig selects the media backend.
type PlayerConfig struct {
	Backend string `toml:"backend"`
}

// MPVConfig holds settings for the mpv backend.
type MPVConfig struct {
	Path       string   `toml:"path"`
	Socket     string   `toml:"socket"`
	Args       []string `toml:"args"`
	Loop       bool     `toml:"loop"`
	IPCTimeout int      `toml:"ipc_timeout"`
}

// MPRISConfig holds settings for the MPRIS backend.
type MPRISConfig struct {
	Player       string `toml:"player"`
	PollInterval int    `toml:"poll_interval"`
}

// DefaultsConfig holds the initial transport state.
type DefaultsConfig struct {
	Volume   float64 `toml:"volume"`
	Muted    bool    `toml:"muted"`
	Autoplay bool    `toml:"autoplay"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Emoji     bool   `toml:"emoji"`
	Timestamp bool   `toml:"timestamp"`
	Format    string `toml:"format"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string  `toml:"theme"`
	RefreshInterval int     `toml:"refresh_interval"`
	SeekStep        float64 `toml:"seek_step"`
	VolumeStep      float64 `toml:"volume_step"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
