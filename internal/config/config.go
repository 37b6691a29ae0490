package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.reelrc, $XDG_CONFIG_HOME/reel/config.toml, ~/.config/reel/config.toml
func Load() (*Config, error) {
	cfg := Default()

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Path returns the file Load would write to: the first existing config
// file, else ~/.reelrc.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reelrc"
	}
	return filepath.Join(home, ".reelrc")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".reelrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "reel", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Source
	if v := os.Getenv("REEL_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}

	// Player
	if v := os.Getenv("REEL_PLAYER_BACKEND"); v != "" {
		cfg.Player.Backend = v
	}

	// MPV
	if v := os.Getenv("REEL_MPV_PATH"); v != "" {
		cfg.MPV.Path = v
	}
	if v := os.Getenv("REEL_MPV_SOCKET"); v != "" {
		cfg.MPV.Socket = v
	}

	// MPRIS
	if v := os.Getenv("REEL_MPRIS_PLAYER"); v != "" {
		cfg.MPRIS.Player = v
	}

	// Defaults
	if v := os.Getenv("REEL_DEFAULTS_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Defaults.Volume = f
		}
	}
	if v := os.Getenv("REEL_DEFAULTS_MUTED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Defaults.Muted = b
		}
	}

	// TUI
	if v := os.Getenv("REEL_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("REEL_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("REEL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REEL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
