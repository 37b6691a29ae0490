package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Source.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("source: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.MPV.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("mpv: %w", err))
	}
	if err := c.MPRIS.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("mpris: %w", err))
	}
	if err := c.Defaults.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks SourceConfig for errors.
func (c *SourceConfig) Validate() error {
	if c.URL != "" {
		if _, err := url.Parse(c.URL); err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
	}
	return nil
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	switch c.Backend {
	case "", "mpv", "mpris":
		// valid
	default:
		return fmt.Errorf("invalid backend: %s (must be mpv or mpris)", c.Backend)
	}
	return nil
}

// Validate checks MPVConfig for errors.
func (c *MPVConfig) Validate() error {
	if c.IPCTimeout < 0 {
		return errors.New("ipc_timeout must be non-negative")
	}
	return nil
}

// Validate checks MPRISConfig for errors.
func (c *MPRISConfig) Validate() error {
	if c.PollInterval < 0 {
		return errors.New("poll_interval must be non-negative")
	}
	return nil
}

// Validate checks DefaultsConfig for errors.
func (c *DefaultsConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 1 {
		return errors.New("volume must be between 0 and 1")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	if c.SeekStep < 0 || c.SeekStep > 100 {
		return errors.New("seek_step must be between 0 and 100")
	}
	if c.VolumeStep < 0 || c.VolumeStep > 1 {
		return errors.New("volume_step must be between 0 and 1")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "trace", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be trace, debug, info, warn, or error)", c.Level)
	}
	return nil
}
