package core

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Source locates the media stream a player should load.
type Source struct {
	Location string `json:"location"`
}

// ParseSource accepts a URL or a local file path.
func ParseSource(location string) (Source, error) {
	if location == "" {
		return Source{}, fmt.Errorf("empty source")
	}
	u, err := url.Parse(location)
	if err == nil && u.Scheme != "" && u.Host != "" {
		return Source{Location: location}, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return Source{}, fmt.Errorf("resolve source %q: %w", location, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return Source{}, fmt.Errorf("source %q: %w", location, err)
	}
	return Source{Location: abs}, nil
}

// IsRemote returns true for network streams.
func (s Source) IsRemote() bool {
	u, err := url.Parse(s.Location)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (s Source) String() string {
	return s.Location
}
