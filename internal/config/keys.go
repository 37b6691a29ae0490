package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
	kindBool
)

// keys lists every settable "section.field" and its TOML type.
var keys = map[string]kind{
	"source.url":           kindString,
	"player.backend":       kindString,
	"mpv.path":             kindString,
	"mpv.socket":           kindString,
	"mpv.loop":             kindBool,
	"mpv.ipc_timeout":      kindInt,
	"mpris.player":         kindString,
	"mpris.poll_interval":  kindInt,
	"defaults.volume":      kindFloat,
	"defaults.muted":       kindBool,
	"defaults.autoplay":    kindBool,
	"tail.emoji":           kindBool,
	"tail.timestamp":       kindBool,
	"tail.format":          kindString,
	"tui.theme":            kindString,
	"tui.refresh_interval": kindInt,
	"tui.seek_step":        kindFloat,
	"tui.volume_step":      kindFloat,
	"log.level":            kindString,
	"log.file":             kindString,
}

// Keys returns the settable keys, sorted.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseValue converts value to the type key holds in the config file.
func ParseValue(key, value string) (interface{}, error) {
	k, ok := keys[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", key)
	}

	switch k {
	case kindInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return int64(i), nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be a number for %s", key)
		}
		return f, nil
	case kindBool:
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("value must be true or false for %s", key)
	default:
		return value, nil
	}
}

// Set stores value under key in raw, a decoded config file.
func Set(raw map[string]interface{}, key, value string) error {
	typed, err := ParseValue(key, value)
	if err != nil {
		return err
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		raw[section] = sectionMap
	}
	sectionMap[field] = typed
	return nil
}
