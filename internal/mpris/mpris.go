// Package mpris controls desktop media players over the MPRIS D-Bus
// interface.
//
// https://specifications.freedesktop.org/mpris-spec/latest/
package mpris

import (
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/lithammer/fuzzysearch/fuzzy"

	reelerrors "github.com/tessro/reel/internal/errors"
)

const (
	BusPrefix      = "org.mpris.MediaPlayer2"
	ObjectPath     = "/org/mpris/MediaPlayer2"
	RootInterface  = BusPrefix
	PlayerIface    = BusPrefix + ".Player"
	propertiesFace = "org.freedesktop.DBus.Properties"
)

// Info describes one player on the bus.
type Info struct {
	Name     string `json:"name"`
	Identity string `json:"identity"`
	Status   string `json:"status"`
}

// ShortName strips the MPRIS prefix: "org.mpris.MediaPlayer2.vlc" is "vlc".
func (i Info) ShortName() string {
	return ShortName(i.Name)
}

// ShortName strips the MPRIS bus prefix from name.
func ShortName(name string) string {
	return strings.TrimPrefix(name, BusPrefix+".")
}

// FullName expands a short player name to its bus name.
func FullName(name string) string {
	if strings.HasPrefix(name, BusPrefix+".") {
		return name
	}
	return BusPrefix + "." + name
}

// SessionBus connects to the session bus.
func SessionBus() (*dbus.Conn, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reelerrors.ErrNoSessionBus, err)
	}
	return conn, nil
}

// Names returns the bus names of MPRIS players on conn, sorted.
func Names(conn *dbus.Conn) ([]string, error) {
	var names []string
	err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}

	dests := filterPlayers(names)
	if len(dests) == 0 {
		return nil, reelerrors.ErrNoPlayers
	}
	return dests, nil
}

// Discover returns the players on conn with their identity and status. A
// player that fails to answer is still listed; its error is collected.
func Discover(conn *dbus.Conn) reelerrors.PartialResult[[]Info] {
	var result reelerrors.PartialResult[[]Info]

	names, err := Names(conn)
	if err != nil {
		result.AddError(err)
		return result
	}

	for _, name := range names {
		info := Info{Name: name}
		obj := conn.Object(name, ObjectPath)

		if v, err := obj.GetProperty(RootInterface + ".Identity"); err == nil {
			info.Identity, _ = v.Value().(string)
		} else {
			result.AddError(fmt.Errorf("%s: %w", ShortName(name), err))
		}
		if v, err := obj.GetProperty(PlayerIface + ".PlaybackStatus"); err == nil {
			info.Status, _ = v.Value().(string)
		}

		result.Data = append(result.Data, info)
	}
	return result
}

// Find returns the bus name of the player matching name, which may be a
// short name, a full bus name, or a prefix such as "vlc" for
// "org.mpris.MediaPlayer2.vlc.instance42".
func Find(conn *dbus.Conn, name string) (string, error) {
	names, err := Names(conn)
	if err != nil {
		return "", err
	}
	return match(names, name)
}

func filterPlayers(names []string) []string {
	var dests []string
	for _, name := range names {
		if strings.HasPrefix(name, BusPrefix+".") {
			dests = append(dests, name)
		}
	}
	sort.Strings(dests)
	return dests
}

func shortNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = ShortName(n)
	}
	return out
}

func match(names []string, name string) (string, error) {
	full := FullName(name)
	for _, n := range names {
		if n == full {
			return n, nil
		}
	}
	for _, n := range names {
		if strings.HasPrefix(n, full+".") {
			return n, nil
		}
	}

	// Loose matches only count when they are unambiguous.
	loose := fuzzy.FindFold(name, shortNames(names))
	if len(loose) == 1 {
		return FullName(loose[0]), nil
	}
	if len(loose) > 1 {
		return "", fmt.Errorf("%s matches %s: %w", name, strings.Join(loose, ", "), reelerrors.ErrPlayerNotFound)
	}
	return "", fmt.Errorf("%s: %w", name, reelerrors.ErrPlayerNotFound)
}
