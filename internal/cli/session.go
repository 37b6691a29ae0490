package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/tessro/reel/internal/controller"
	"github.com/tessro/reel/internal/core"
	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/fullscreen"
	"github.com/tessro/reel/internal/mpris"
	"github.com/tessro/reel/internal/mpv"
	"github.com/tessro/reel/internal/wizard"
)

// session is a media primitive ready to be controlled.
type session struct {
	media core.Media
	title string

	// done is closed when the player goes away.
	done <-chan struct{}
	// run, when set, must run for as long as the session is in use.
	run   func(ctx context.Context) error
	close func() error
}

func (s *session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func launchOptions() mpv.LaunchOptions {
	return mpv.LaunchOptions{
		Path:    cfg.MPV.Path,
		Socket:  cfg.MPV.Socket,
		Args:    cfg.MPV.Args,
		Loop:    cfg.MPV.Loop,
		Paused:  !cfg.Defaults.Autoplay,
		Timeout: ms(cfg.MPV.IPCTimeout),
	}
}

func controllerOptions() controller.Options {
	return controller.Options{
		Volume:   cfg.Defaults.Volume,
		Muted:    cfg.Defaults.Muted,
		Autoplay: cfg.Defaults.Autoplay,
		Logger:   log,
	}
}

// resolveSource picks the stream to play: the argument, else the
// configured source.
func resolveSource(args []string) (core.Source, error) {
	location := cfg.Source.URL
	if len(args) > 0 {
		location = args[0]
	}
	if location == "" {
		return core.Source{}, reelerrors.ErrNoSource
	}
	return core.ParseSource(location)
}

// launchSession starts mpv on src.
func launchSession(ctx context.Context, src core.Source) (*session, error) {
	proc, player, err := mpv.Open(ctx, src, launchOptions(), fullscreen.Default, log)
	if err != nil {
		return nil, err
	}
	log.WithField("socket", proc.Socket()).Debug("mpv started")

	return &session{
		media: player,
		title: filepath.Base(src.Location),
		done:  player.Done(),
		close: func() error {
			err := proc.Close(player.Client())
			_ = player.Close()
			return err
		},
	}, nil
}

// attachSession connects to an existing player. target is an mpv IPC
// socket path or an MPRIS player name; empty means the configured MPRIS
// player, or a pick from those running.
func attachSession(ctx context.Context, target string) (*session, error) {
	if target == "" && cfg.MPV.Socket != "" && cfg.Player.Backend == "mpv" {
		target = cfg.MPV.Socket
	}
	if mpv.IsSocketPath(target) {
		return attachMPV(ctx, target)
	}
	if target == "" {
		target = cfg.MPRIS.Player
	}
	return attachMPRIS(target)
}

func attachMPV(ctx context.Context, socket string) (*session, error) {
	client, err := mpv.Dial(ctx, socket, ms(cfg.MPV.IPCTimeout))
	if err != nil {
		return nil, err
	}
	player, err := mpv.NewPlayer(client, fullscreen.Default, log)
	if err != nil {
		client.Close()
		return nil, err
	}

	title := "mpv"
	var mediaTitle string
	if err := client.Get("media-title", &mediaTitle); err == nil && mediaTitle != "" {
		title = mediaTitle
	}

	return &session{
		media: player,
		title: title,
		done:  player.Done(),
		close: player.Close,
	}, nil
}

func attachMPRIS(name string) (*session, error) {
	conn, err := mpris.SessionBus()
	if err != nil {
		return nil, err
	}

	busName, err := pickMPRIS(conn, name)
	if err != nil {
		return nil, err
	}

	player, err := mpris.Connect(conn, busName, mpris.Options{
		PollInterval: ms(cfg.MPRIS.PollInterval),
		Notifier:     fullscreen.Default,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	return &session{
		media: player.Media(),
		title: mpris.ShortName(busName),
		done:  done,
		run: func(ctx context.Context) error {
			defer close(done)
			return player.Run(ctx)
		},
		close: player.Close,
	}, nil
}

// pickMPRIS resolves name to a bus name. Without a name it takes the
// obvious player, or asks when several are running.
func pickMPRIS(conn *dbus.Conn, name string) (string, error) {
	if name != "" {
		return mpris.Find(conn, name)
	}

	found := mpris.Discover(conn)
	for _, err := range found.Errors {
		log.WithError(err).Debug("player discovery")
	}
	if len(found.Data) == 0 {
		return "", reelerrors.ErrNoPlayers
	}

	if p, ok := wizard.PickPlayer(found.Data).Get(); ok {
		return p.Name, nil
	}

	picker := wizard.NewInteractive()
	picker.SetEnabled(!JSONOutput())
	picker.SetPlayers(found.Data)
	picked, err := picker.PromptPlayer()
	if err != nil {
		return "", err
	}
	if picked == nil {
		return "", fmt.Errorf("%d players running; name one: %w", len(found.Data), reelerrors.ErrPlayerNotFound)
	}
	return picked.Name, nil
}
