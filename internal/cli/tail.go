package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tessro/reel/internal/controller"
	"github.com/tessro/reel/internal/fullscreen"
	"github.com/tessro/reel/internal/present"
	"github.com/tessro/reel/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
)

var tailCmd = &cobra.Command{
	Use:   "tail [player|socket]",
	Short: "Follow playback changes in real-time",
	Long: `Watch a player and print playback changes as they happen. The
target is resolved like 'reel attach'. Without a target and with the mpv
backend, reel launches mpv on source.url.

Events tracked:
  - Media loaded
  - Play/Pause
  - Seeks
  - Volume changes and mute
  - Fullscreen enter/exit

Template fields for --format:
  {{.Type}} {{.Emoji}} {{.Timestamp}} {{.Time}} {{.Position}}
  {{.Duration}} {{.Percent}} {{.Volume}} {{.Muted}} {{.Playing}}
  {{.Fullscreen}}`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		s   *session
		err error
	)
	if len(args) > 0 || cfg.Player.Backend == "mpris" || cfg.MPV.Socket != "" {
		var target string
		if len(args) > 0 {
			target = args[0]
		}
		s, err = attachSession(ctx, target)
	} else {
		src, serr := resolveSource(nil)
		if serr != nil {
			return serr
		}
		s, err = launchSession(ctx, src)
	}
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	formatter := tail.NewFormatter(
		tail.WithEmoji(cfg.Tail.Emoji && !tailNoEmoji),
		tail.WithTimestamp(cfg.Tail.Timestamp || tailTimestamp),
		tail.WithTemplate(firstNonEmpty(tailFormat, cfg.Tail.Format)),
	)

	watcher := tail.NewWatcher()
	loop := controller.NewLoop(0)

	// Follow the player as it is rather than pushing the configured
	// defaults at it.
	opts := controllerOptions()
	opts.Volume = s.media.Volume()
	opts.Muted = s.media.Muted()
	opts.Autoplay = false
	opts.Executor = loop.Post
	opts.OnChange = watcher.Observe
	ctrl := controller.New(s.media, fullscreen.Default, opts)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(loop.Run(ctx))
	})
	g.Go(func() error {
		return ignoreCanceled(watcher.Start(ctx))
	})
	if s.run != nil {
		g.Go(func() error {
			return ignoreCanceled(s.run(ctx))
		})
	}

	g.Go(func() error {
		loop.Do(ctrl.Mount)
		defer loop.Do(ctrl.Unmount)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-s.done:
				loop.Stop()
				watcher.Stop()
				return nil
			case event, ok := <-watcher.Events():
				if !ok {
					return nil
				}
				if err := printEvent(formatter, event); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

func printEvent(f *tail.Formatter, e tail.Event) error {
	if !JSONOutput() {
		fmt.Println(f.Format(e))
		return nil
	}

	s := e.Current
	return printJSON(map[string]interface{}{
		"type":       e.Type.String(),
		"timestamp":  e.Timestamp,
		"played":     s.PlayedFraction,
		"duration":   s.DurationSeconds,
		"time":       present.TimeReadout(s.CurrentSeconds(), *s),
		"playing":    s.IsPlaying,
		"volume":     s.Volume,
		"muted":      s.IsMuted,
		"fullscreen": s.IsFullscreen,
	})
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
