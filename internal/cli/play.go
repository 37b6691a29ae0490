package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tessro/reel/internal/fullscreen"
	"github.com/tessro/reel/internal/tui"
)

var (
	playPaused bool
	playMuted  bool
	playVolume float64
	playNoLoop bool
)

var playCmd = &cobra.Command{
	Use:   "play [url|file]",
	Short: "Launch mpv and control it",
	Long: `Launch mpv on a URL or local file and show the transport bar.
Without arguments, plays source.url from the config.

Examples:
  reel play                                 # Play the configured source
  reel play ~/Videos/talk.mkv               # Play a local file
  reel play --paused https://example.com/a.mp4
  reel play --muted --volume 0.2 clip.webm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playPaused, "paused", false, "Start paused")
	playCmd.Flags().BoolVar(&playMuted, "muted", false, "Start muted")
	playCmd.Flags().Float64Var(&playVolume, "volume", -1, "Initial volume (0-1)")
	playCmd.Flags().BoolVar(&playNoLoop, "no-loop", false, "Stop at the end instead of looping")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	src, err := resolveSource(args)
	if err != nil {
		return err
	}

	if playPaused {
		cfg.Defaults.Autoplay = false
	}
	if playMuted {
		cfg.Defaults.Muted = true
	}
	if playVolume >= 0 {
		cfg.Defaults.Volume = playVolume
	}
	if playNoLoop {
		cfg.MPV.Loop = false
	}

	s, err := launchSession(cmd.Context(), src)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return runUI(cmd.Context(), s)
}

// runUI shows the transport bar over s until the user quits or the player
// goes away.
func runUI(ctx context.Context, s *session) error {
	opts := tui.Options{
		Title:           s.title,
		RefreshInterval: ms(cfg.TUI.RefreshInterval),
		SeekStep:        cfg.TUI.SeekStep,
		VolumeStep:      cfg.TUI.VolumeStep,
		Theme:           cfg.TUI.Theme,
		Done:            s.done,
		Controller:      controllerOptions(),
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx, stop := context.WithCancel(ctx)

	if s.run != nil {
		g.Go(func() error {
			err := s.run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		defer stop()
		err := tui.Run(ctx, s.media, fullscreen.Default, opts)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return g.Wait()
}
