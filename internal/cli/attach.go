package cli

import (
	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach [player|socket]",
	Short: "Control a player that is already running",
	Long: `Attach the transport bar to a running player.

The target is either the path of an mpv IPC socket (start mpv with
--input-ipc-server=PATH) or the name of an MPRIS player. Without a
target, reel uses mpris.player from the config, the only running
player, the only one playing, or asks.

Examples:
  reel attach                      # Pick a running MPRIS player
  reel attach vlc                  # Attach to VLC over MPRIS
  reel attach /tmp/mpv.sock        # Attach to mpv over its IPC socket`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
}

func runAttach(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) > 0 {
		target = args[0]
	}

	s, err := attachSession(cmd.Context(), target)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return runUI(cmd.Context(), s)
}
