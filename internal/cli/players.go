package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/mpris"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List MPRIS players on the session bus",
	Long:  `Lists the media players that can be controlled with 'reel attach'.`,
	RunE:  runPlayers,
}

func init() {
	rootCmd.AddCommand(playersCmd)
}

func runPlayers(cmd *cobra.Command, args []string) error {
	conn, err := mpris.SessionBus()
	if err != nil {
		return err
	}

	found := mpris.Discover(conn)
	players := found.Data
	for _, err := range found.Errors {
		if errors.Is(err, reelerrors.ErrNoPlayers) {
			continue
		}
		if Verbose() {
			warn("%v", err)
		}
	}

	if JSONOutput() {
		if players == nil {
			players = []mpris.Info{}
		}
		return printJSON(players)
	}

	if len(players) == 0 {
		fmt.Println("No players found")
		return nil
	}

	t := NewTable("", "NAME", "IDENTITY", "STATUS")
	for _, p := range players {
		t.Row(StatusIcon(p.Status == "Playing"), p.ShortName(), TruncateString(p.Identity, 32), p.Status)
	}
	t.Flush()

	if found.HasErrors() && !Verbose() {
		fmt.Printf("\n%d player(s) did not answer; use -v for details\n", len(found.Errors))
	}
	return nil
}
