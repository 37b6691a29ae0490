package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tessro/reel/internal/config"
	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/logging"
	"github.com/tessro/reel/internal/wizard"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg      *config.Config
	log      *logrus.Logger
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Drive a video player from a terminal transport bar",
	Long: `Reel puts play, seek, volume, mute and fullscreen controls for a video
player in your terminal. It launches mpv, or attaches to a running mpv
or any MPRIS player, and keeps the controls in sync with what the player
actually does.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.reelrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", reelerrors.ErrInvalidConfig, err)
	}

	logCfg := cfg.Log
	if verbose && logCfg.Level != "trace" {
		logCfg.Level = "debug"
	}
	var fallback io.Writer
	if verbose {
		fallback = os.Stderr
	}
	log, closeLog, err = logging.Setup(logCfg, fallback, jsonOut)
	if err != nil {
		return err
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if wizard.IsTerminal() {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, reelerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
