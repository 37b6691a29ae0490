package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/reel/internal/config"
	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/mpris"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing reel configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  ` + strings.Join(config.Keys(), "\n  ") + `

Examples:
  reel config set source.url https://example.com/talk.mp4
  reel config set defaults.volume 0.3
  reel config set player.backend mpris`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetPlayerCmd = &cobra.Command{
	Use:   "set-player",
	Short: "Interactively select the default MPRIS player",
	Long:  `Shows a picker to select the player 'reel attach' uses by default.`,
	RunE:  runConfigSetPlayer,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetPlayerCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	fmt.Printf("# %s\n\n", getConfigPath())
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", configPath, reelerrors.ErrConfigNotFound)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := writeConfigFile(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set source.url to the video you want, or pass it to 'reel play'")
	fmt.Println("  2. Run 'reel players' to see which MPRIS players you can attach to")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.Path()
}

// writeConfigFile writes v as TOML under a header comment.
func writeConfigFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Reel Configuration")
	_, _ = fmt.Fprintln(f, "# https://github.com/tessro/reel")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", configPath, reelerrors.ErrConfigNotFound)
	}

	raw := make(map[string]interface{})
	if _, err := toml.DecodeFile(configPath, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Set(raw, key, value); err != nil {
		return err
	}

	// Reject values the loader would refuse on the next run.
	check, err := decodeRaw(raw)
	if err != nil {
		return err
	}
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %w", reelerrors.ErrInvalidConfig, err)
	}

	if err := writeConfigFile(configPath, raw); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// decodeRaw loads raw over the defaults the way a config file would be.
func decodeRaw(raw map[string]interface{}) (*config.Config, error) {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, err
	}
	c := config.Default()
	if _, err := toml.Decode(buf.String(), c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return c, nil
}

func runConfigSetPlayer(cmd *cobra.Command, args []string) error {
	conn, err := mpris.SessionBus()
	if err != nil {
		return err
	}

	found := mpris.Discover(conn)
	if len(found.Data) == 0 {
		return reelerrors.ErrNoPlayers
	}

	var options []huh.Option[string]
	for _, p := range found.Data {
		label := p.ShortName()
		if p.Identity != "" {
			label = fmt.Sprintf("%s (%s)", p.Identity, p.ShortName())
		}
		if p.Status == "Playing" {
			label += " [playing]"
		}
		options = append(options, huh.NewOption(label, p.ShortName()))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select default player").
				Description("'reel attach' uses this player when none is named").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}

	// Instance suffixes change between runs; keep the stable prefix.
	if name, _, ok := strings.Cut(selected, ".instance"); ok {
		selected = name
	}

	if _, err := os.Stat(getConfigPath()); os.IsNotExist(err) {
		if err := writeConfigFile(getConfigPath(), config.Default()); err != nil {
			return err
		}
	}
	return runConfigSet(cmd, []string{"mpris.player", selected})
}
