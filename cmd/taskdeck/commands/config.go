package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskdeck/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change configuration",
	Long: `Inspect and change taskdeck configuration.

The YAML file lives at ~/.config/taskdeck/config.yml unless --config is given
and is written with defaults on first run. These environment variables take
precedence over the file:
  TASKDECK_REMOTE_URL   remote.base_url
  TASKDECK_LISTEN_ADDR  server.listen_addr
  TASKDECK_DATA_DIR     server.data_dir
  TASKDECK_LOG_LEVEL    log.level`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return formatter.Print(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return formatter.Print(container.Loader.GetConfigPath())
	},
}

// configThemeCmd sets the TUI theme, the same setting the T key toggles
var configThemeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the TUI theme",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{config.ThemeDark, config.ThemeLight},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return formatter.Print(cfg.TUI.Theme)
		}

		// Save the file contents, not the env-overridden effective config
		stored, err := container.Loader.LoadFile()
		if err != nil {
			return err
		}
		stored.TUI.Theme = args[0]
		if err := container.Loader.Save(stored); err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
		if !quiet {
			printer.Success("Theme set to %s", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd, configThemeCmd)
}
