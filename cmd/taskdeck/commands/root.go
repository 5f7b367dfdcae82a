package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"taskdeck/cmd/taskdeck/output"
	"taskdeck/internal/di"
	"taskdeck/internal/infrastructure/config"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	// Global flags
	outputFormat string
	configPath   string
	remoteURL    string
	quiet        bool

	// Set up by setup before any command runs
	cfg       *config.Config
	container *di.Container
	printer   *output.Printer
	formatter *output.Formatter

	// cancelled on Ctrl+C so a slow store call can be abandoned
	cmdCtx      context.Context
	stopSignals context.CancelFunc = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Terminal kanban board backed by a remote task store",
	Long: `taskdeck is a three-column kanban board (Todo, In Progress, Done) for the terminal.

Every change is sent to the task store first; the board only changes once the
store has accepted it. Deleted tasks go to a trash list and can be restored.

Examples:
  # Launch interactive TUI
  taskdeck

  # List high priority tasks
  taskdeck task list --priority high

  # Create, move, trash and restore
  taskdeck task create --title "Write report" --tags work,q3 --priority medium
  taskdeck task move 1a2b in-progress
  taskdeck task delete 1a2b
  taskdeck task restore 1a2b`,
	Version:           Version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	},
}

// setup builds the container from the config file and global flags
func setup(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	cmdCtx, stopSignals = signal.NotifyContext(context.Background(), os.Interrupt)
	formatter = output.NewFormatter(format, os.Stdout)
	printer = output.DefaultPrinter()

	loader := config.NewLoaderAt(configPath)
	if configPath == "" {
		if loader, err = config.NewLoader(); err != nil {
			return fmt.Errorf("failed to create config loader: %w", err)
		}
	}

	// --remote wins over both the file and the environment
	if remoteURL != "" {
		if err := os.Setenv(config.EnvRemoteURL, remoteURL); err != nil {
			return fmt.Errorf("failed to apply --remote: %w", err)
		}
	}

	container, err = di.InitializeContainer(loader)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	cfg = container.Config
	return nil
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	err := rootCmd.Execute()
	stopSignals()
	if err != nil {
		output.NewPrinter(os.Stderr).Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "Task store API root (overrides remote.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("taskdeck version {{.Version}}\n  Git commit: %s\n  Built:      %s\n", GitCommit, BuildDate))
}

// getContext returns the command context. Each store call is a single
// attempt whether or not it is cancelled.
func getContext() context.Context {
	if cmdCtx == nil {
		return context.Background()
	}
	return cmdCtx
}

// loadBoard fetches both lists so engine operations can find their tasks
func loadBoard(ctx context.Context) error {
	if err := container.Engine.Load(ctx); err != nil {
		return fmt.Errorf("failed to load tasks from %s: %w", cfg.Remote.BaseURL, err)
	}
	return nil
}
