package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskdeck/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal user interface",
	Long: `Launch the interactive TUI for the task board.

Keyboard shortcuts (configurable under keybindings):
  ←/h →/l    - Move between columns
  ↑/k ↓/j    - Move between tasks
  space/m    - Pick up the focused task; ←/→ carry it, enter drops, esc cancels
  a          - Add a task to the focused column
  e/enter    - Edit the focused task
  d          - Move the focused task to the trash
  t          - Open the trash (r restores)
  /          - Search titles and tags
  p          - Cycle the priority filter
  T          - Toggle dark/light theme
  R          - Reload from the store
  q/Ctrl+C   - Quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		container.Logger.WithField("remote", cfg.Remote.BaseURL).Info("starting tui")

		m := tui.NewModel(container)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
