package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd checks that the task store is reachable
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the task store",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := container.Client.Health(getContext())
		if err != nil {
			return fmt.Errorf("task store at %s is unreachable: %w", cfg.Remote.BaseURL, err)
		}
		if !formatter.IsText() {
			return formatter.Print(h)
		}
		printer.Success("%s is %s", cfg.Remote.BaseURL, h.Status)
		printer.Println("Tasks: %d  Trash: %d", h.TasksCount, h.TrashCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
