package commands

import (
	"github.com/spf13/cobra"
)

// trashCmd represents the trash command
var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect and empty the trash",
	Long: `Deleted tasks are kept in the trash until restored with
"taskdeck task restore <id>" or removed for good with "taskdeck trash empty".`,
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trashed tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()
		if err := loadBoard(ctx); err != nil {
			return err
		}
		trash := container.Engine.Trash()
		if !formatter.IsText() {
			return formatter.Print(trash)
		}
		printer.Tasks(trash, "Trash is empty")
		return nil
	},
}

var trashEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Permanently remove every trashed task",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()
		if err := container.Client.EmptyTrash(ctx); err != nil {
			return err
		}
		container.Logger.Info("trash emptied")
		if !quiet {
			printer.Success("Trash emptied")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trashCmd)
	trashCmd.AddCommand(trashListCmd, trashEmptyCmd)
}
