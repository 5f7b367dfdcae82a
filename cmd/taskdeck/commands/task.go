package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
)

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long: `Create, update, move, delete and restore tasks.

Each task has an id assigned by the store, a title, tags, a priority
(low, medium, high), an optional due date, a status (todo, in-progress, done)
and a checklist of subtasks.`,
}

// taskListCmd lists tasks
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List active tasks in board order, optionally filtered.

--search matches a case-insensitive substring of the title or any tag.

Examples:
  taskdeck task list
  taskdeck task list --search report --priority high
  taskdeck task list --status in-progress --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()

		search, _ := cmd.Flags().GetString("search")
		priorityStr, _ := cmd.Flags().GetString("priority")
		statusStr, _ := cmd.Flags().GetString("status")

		pf, err := valueobject.ParsePriorityFilter(priorityStr)
		if err != nil {
			return err
		}
		statuses := valueobject.Statuses()
		if statusStr != "" {
			status, err := valueobject.ParseStatus(statusStr)
			if err != nil {
				return err
			}
			statuses = []valueobject.Status{status}
		}

		if err := loadBoard(ctx); err != nil {
			return err
		}

		view := container.Engine.View(search, pf)
		tasks := make([]entity.Task, 0, view.Count())
		for _, s := range statuses {
			tasks = append(tasks, view.For(s)...)
		}

		if !formatter.IsText() {
			return formatter.Print(tasks)
		}
		printer.Tasks(tasks, "No tasks found")
		return nil
	},
}

// taskShowCmd shows one task
var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()
		if err := loadBoard(ctx); err != nil {
			return err
		}
		task, err := container.Engine.Task(args[0])
		if err != nil {
			return err
		}
		return printTask(task)
	},
}

// taskCreateCmd creates a task
var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	Long: `Create a new task. The store assigns the id.

Examples:
  taskdeck task create --title "Write report"
  taskdeck task create --title "Release" --tags work,ops --priority high --due 2026-11-01 \
      --subtask "tag build" --subtask "publish notes"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()

		draft := entity.NewDraft()
		draft.Title, _ = cmd.Flags().GetString("title")
		tags, _ := cmd.Flags().GetString("tags")
		draft.SetTags(tags)
		draft.Due, _ = cmd.Flags().GetString("due")

		priorityStr, _ := cmd.Flags().GetString("priority")
		priority, err := valueobject.ParsePriority(priorityStr)
		if err != nil {
			return err
		}
		draft.Priority = priority

		statusStr, _ := cmd.Flags().GetString("status")
		status, err := valueobject.ParseStatus(statusStr)
		if err != nil {
			return err
		}
		draft.Status = status

		subtasks, _ := cmd.Flags().GetStringArray("subtask")
		for _, text := range subtasks {
			draft.AddSubtask(text)
		}

		if err := loadBoard(ctx); err != nil {
			return err
		}
		task, err := container.Engine.CreateTask(ctx, draft)
		if err != nil {
			return err
		}

		if !quiet && formatter.IsText() {
			printer.Success("Task created: %s", task.ID)
		}
		return printTask(task)
	},
}

// taskUpdateCmd updates the fields of a task that were given on the command line
var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update a task",
	Long: `Update selected fields of a task. Only flags that are set are sent.

--subtask replaces the whole checklist; pass --clear-subtasks to empty it.
--tags "" clears the tags.

Examples:
  taskdeck task update 1a2b --priority high
  taskdeck task update 1a2b --title "New title" --tags a,b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()
		id := args[0]

		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}

		if err := loadBoard(ctx); err != nil {
			return err
		}
		task, err := container.Engine.UpdateTask(ctx, id, patch)
		if err != nil {
			return err
		}

		if !quiet && formatter.IsText() {
			printer.Success("Task updated: %s", task.ID)
		}
		return printTask(task)
	},
}

// taskMoveCmd moves a task to another column
var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Move a task to another column",
	Long: `Move a task to todo, in-progress or done. Any transition is allowed.

Examples:
  taskdeck task move 1a2b in-progress
  taskdeck task move 1a2b done`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()

		status, err := valueobject.ParseStatus(args[1])
		if err != nil {
			return err
		}
		if err := loadBoard(ctx); err != nil {
			return err
		}
		task, err := container.Engine.MoveTask(ctx, args[0], status)
		if err != nil {
			return err
		}

		if !quiet && formatter.IsText() {
			printer.Success("Moved %s to %s", task.ID, task.Status.Label())
			return nil
		}
		return printTask(task)
	},
}

// taskDeleteCmd soft-deletes a task
var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Move a task to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()
		id := args[0]

		if err := loadBoard(ctx); err != nil {
			return err
		}
		if err := container.Engine.DeleteTask(ctx, id); err != nil {
			warnReconciliation(err)
			return err
		}

		if !quiet {
			printer.Success("Moved %s to trash", id)
		}
		return nil
	},
}

// taskRestoreCmd restores a task from the trash
var taskRestoreCmd = &cobra.Command{
	Use:   "restore <task-id>",
	Short: "Restore a task from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()

		if err := loadBoard(ctx); err != nil {
			return err
		}
		task, err := container.Engine.RestoreTask(ctx, args[0])
		if err != nil {
			warnReconciliation(err)
			return err
		}

		if !quiet && formatter.IsText() {
			printer.Success("Restored %s as %s", args[0], task.ID)
			return nil
		}
		return printTask(task)
	},
}

func patchFromFlags(cmd *cobra.Command) (entity.TaskPatch, error) {
	var patch entity.TaskPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		patch.Title = &title
	}
	if flags.Changed("tags") {
		tags, _ := flags.GetString("tags")
		patch.Tags = entity.ParseTags(tags)
	}
	if flags.Changed("priority") {
		s, _ := flags.GetString("priority")
		p, err := valueobject.ParsePriority(s)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if flags.Changed("due") {
		due, _ := flags.GetString("due")
		patch.Due = &due
	}
	if flags.Changed("status") {
		s, _ := flags.GetString("status")
		st, err := valueobject.ParseStatus(s)
		if err != nil {
			return patch, err
		}
		patch.Status = &st
	}

	clearSubtasks, _ := flags.GetBool("clear-subtasks")
	if flags.Changed("subtask") || clearSubtasks {
		texts, _ := flags.GetStringArray("subtask")
		patch.Subtasks = make([]entity.Subtask, 0, len(texts))
		for _, text := range texts {
			patch.Subtasks = append(patch.Subtasks, entity.Subtask{Text: text})
		}
	}

	return patch, patch.Validate()
}

func printTask(task entity.Task) error {
	if formatter.IsText() {
		if !quiet {
			printer.Task(task)
		}
		return nil
	}
	return formatter.Print(task)
}

func warnReconciliation(err error) {
	var rec *entity.ReconciliationError
	if errors.As(err, &rec) {
		printer.Warning("task %s is now in neither list on the store; it needs manual reconciliation (%s failed)", rec.TaskID, rec.Step)
	}
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskCreateCmd, taskUpdateCmd, taskMoveCmd, taskDeleteCmd, taskRestoreCmd)

	taskListCmd.Flags().String("search", "", "Filter by title or tag substring")
	taskListCmd.Flags().String("priority", "all", "Filter by priority: all, low, medium, high")
	taskListCmd.Flags().String("status", "", "Only list one column: todo, in-progress, done")

	taskCreateCmd.Flags().String("title", "", "Task title (required)")
	taskCreateCmd.Flags().String("tags", "", "Comma separated tags")
	taskCreateCmd.Flags().String("priority", string(valueobject.PriorityLow), "Priority: low, medium, high")
	taskCreateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	taskCreateCmd.Flags().String("status", string(valueobject.StatusTodo), "Initial column: todo, in-progress, done")
	taskCreateCmd.Flags().StringArray("subtask", nil, "Subtask text (repeatable)")
	taskCreateCmd.MarkFlagRequired("title")

	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().String("tags", "", "Comma separated tags (replaces existing)")
	taskUpdateCmd.Flags().String("priority", "", "Priority: low, medium, high")
	taskUpdateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD, empty clears)")
	taskUpdateCmd.Flags().String("status", "", "Column: todo, in-progress, done")
	taskUpdateCmd.Flags().StringArray("subtask", nil, "Subtask text (repeatable, replaces the checklist)")
	taskUpdateCmd.Flags().Bool("clear-subtasks", false, "Remove every subtask")

	registerCompletions()
}
