package commands

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
)

// completionTimeout bounds the store round trip made while the shell waits
const completionTimeout = 2 * time.Second

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for taskdeck.

Task ids are completed from the live store, so the store must be reachable
for id completion to work.

Bash:
  $ source <(taskdeck completion bash)

Zsh:
  $ taskdeck completion zsh > "${fpath[1]}/_taskdeck"

Fish:
  $ taskdeck completion fish > ~/.config/fish/completions/taskdeck.fish

PowerShell:
  PS> taskdeck completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		default:
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}

// completeTasks offers active task ids, described by their titles
func completeTasks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeFrom(toComplete, func() []entity.Task { return container.Engine.Tasks() })
}

// completeTrash offers trashed task ids
func completeTrash(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeFrom(toComplete, func() []entity.Task { return container.Engine.Trash() })
}

// completeMove offers an active id first, then a status
func completeMove(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeTasks(cmd, args, toComplete)
	case 1:
		return statusNames(), cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeFrom(prefix string, list func() []entity.Task) ([]string, cobra.ShellCompDirective) {
	if container == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()
	if err := container.Engine.Load(ctx); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveError
	}

	var out []string
	for _, t := range list() {
		if strings.HasPrefix(t.ID, prefix) {
			out = append(out, t.ID+"\t"+t.Title)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func statusNames() []string {
	out := make([]string, 0, 3)
	for _, s := range valueobject.Statuses() {
		out = append(out, string(s))
	}
	return out
}

func priorityNames() []string {
	out := make([]string, 0, 3)
	for _, p := range valueobject.Priorities() {
		out = append(out, string(p))
	}
	return out
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerCompletions hooks the completion functions onto commands and flags.
// It runs after the flags are defined.
func registerCompletions() {
	taskShowCmd.ValidArgsFunction = completeTasks
	taskUpdateCmd.ValidArgsFunction = completeTasks
	taskDeleteCmd.ValidArgsFunction = completeTasks
	taskMoveCmd.ValidArgsFunction = completeMove
	taskRestoreCmd.ValidArgsFunction = completeTrash

	filters := append([]string{string(valueobject.FilterAll)}, priorityNames()...)
	for cmd, flags := range map[*cobra.Command]map[string][]string{
		taskListCmd:   {"priority": filters, "status": statusNames()},
		taskCreateCmd: {"priority": priorityNames(), "status": statusNames()},
		taskUpdateCmd: {"priority": priorityNames(), "status": statusNames()},
	} {
		for name, values := range flags {
			_ = cmd.RegisterFlagCompletionFunc(name, fixedCompletion(values))
		}
	}
	_ = rootCmd.RegisterFlagCompletionFunc("output", fixedCompletion([]string{"text", "json", "yaml"}))
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
