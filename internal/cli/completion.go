package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// flagValues lists the fixed values of the graph flags for completion.
var flagValues = map[string][]string{
	"order":       {"chrono\tnewest first, children above parents", "topo\tkeep each line of history together"},
	"style":       {"rounded\tcurved corners", "angular\tdiagonal corners"},
	"graph-width": {"auto\tdouble if the terminal is wide enough", "double\ttwo columns per lane", "single\tone column per lane"},
	"protocol":    {"auto\tdetect from the terminal", "iterm\tiTerm2 inline images", "kitty\tkitty graphics"},
}

// registerCompletions adds value completion to the graph flags of cmd that
// exist; --input completes JSON files.
func registerCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("input") != nil {
		_ = cmd.MarkFlagFilename("input", "json")
	}
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lanegraph. Besides commands and
flags, the scripts complete the values of --order, --style, --graph-width and
--protocol, and JSON files for --input.

Bash:
  $ source <(lanegraph completion bash)

Zsh:
  $ lanegraph completion zsh > "${fpath[1]}/_lanegraph"

Fish:
  $ lanegraph completion fish > ~/.config/fish/completions/lanegraph.fish

PowerShell:
  PS> lanegraph completion powershell | Out-String | Invoke-Expression

Start a new shell for the setup to take effect.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}

	return cmd
}
