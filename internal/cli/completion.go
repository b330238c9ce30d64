package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for roomgrid.

To load completions:

Bash:
  $ source <(roomgrid completion bash)

  # Every session:
  $ roomgrid completion bash > /etc/bash_completion.d/roomgrid

Zsh:
  # compinit must be enabled in ~/.zshrc
  $ roomgrid completion zsh > "${fpath[1]}/_roomgrid"

Fish:
  $ roomgrid completion fish | source
  $ roomgrid completion fish > ~/.config/fish/completions/roomgrid.fish

PowerShell:
  PS> roomgrid completion powershell | Out-String | Invoke-Expression
`,
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
			return nil
		},
	}

	return cmd
}
