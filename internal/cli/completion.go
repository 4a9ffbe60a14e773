package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for riverlabel.

To load completions:

Bash:
  $ source <(riverlabel completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ riverlabel completion bash > /etc/bash_completion.d/riverlabel
  # macOS:
  $ riverlabel completion bash > $(brew --prefix)/etc/bash_completion.d/riverlabel

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ riverlabel completion zsh > "${fpath[1]}/_riverlabel"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ riverlabel completion fish | source

  # To load completions for each session, execute once:
  $ riverlabel completion fish > ~/.config/fish/completions/riverlabel.fish

PowerShell:
  PS> riverlabel completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> riverlabel completion powershell > riverlabel.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
