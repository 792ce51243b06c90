package cli

import (
	"github.com/spf13/cobra"
)

func newCompletionCommand() *cobra.Command {
	var noDescriptions bool

	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for layoutfilter.

Completions cover subcommands, flags and the built-in names accepted by
--profile.

Bash:
  $ source <(layoutfilter completion bash)

Zsh:
  $ layoutfilter completion zsh > "${fpath[1]}/_layoutfilter"

Fish:
  $ layoutfilter completion fish > ~/.config/fish/completions/layoutfilter.fish

PowerShell:
  PS> layoutfilter completion powershell | Out-String | Invoke-Expression
`,
		// Override parent PersistentPreRunE: completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			root := cmd.Root()
			withDesc := !noDescriptions

			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, withDesc)
			case "zsh":
				if withDesc {
					return root.GenZshCompletion(w)
				}

				return root.GenZshCompletionNoDesc(w)
			case "fish":
				return root.GenFishCompletion(w, withDesc)
			case "powershell":
				if withDesc {
					return root.GenPowerShellCompletionWithDesc(w)
				}

				return root.GenPowerShellCompletion(w)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "disable completion descriptions")

	return cmd
}
