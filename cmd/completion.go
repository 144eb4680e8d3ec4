package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for peer.

To load completions:

Bash:
  $ source <(peer completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ peer completion bash > /etc/bash_completion.d/peer
  # macOS:
  $ peer completion bash > $(brew --prefix)/etc/bash_completion.d/peer

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ peer completion zsh > "${fpath[1]}/_peer"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ peer completion fish | source

  # To load completions for each session, execute once:
  $ peer completion fish > ~/.config/fish/completions/peer.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCompletion(cmd.Root(), args[0], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}
