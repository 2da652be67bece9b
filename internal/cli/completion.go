package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhebbeker/doxygen/pkg/manifest"
)

// completionCommand creates the completion command for shell autocompletion.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for dirdeps.

Directory arguments of graph and relations complete to the directory paths
of the manifest selected with -m.

  bash:        source <(dirdeps completion bash)
  zsh:         dirdeps completion zsh > "${fpath[1]}/_dirdeps"
  fish:        dirdeps completion fish | source
  powershell:  dirdeps completion powershell | Out-String | Invoke-Expression`,
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
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeDirs completes a single directory argument from the manifest.
// Only the path segment being typed is offered, so nested directories unfold
// one level at a time.
func (c *CLI) completeDirs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	tree, err := manifest.LoadTree(c.manifest)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	seen := make(map[string]bool)
	var out []string
	for _, d := range tree.Dirs() {
		p := d.Path()
		if !strings.HasPrefix(p, toComplete) {
			continue
		}
		if i := strings.IndexByte(p[len(toComplete):], '/'); i >= 0 {
			p = p[:len(toComplete)+i+1]
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
