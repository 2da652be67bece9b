package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/dotdir"
)

// treeCommand creates the tree command, which prints the directory tree.
func (c *CLI) treeCommand() *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the directory tree of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDirTree(c.manifest, p.Tree, showIDs))

			st := p.Tree.Stats()
			printDetail("%d directories, %d files, %d includes (%d external), %d used directories",
				st.Dirs, st.Files, st.Includes, st.ExternalIncludes, st.UsedDirs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "show directory IDs")
	return cmd
}

// renderDirTree draws every root of t below a node named title.
func renderDirTree(title string, t *dirtree.Tree, showIDs bool) string {
	root := tree.Root(StyleTitle.Render(title)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(lipgloss.NewStyle().Foreground(colorDim))
	for _, d := range t.Roots() {
		root.Child(dirNode(d, showIDs))
	}
	return root.String()
}

func dirNode(d *dirtree.Dir, showIDs bool) any {
	label := dirLabel(d, showIDs)
	if !d.IsCluster() {
		return label
	}
	node := tree.Root(label)
	for _, c := range d.Children() {
		node.Child(dirNode(c, showIDs))
	}
	return node
}

func dirLabel(d *dirtree.Dir, showIDs bool) string {
	label := StyleValue.Render(d.ShortName())
	if n := len(d.Files()); n > 0 {
		label += StyleDim.Render(fmt.Sprintf(" %d files", n))
	}
	if n := len(d.UsedDirs()); n > 0 {
		label += " " + StyleNumber.Render(fmt.Sprintf("uses %d", n))
	}
	if dotdir.IsTrivial(d) {
		label += " " + StyleDim.Render("(trivial)")
	}
	if showIDs {
		label += " " + StyleDim.Render(d.ID())
	}
	return label
}
