package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dhebbeker/doxygen/pkg/dotdir"
	"github.com/dhebbeker/doxygen/pkg/pipeline"
)

// relationsCommand creates the relations command.
//
// Relations only exist for edges that some graph draws, so the command first
// computes the graph of the given directory, or of every directory.
func (c *CLI) relationsCommand() *cobra.Command {
	var (
		flags graphFlags
		pairs bool
	)

	cmd := &cobra.Command{
		Use:               "relations [dir]",
		Short:             "List the directory relations drawn as graph edges",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(nil, nil, c.Logger)

			var rels []*dotdir.Relation
			if len(args) == 1 {
				dir, err := p.Dir(args[0])
				if err != nil {
					return err
				}
				rels = runner.Graph(ctx, p, dir, cfg.GraphOptions()).Edges
			} else {
				for _, d := range p.Tree.Dirs() {
					runner.Graph(ctx, p, d, cfg.GraphOptions())
				}
				rels = p.Relations.All()
			}

			if len(rels) == 0 {
				printInfo("No relations")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, relationTable(rels))
			if pairs {
				for _, rel := range rels {
					fmt.Fprintln(out)
					fmt.Fprintln(out, StyleTitle.Render(rel.Name)+" "+StyleDim.Render(rel.Source.Path()+" "+iconArrow+" "+rel.Destination.Dir().Path()))
					fmt.Fprintln(out, pairTable(rel))
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&pairs, "pairs", false, "list the file pairs of every relation")
	return cmd
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)

func newTable(headers ...string) *table.Table {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return cell
		})
}

func relationTable(rels []*dotdir.Relation) string {
	t := newTable("Relation", "Dependent", "Dependee", "Files")
	for _, rel := range rels {
		t.Row(rel.Name, rel.Source.Path(), rel.Destination.Dir().Path(), fmt.Sprint(rel.FileCount()))
	}
	return t.Render()
}

func pairTable(rel *dotdir.Relation) string {
	t := newTable("File", "Includes", "")
	for _, fp := range rel.Destination.FilePairs() {
		var note string
		switch {
		case fp.InheritedByDependent && fp.InheritedByDependee:
			note = "inherited"
		case fp.InheritedByDependent:
			note = "from subdirectory"
		case fp.InheritedByDependee:
			note = "into subdirectory"
		}
		t.Row(fp.Source.Path, fp.Destination.Path, note)
	}
	return t.Render()
}
