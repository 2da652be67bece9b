package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhebbeker/doxygen/pkg/config"
	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/pipeline"
	"github.com/dhebbeker/doxygen/pkg/render"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	graphFlags
	formats string // comma-separated output formats
	output  string // output directory; empty writes a lone dot graph to stdout
	noCache bool   // disable the artifact cache
	refresh bool   // re-render even when cached
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Draw the dependency graph of one directory",
		Long: `Draw the dependency graph of one directory.

The directory is given by path or ID. Without an argument an interactive
picker lists the directories of the project.

With -f dot and no -o the DOT text is written to stdout.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runGraph(cmd, args, cfg, &opts)
		},
	}

	opts.graphFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render cached artifacts")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, args []string, cfg config.Config, opts *graphOpts) error {
	ctx := cmd.Context()
	formats := parseFormats(opts.formats)
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}

	p, err := c.loadProject(ctx)
	if err != nil {
		return err
	}
	dir, err := selectDir(p, args)
	if err != nil || dir == nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{Graph: cfg.GraphOptions(), Formats: formats, Refresh: opts.refresh}
	toStdout := opts.output == "" && len(formats) == 1 && formats[0] == render.FormatDOT
	if toStdout {
		res, err := runner.Execute(ctx, p, dir, popts)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(res.Artifacts[render.FormatDOT])
		return err
	}

	res, err := executeWithSpinner(ctx, "Rendering "+dir.Path()+"...", func(ctx context.Context) (*pipeline.Result, error) {
		return runner.Execute(ctx, p, dir, popts)
	})
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = "."
	}
	paths, err := pipeline.WriteArtifacts(out, res)
	if err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	printSuccess("Graph of %s", StyleHighlight.Render(dir.Path()))
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.RenderHit)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// selectDir resolves the directory argument, or asks interactively when none
// is given. It returns nil without error when the picker was cancelled.
func selectDir(p *pipeline.Project, args []string) (*dirtree.Dir, error) {
	if len(args) == 1 {
		return p.Dir(args[0])
	}
	dir, err := pickDir(p.Tree)
	if err != nil {
		return nil, err
	}
	if dir == nil {
		printInfo("No directory selected")
	}
	return dir, nil
}

// executeWithSpinner runs fn while a spinner is shown on stderr.
func executeWithSpinner(ctx context.Context, msg string, fn func(context.Context) (*pipeline.Result, error)) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, msg, 0)
	spinner.Start()
	res, err := fn(ctx)
	if err != nil {
		spinner.StopWithError(ExitMessage(err))
		return nil, err
	}
	spinner.Stop()
	return res, nil
}
