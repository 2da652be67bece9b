package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhebbeker/doxygen/pkg/dotdir"
	"github.com/dhebbeker/doxygen/pkg/pipeline"
	"github.com/dhebbeker/doxygen/pkg/render"
)

// allOpts holds the command-line flags for the all command.
type allOpts struct {
	graphFlags
	formats        string
	output         string
	jobs           int
	includeTrivial bool
	relationPages  bool
	noCache        bool
	refresh        bool
}

// allCommand creates the all command, which renders every directory.
func (c *CLI) allCommand() *cobra.Command {
	opts := allOpts{output: "dirdeps-out"}

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Draw the dependency graph of every directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("jobs") {
				cfg.Concurrency = opts.jobs
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			formats := parseFormats(opts.formats)
			for _, f := range formats {
				if err := render.ValidateFormat(f); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var written int
			var writeErr error
			pending := 0
			for _, d := range p.Tree.Dirs() {
				if opts.includeTrivial || !dotdir.IsTrivial(d) {
					pending++
				}
			}
			spinner := newSpinner(ctx, "Rendering directories", pending)
			spinner.Start()
			batch, err := runner.RenderAll(ctx, p, pipeline.BatchOptions{
				Options:        pipeline.Options{Graph: cfg.GraphOptions(), Formats: formats, Refresh: opts.refresh},
				IncludeTrivial: opts.includeTrivial,
				Concurrency:    cfg.Concurrency,
				OnResult: func(res *pipeline.Result) {
					spinner.Advance()
					if writeErr != nil {
						return
					}
					paths, err := pipeline.WriteArtifacts(opts.output, res)
					written += len(paths)
					if err != nil {
						writeErr = err
						return
					}
					logger.Debug("wrote graph", "dir", res.Dir.Path(), "files", len(paths))
				},
			})
			if err != nil {
				spinner.StopWithError("Rendering failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Rendered %s graphs in %s",
				StyleNumber.Render(fmt.Sprint(len(batch.Results))), batch.Duration.Round(time.Millisecond)))
			if writeErr != nil {
				return fmt.Errorf("write artifacts: %w", writeErr)
			}

			if opts.relationPages {
				n, err := pipeline.WriteRelationPages(opts.output, p.Relations.All(), cfg.FileExtension)
				if err != nil {
					return fmt.Errorf("write relation pages: %w", err)
				}
				written += n
			}

			printDetail("%d trivial directories skipped, %d relations, %d files written", len(batch.Skipped), p.Relations.Len(), written)
			printDetail("batch %s", batch.ID)
			abs, err := filepath.Abs(opts.output)
			if err != nil {
				abs = opts.output
			}
			printFile(abs)
			return nil
		},
	}

	opts.graphFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "parallel renders (overrides concurrency)")
	cmd.Flags().BoolVar(&opts.includeTrivial, "include-trivial", false, "also render directories without dependencies or children")
	cmd.Flags().BoolVar(&opts.relationPages, "relation-pages", false, "write one page per relation for the edge links")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render cached artifacts")

	return cmd
}
