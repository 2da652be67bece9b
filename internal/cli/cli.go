// Package cli implements the dirdeps command-line interface.
//
// The CLI loads a project manifest, builds its directory tree and renders
// directory dependency graphs as DOT, SVG or PNG. It is built on cobra and
// logs through charmbracelet/log.
//
// # Commands
//
//   - graph: render the graph of one directory (interactive picker without argument)
//   - all: render every non-trivial directory of a project
//   - tree: print the directory tree with dependency counts
//   - relations: list directory relations and their file pairs
//   - serve: serve graphs over HTTP
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context and injected into the pipeline runner.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dhebbeker/doxygen/pkg/buildinfo"
	"github.com/dhebbeker/doxygen/pkg/cache"
	"github.com/dhebbeker/doxygen/pkg/config"
	"github.com/dhebbeker/doxygen/pkg/errors"
	"github.com/dhebbeker/doxygen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dirdeps"

	// defaultManifest is read when --manifest is not given.
	defaultManifest = "project.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	manifest   string
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "dirdeps draws directory dependency graphs",
		Long:         `dirdeps reads a project manifest of source files and their includes and draws, for any directory, a graph of the directories it depends on and those that depend on it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.manifest, "manifest", "m", defaultManifest, "project manifest (.toml or .json)")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.allCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.relationsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Project & Runner Factory
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// loadProject reads the manifest selected by --manifest.
func (c *CLI) loadProject(ctx context.Context) (*pipeline.Project, error) {
	start := time.Now()
	p, err := pipeline.LoadProject(c.manifest)
	if err != nil {
		return nil, err
	}
	logProjectLoaded(loggerFromContext(ctx), c.manifest, p.Tree.Stats(), start)
	return p, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"+buildinfo.Version+":")
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || !cfg.CacheEnabled() {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil && cfg.CacheURL == "" {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.CacheURL, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dirdeps/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// graphFlags holds the flags that override configuration values.
type graphFlags struct {
	successor   int
	ancestor    int
	transparent bool
	noLinks     bool
}

// register adds the graph flags to cmd.
func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.successor, "successor", -1, "max nested directory levels drawn (overrides max_dot_graph_successor)")
	cmd.Flags().IntVar(&f.ancestor, "ancestor", -1, "max ancestor levels drawn (overrides max_dot_graph_ancestor)")
	cmd.Flags().BoolVar(&f.transparent, "transparent", false, "transparent graph background")
	cmd.Flags().BoolVar(&f.noLinks, "no-links", false, "omit relation links on edges")
}

// apply overrides cfg with every flag the user set.
func (f *graphFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("successor") {
		cfg.MaxSuccessor = f.successor
	}
	if flags.Changed("ancestor") {
		cfg.MaxAncestor = f.ancestor
	}
	if flags.Changed("transparent") {
		cfg.Transparent = f.transparent
	}
	if flags.Changed("no-links") {
		cfg.LinkRelations = !f.noLinks
	}
	return cfg.Validate()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExitMessage returns the message printed for a failed command.
func ExitMessage(err error) string {
	if code := errors.GetCode(err); code != "" {
		return errors.UserMessage(err) + " (" + string(code) + ")"
	}
	return err.Error()
}
