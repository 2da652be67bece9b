package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhebbeker/doxygen/pkg/cache"
	"github.com/dhebbeker/doxygen/pkg/config"
)

// cacheCommand groups the artifact cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the rendered graph cache",
		Long: `Inspect and clear the rendered graph cache.

Rendered SVG and PNG files are cached under the hash of their DOT text.
The backend is chosen by cache_url in the configuration: a directory on
disk by default, "memory" for a per-process LRU, "redis://..." for a
shared server, or "none".`,
	}
	cmd.AddCommand(c.cacheInfoCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured cache backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeBackend(cfg))
			return nil
		},
	}
}

// cacheClearCommand removes the on-disk artifacts. Other backends hold
// nothing that outlives the process or their TTL, so they are left alone.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete cached graphs from disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.CacheURL != "" {
				printInfo("Nothing to clear on disk, cache backend is %s", describeBackend(cfg))
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("No cached graphs in %s", dir)
				return nil
			}
			printSuccess("Removed %s cached graphs", StyleNumber.Render(fmt.Sprint(n)))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the on-disk cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// describeBackend names the cache backend selected by cfg. Credentials in a
// redis URL are not printed.
func describeBackend(cfg config.Config) string {
	switch url := cfg.CacheURL; {
	case url == "":
		dir, err := cacheDir()
		if err != nil {
			return "file (no cache directory available)"
		}
		return "file " + dir
	case url == config.CacheDisabled:
		return "disabled"
	case url == "memory":
		return fmt.Sprintf("memory (%d entries)", cache.DefaultMemoryEntries)
	default:
		if at := strings.LastIndex(url, "@"); at >= 0 {
			if scheme := strings.Index(url, "://"); scheme >= 0 && scheme < at {
				url = url[:scheme+3] + url[at+1:]
			}
		}
		return "redis " + url
	}
}
