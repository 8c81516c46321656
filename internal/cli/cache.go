package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached source snapshots and rendered artifacts",
	}
	cmd.AddCommand(
		c.cacheSweepCommand("clear", "Remove all cached snapshots and artifacts", (*cache.FileCache).Clear, "Cleared"),
		c.cacheSweepCommand("prune", "Remove expired and unreadable entries", (*cache.FileCache).Prune, "Pruned"),
		c.cacheInfoCommand(),
		c.cachePathCommand(),
	)
	return cmd
}

// openCacheDir opens the cache directory, or returns nil when it does not
// exist yet.
func openCacheDir() (*cache.FileCache, string, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, "", fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, dir, nil
	}
	fc, err := cache.NewFileCache(dir)
	return fc, dir, err
}

func (c *CLI) cacheSweepCommand(use, short string, sweep func(*cache.FileCache) (int, error), verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newConsole(cmd.OutOrStdout())
			fc, dir, err := openCacheDir()
			if err != nil {
				return err
			}
			if fc == nil {
				out.info("Cache is empty")
				return nil
			}
			defer fc.Close()

			n, err := sweep(fc)
			if err != nil {
				return err
			}
			c.Logger.Debug("cache sweep", "command", use, "removed", n, "dir", dir)
			out.success("%s %d cached entries", verb, n)
			out.detail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show how many entries the cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newConsole(cmd.OutOrStdout())
			fc, dir, err := openCacheDir()
			if err != nil {
				return err
			}
			if fc == nil {
				out.info("Cache is empty")
				return nil
			}
			defer fc.Close()

			entries, size, err := fc.Usage()
			if err != nil {
				return err
			}
			out.info("%d entries, %s", entries, humanBytes(size))
			out.detail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
