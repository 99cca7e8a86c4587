package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/branchmap/pkg/cache"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the merge-base cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// fileCache opens the file-backed cache at the default location.
func fileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c.(*cache.FileCache), nil
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached merge-base results",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := fileCache()
			if err != nil {
				return err
			}

			entries, _, err := c.Stats()
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", entries)
			return nil
		},
	}
}

// newCacheStatsCmd creates the "cache stats" subcommand.
func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := fileCache()
			if err != nil {
				return err
			}

			entries, bytes, err := c.Stats()
			if err != nil {
				return err
			}

			printInfo("Merge-base cache")
			printDetail("%d entries, %.1f KiB", entries, float64(bytes)/1024)
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
