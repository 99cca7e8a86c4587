// Package cli implements the branchmap command-line interface.
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/branchmap/internal/config"
	"github.com/matzehuels/branchmap/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "branchmap"

// =============================================================================
// Cache Factory
// =============================================================================

// newCache builds the merge-base cache for the configured backend.
// A failure to locate the cache directory degrades to a null cache rather
// than failing the command; a redis connection failure is an error because
// the user asked for it explicitly.
func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.BackendOff {
		return cache.NewNullCache(), nil
	}

	if cfg.Cache.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/branchmap/).
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
