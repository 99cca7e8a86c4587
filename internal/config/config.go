// Package config loads the branchmap configuration file.
//
// Configuration lives in a TOML file under the XDG config directory
// (~/.config/branchmap/config.toml). Precedence is flags over file over
// built-in defaults; this package only handles the file and defaults,
// flag overlay happens in the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendOff   = "off"
)

// Built-in defaults.
const (
	DefaultConcurrency = 8
	DefaultAbbrevLen   = 7
	DefaultFormat      = "svg"
	DefaultListenAddr  = "localhost:7780"
)

// RedisConfig holds the connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CacheConfig selects and configures the merge-base cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"` // "file", "redis", or "off"
	Redis   RedisConfig `toml:"redis"`
}

// ServeConfig holds preview server settings.
type ServeConfig struct {
	Addr string `toml:"addr"` // listen address, host:port
}

// Config holds the branchmap configuration.
type Config struct {
	Concurrency int         `toml:"concurrency"` // merge-base worker pool size
	AbbrevLen   int         `toml:"abbrev_len"`  // fallback abbreviation length
	Format      string      `toml:"format"`      // default output format
	Cache       CacheConfig `toml:"cache"`
	Serve       ServeConfig `toml:"serve"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Concurrency: DefaultConcurrency,
		AbbrevLen:   DefaultAbbrevLen,
		Format:      DefaultFormat,
		Cache: CacheConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Serve: ServeConfig{Addr: DefaultListenAddr},
	}
}

// Path returns the configuration file path (~/.config/branchmap/config.toml),
// honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "branchmap", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "branchmap", "config.toml"), nil
}

// Load reads the configuration file at path, or the default location when
// path is empty. A missing file is not an error: defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return cfg, nil
		}
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values for consistency.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendOff:
	default:
		return fmt.Errorf("cache backend must be %q, %q, or %q, got: %q",
			BackendFile, BackendRedis, BackendOff, c.Cache.Backend)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got: %d", c.Concurrency)
	}
	if c.AbbrevLen < 1 {
		return fmt.Errorf("abbrev_len must be positive, got: %d", c.AbbrevLen)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache backend %q requires cache.redis.addr", BackendRedis)
	}
	return nil
}
