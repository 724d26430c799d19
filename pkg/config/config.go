// Package config holds the explicit configuration object threaded
// through every goine component. There are no ambient singletons: the
// facade receives a Config at construction and passes the relevant
// pieces to the cache backend, the HTTP client, and the endpoint
// clients.
//
// Precedence, lowest to highest: built-in defaults, an optional TOML
// file, GOINE_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/tmcosta/goine/pkg/httputil"
	"github.com/tmcosta/goine/pkg/ine"
)

// appName is used for the default cache and config directories.
const appName = "goine"

// Cache backend selectors.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendOff   = "off"
)

// CacheConfig selects and parameterizes the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend" env:"BACKEND"`
	Dir           string `toml:"dir" env:"DIR"`
	RedisAddr     string `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" env:"REDIS_DB"`
}

// Config is the full client configuration.
type Config struct {
	Language       string      `toml:"language" env:"LANGUAGE"`
	BaseURL        string      `toml:"base_url" env:"BASE_URL"`
	TimeoutSecs    int         `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	MaxRetries     int         `toml:"max_retries" env:"MAX_RETRIES"`
	BackoffBaseMS  int         `toml:"backoff_base_ms" env:"BACKOFF_BASE_MS"`
	BackoffCapSecs int         `toml:"backoff_cap_seconds" env:"BACKOFF_CAP_SECONDS"`
	Cache          CacheConfig `toml:"cache" envPrefix:"CACHE_"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Language:       ine.LangEN,
		BaseURL:        httputil.DefaultBaseURL,
		TimeoutSecs:    int(httputil.DefaultTimeout / time.Second),
		MaxRetries:     httputil.DefaultMaxRetries,
		BackoffBaseMS:  int(httputil.DefaultBackoffBase / time.Millisecond),
		BackoffCapSecs: int(httputil.DefaultBackoffCap / time.Second),
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     DefaultCacheDir(),
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path
// (or the default config file when path is empty and one exists), and
// GOINE_-prefixed environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if p := DefaultPath(); fileExists(p) {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "GOINE_"}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that have a closed value set.
func (c *Config) Validate() error {
	if !ine.ValidLanguage(c.Language) {
		return fmt.Errorf("language must be %q or %q, got %q", ine.LangEN, ine.LangPT, c.Language)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendOff:
	default:
		return fmt.Errorf("cache backend must be %q, %q or %q, got %q",
			BackendFile, BackendRedis, BackendOff, c.Cache.Backend)
	}
	return nil
}

// HTTP translates the configuration into the HTTP client's config.
func (c *Config) HTTP() httputil.Config {
	return httputil.Config{
		BaseURL:     c.BaseURL,
		Timeout:     time.Duration(c.TimeoutSecs) * time.Second,
		MaxRetries:  c.MaxRetries,
		BackoffBase: time.Duration(c.BackoffBaseMS) * time.Millisecond,
		BackoffCap:  time.Duration(c.BackoffCapSecs) * time.Second,
	}
}

// DefaultCacheDir returns the XDG cache directory for goine
// (~/.cache/goine unless XDG_CACHE_HOME overrides it).
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// DefaultPath returns the default config file location
// (~/.config/goine/config.toml, honoring XDG_CONFIG_HOME).
func DefaultPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
