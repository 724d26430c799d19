package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tmcosta/goine/pkg/httputil"
	"github.com/tmcosta/goine/pkg/ine"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Language != ine.LangEN {
		t.Errorf("Language = %q, want EN", cfg.Language)
	}
	if cfg.BaseURL != httputil.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
language = "PT"
max_retries = 5

[cache]
backend = "off"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Language != "PT" {
		t.Errorf("Language = %q, want PT", cfg.Language)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.Cache.Backend != BackendOff {
		t.Errorf("Backend = %q, want off", cfg.Cache.Backend)
	}

	// Untouched fields keep their defaults.
	if cfg.BaseURL != httputil.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`language = "PT"`), 0o644); err != nil {
		t.Fatalf("writing config failed: %v", err)
	}
	t.Setenv("GOINE_LANGUAGE", "EN")
	t.Setenv("GOINE_CACHE_BACKEND", "off")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Language != "EN" {
		t.Errorf("Language = %q, want env override EN", cfg.Language)
	}
	if cfg.Cache.Backend != BackendOff {
		t.Errorf("Backend = %q, want env override off", cfg.Cache.Backend)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() should fail for an explicit missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad language", func(c *Config) { c.Language = "FR" }, true},
		{"lowercase language", func(c *Config) { c.Language = "en" }, true},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis backend", func(c *Config) { c.Cache.Backend = BackendRedis }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_HTTP(t *testing.T) {
	cfg := Default()
	cfg.TimeoutSecs = 10
	cfg.BackoffBaseMS = 250

	h := cfg.HTTP()
	if h.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", h.Timeout)
	}
	if h.BackoffBase != 250*time.Millisecond {
		t.Errorf("BackoffBase = %v, want 250ms", h.BackoffBase)
	}
	if h.BaseURL != cfg.BaseURL {
		t.Errorf("BaseURL = %q", h.BaseURL)
	}
}

func TestDefaultCacheDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	if got := DefaultCacheDir(); got != filepath.Join(dir, "goine") {
		t.Errorf("DefaultCacheDir() = %q", got)
	}
}
