package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		dir  string
		want string
	}{
		{"/srv/storyboard/cache", "/srv/storyboard/cache"},
		{"~/stories", filepath.Join(home, "stories")},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.Config.Cache.Dir = tt.dir
			got, err := c.cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	tests := []struct {
		name       string
		backend    string
		noCache    bool
		wantDir    bool
		wantReason string
	}{
		{"file", config.CacheFile, false, true, ""},
		{"none", config.CacheNone, false, false, "cache backend is none"},
		{"no-cache flag", config.CacheFile, true, false, "--no-cache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.Config.Cache.Backend = tt.backend
			c.Config.Cache.Dir = filepath.Join(t.TempDir(), "cache")

			backend, err := c.newCache(t.Context(), tt.noCache)
			if err != nil {
				t.Fatalf("newCache() error: %v", err)
			}
			defer backend.Close()

			_, statErr := os.Stat(c.Config.Cache.Dir)
			if gotDir := statErr == nil; gotDir != tt.wantDir {
				t.Errorf("cache dir created = %v, want %v", gotDir, tt.wantDir)
			}
			reason, _ := cache.Disabled(backend)
			if reason != tt.wantReason {
				t.Errorf("Disabled() reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}
