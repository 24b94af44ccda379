package cli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/matzehuels/storyboard/pkg/config"
	"github.com/matzehuels/storyboard/pkg/errors"
)

// captureOutput redirects command output to a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })
	return &buf
}

// isolateConfig points the config lookup at an empty directory and clears
// every STORYBOARD_ variable.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, name := range config.EnvNames() {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(t.Context())
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"render", "templates", "elements", "density", "serve", "cache", "config", "completion", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%s) = %v, %v", name, cmd, err)
		}
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		code     errors.Code
	}{
		{"templates list", []string{"templates", "list"}, []string{"pulse", "fallback", "legacy-classic"}, ""},
		{"templates show", []string{"templates", "show", "studio"}, []string{"strategy", "elements"}, ""},
		{"templates show unknown", []string{"templates", "show", "nope"}, nil, errors.ErrCodeTemplateNotFound},
		{"elements", []string{"elements"}, []string{"heading", "className", "footer"}, ""},
		{"elements category", []string{"elements", "--category", "hero"}, []string{"subtitle"}, ""},
		{"elements bad category", []string{"elements", "--category", "body"}, nil, errors.ErrCodeInvalidInput},
		{"density", []string{"density"}, []string{"Density", "Share"}, ""},
		{"density spacing", []string{"density", "--spacing", "--preset", "compact"}, []string{"Row gap"}, ""},
		{"density legacy", []string{"density", "--strategy", "legacy"}, []string{"legacy"}, ""},
		{"density bad preset", []string{"density", "--preset", "roomy"}, nil, errors.ErrCodeInvalidInput},
		{"density bad strategy", []string{"density", "--strategy", "grid"}, nil, errors.ErrCodeInvalidInput},
		{"version", []string{"version"}, []string{"version", "go"}, ""},
		{"config path", []string{"config", "path"}, []string{"config.toml", "STORYBOARD_CACHE"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t)
			isolateConfig(t)

			err := runCommand(t, tt.args...)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("error = %v, want code %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output missing %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestConfigShowMasksPassword(t *testing.T) {
	buf := captureOutput(t)
	isolateConfig(t)
	t.Setenv("STORYBOARD_CACHE", "none")
	t.Setenv("STORYBOARD_REDIS_PASSWORD", "hunter2")

	if err := runCommand(t, "config", "show"); err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if strings.Contains(buf.String(), "hunter2") {
		t.Error("config show printed the redis password")
	}
	if !strings.Contains(buf.String(), "****") {
		t.Errorf("output = %q, want masked password", buf.String())
	}
}

func TestLoadConfigLogLevel(t *testing.T) {
	isolateConfig(t)
	t.Setenv("STORYBOARD_LOG_LEVEL", "debug")

	c := New(io.Discard, LogInfo)
	if err := c.LoadConfig(""); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got := c.Logger.GetLevel(); got != LogDebug {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestBadConfigFails(t *testing.T) {
	isolateConfig(t)
	t.Setenv("STORYBOARD_CACHE", "memcached")

	if err := runCommand(t, "version"); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("error = %v, want CONFIG", err)
	}
}
