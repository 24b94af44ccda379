package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

var elapsed = regexp.MustCompile(`\(\d+(\.\d+)?(ns|µs|ms|s)\)`)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		debug bool
		info  bool
	}{
		{log.DebugLevel, true, true},
		{log.InfoLevel, false, true},
		{log.WarnLevel, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("measuring pass")
			l.Info("rendered story")

			out := buf.String()
			if got := strings.Contains(out, "measuring pass"); got != tt.debug {
				t.Errorf("debug logged = %v, want %v", got, tt.debug)
			}
			if got := strings.Contains(out, "rendered story"); got != tt.info {
				t.Errorf("info logged = %v, want %v", got, tt.info)
			}
		})
	}
}

func TestProgressStages(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.DebugLevel))
	p.stage("schedule loaded")
	p.stage("layout settled after 2 passes")
	p.done("Wrote 1 output files")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("logged %d lines, want 3:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"schedule loaded", "layout settled after 2 passes", "Wrote 1 output files"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
		if !elapsed.MatchString(lines[i]) {
			t.Errorf("line %d = %q, want an elapsed time", i, lines[i])
		}
	}
}

func TestProgressStagesHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.stage("schedule loaded")
	p.done("Wrote 2 output files")

	out := buf.String()
	if strings.Contains(out, "schedule loaded") {
		t.Errorf("stage logged at info level: %q", out)
	}
	if !strings.Contains(out, "Wrote 2 output files") {
		t.Errorf("done() output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	var nilCtx context.Context

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"attached", withLogger(context.Background(), custom), custom},
		{"attached to nil context", withLogger(nilCtx, custom), custom},
		{"nothing attached", context.Background(), log.Default()},
		{"nil context", nilCtx, log.Default()},
		{"wrong value type", context.WithValue(context.Background(), loggerKey, "logger"), log.Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}
}

func TestRenderLogsProgress(t *testing.T) {
	isolateConfig(t)
	t.Setenv("STORYBOARD_LOG_LEVEL", "debug")
	captureOutput(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "monday.json")
	body := `{"date": "Monday", "items": [
		{"time": "07:00", "className": "Spin", "instructor": "Ana"},
		{"time": "18:30", "className": "Yoga Flow", "location": "Studio B"}
	]}`
	if err := os.WriteFile(input, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "--format", "svg,json", "--output", filepath.Join(dir, "out"), "--no-cache"})
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := logs.String()
	for _, want := range []string{"schedule loaded", "inputs ready", "layout settled after", "Wrote 2 output files"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
