// Package cli implements the storyboard command-line interface.
//
// The CLI renders schedules to story images, browses templates and content
// elements, prints the density tables the layout uses and serves the HTTP
// API. It is built with cobra and logs via charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Render a schedule file or URL to PNG, SVG or JSON
//   - templates: List, inspect and interactively pick templates
//   - elements: List the content elements and their typography defaults
//   - density: Print the scale factors for every item count
//   - serve: Run the HTTP API
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so helpers can log without extra plumbing.
//
// # Configuration
//
// Commands read $XDG_CONFIG_HOME/storyboard/config.toml (or --config) and
// STORYBOARD_* environment variables before they run.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times the stages of a render. Each stage is logged at debug
// level with the time since the previous one; done logs the total at info.
// It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// stage logs that a step finished, e.g. "schedule loaded (12ms)".
func (p *progress) stage(name string) {
	now := time.Now()
	p.logger.Debugf("%s (%s)", name, now.Sub(p.last).Round(time.Millisecond))
	p.last = now
}

// done logs msg with the total elapsed time, e.g. "Wrote 2 files (412ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
