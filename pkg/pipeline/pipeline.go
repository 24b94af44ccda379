// Package pipeline provides the story rendering pipeline shared by the CLI
// and the HTTP server.
//
// # Architecture
//
// A run has three stages:
//
//  1. Prepare: instantiate the template in an editor session and apply the
//     request's style patch, schedule, element overrides and visibility
//  2. Layout: run the measurement loop until the schedule fits its share of
//     the canvas
//  3. Render: produce the requested formats (SVG, PNG, JSON) concurrently
//
// The fitted layout and every artifact are cached. Layout keys ignore item
// ids, so the same schedule with freshly generated ids skips the loop while
// artifacts, which embed ids, are re-rendered.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, templates.NewDefault(templates.Flags{}), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Template: "studio",
//	    Schedule: sched,
//	    Formats:  []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/measure"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG raster scale; 1 is the full 1080×1920 canvas.
	DefaultScale = 1.0

	// MaxScale bounds the PNG raster scale.
	MaxScale = 4.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one render.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Template is the template id. Empty or unknown ids use the registry's
	// fallback.
	Template string `json:"template,omitempty"`

	// Input
	Style         *style.Style      `json:"style,omitempty"` // merged over the template style
	Schedule      schedule.Schedule `json:"schedule"`
	ElementStyles elements.Styles   `json:"element_styles,omitempty"`
	Show          []elements.ID     `json:"show,omitempty"` // schedule-row elements to show
	Hide          []elements.ID     `json:"hide,omitempty"` // schedule-row elements to hide
	Strategy      string            `json:"strategy,omitempty"`

	// Document
	Owner string `json:"owner,omitempty"` // load the owner's saved document first
	Save  bool   `json:"save,omitempty"`  // store the edited document

	// Layout
	MaxIterations int `json:"max_iterations,omitempty"`

	// Render
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Images  bool     `json:"images,omitempty"` // load background and logo images into PNGs
	Sheet   bool     `json:"sheet,omitempty"`  // include the resolved sheet in JSON
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// TemplateID is the template actually used, after fallback.
	TemplateID string

	// InputHash is the content hash of the prepared input.
	InputHash string

	// Tree is the fitted layout.
	Tree *render.Tree

	// Settle reports how the measurement loop ended. On a layout cache hit
	// it is the stored result of the original loop.
	Settle measure.SettleResult

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the fitted layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStrategy checks that a layout strategy name is known. Empty is
// valid and means the template's strategy.
func ValidateStrategy(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := render.StrategyFor(name); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid strategy: %q (must be one of: %v)", name, render.StrategyNames())
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Template != "" {
		if err := errors.ValidateTemplateID(o.Template); err != nil {
			return err
		}
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if o.Owner != "" {
		if err := errors.ValidateDocumentKey(o.Owner); err != nil {
			return err
		}
	}
	for _, id := range slices.Concat(o.Show, o.Hide) {
		meta, ok := elements.Lookup(id)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown element %q", id)
		}
		if meta.Category != elements.CategorySchedule {
			return errors.New(errors.ErrCodeInvalidInput, "element %q is toggled by its section", id)
		}
	}
	for id := range o.ElementStyles {
		if _, ok := elements.Lookup(id); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown element %q", id)
		}
	}

	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = measure.DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SettleOptions returns the measurement loop options.
func (o *Options) SettleOptions() measure.SettleOptions {
	return measure.SettleOptions{MaxIterations: o.MaxIterations, Tolerance: measure.Tolerance}
}

// LayoutKeyOpts returns cache key options for the fitted layout.
func (o *Options) LayoutKeyOpts(strategy string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy:      strategy,
		MaxIterations: o.MaxIterations,
		Tolerance:     measure.Tolerance,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
		opts.Images = o.Images
	case FormatJSON:
		opts.Sheet = o.Sheet
	}
	return opts
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
