package sink

import (
	"encoding/json"

	"github.com/matzehuels/storyboard/pkg/measure"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/resolve"
)

// JSONOption configures JSON rendering.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	sheet   bool
	compact bool
}

// WithJSONSheet includes the resolved sheet (element styles, spacing, engine
// output) in the document.
func WithJSONSheet() JSONOption { return func(r *jsonRenderer) { r.sheet = true } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Width    float64              `json:"width"`
	Height   float64              `json:"height"`
	Strategy string               `json:"strategy"`
	Metrics  measure.StoryMetrics `json:"metrics"`
	Sheet    *resolve.Sheet       `json:"sheet,omitempty"`
	Root     *render.Box          `json:"root"`
}

// RenderJSON exports the tree with its metrics.
func RenderJSON(t *render.Tree, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		Width:    t.Width,
		Height:   t.Height,
		Strategy: t.Strategy,
		Metrics:  t.Measure(),
		Root:     t.Root,
	}
	if r.sheet {
		sheet := t.Sheet
		out.Sheet = &sheet
	}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
