package density

import (
	"math"

	"github.com/matzehuels/storyboard/pkg/style"
)

// DefaultBodyFloor is the smallest body size FitBodySize may return.
const DefaultBodyFloor = 16.0

// Params are the inputs of one engine evaluation.
type Params struct {
	Count    int
	MaxItems int
	Preset   style.Preset
	Template SmartSpacing

	// LogoPadding is the style's base logo padding in px.
	LogoPadding float64
	// BodySize is the user's chosen body size in px.
	BodySize float64
	// BodyFloor defaults to DefaultBodyFloor.
	BodyFloor float64
	// Available is the measured schedule height in px; zero when unmeasured.
	Available float64
}

// Output is everything the resolver needs from the engine for one render.
type Output struct {
	Count    int          `json:"count"`
	MaxItems int          `json:"maxItems"`
	Factors  Factors      `json:"factors"`
	Smart    SmartSpacing `json:"smart"`
	Spacing  Spacing      `json:"spacing"`
	BodySize float64      `json:"bodySize"`
}

// Evaluate runs the engine for p.
func Evaluate(p Params) Output {
	if p.MaxItems < 2 {
		p.MaxItems = MaxItemsCurrent
	}
	if p.BodySize <= 0 {
		p.BodySize = style.DefaultBodySize
	}
	if p.BodyFloor <= 0 {
		p.BodyFloor = DefaultBodyFloor
	}

	f := ForCount(p.Count, p.MaxItems)
	body := math.Round(FitBodySize(p.Available, Clamp(p.Count, p.MaxItems), p.BodySize, p.BodyFloor))
	f.Body = body / style.DefaultBodySize

	smart := Smart(p.Count, p.MaxItems, p.Template)
	return Output{
		Count:    p.Count,
		MaxItems: p.MaxItems,
		Factors:  f,
		Smart:    smart,
		Spacing:  Pixels(f, p.Preset, smart, p.LogoPadding),
		BodySize: body,
	}
}
