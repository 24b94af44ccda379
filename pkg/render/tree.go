package render

import (
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/measure"
	"github.com/matzehuels/storyboard/pkg/resolve"
)

// Kind classifies a box.
type Kind string

const (
	KindCanvas      Kind = "canvas"
	KindBackground  Kind = "background"
	KindImage       Kind = "image"
	KindOverlay     Kind = "overlay"
	KindLogo        Kind = "logo"
	KindHero        Kind = "hero"
	KindText        Kind = "text"
	KindSchedule    Kind = "schedule"
	KindRow         Kind = "row"
	KindCard        Kind = "card"
	KindPlaceholder Kind = "placeholder"
	KindStripe      Kind = "stripe"
	KindHairline    Kind = "hairline"
	KindAccent      Kind = "accent"
	KindDivider     Kind = "divider"
	KindFooter      Kind = "footer"
	KindFooterBar   Kind = "footer-bar"
)

// Align is the horizontal text anchor.
type Align string

const (
	AlignStart  Align = "start"
	AlignMiddle Align = "middle"
	AlignEnd    Align = "end"
)

// Box is a positioned node in canvas coordinates.
type Box struct {
	Kind    Kind        `json:"kind"`
	Element elements.ID `json:"element,omitempty"`
	ItemID  string      `json:"itemId,omitempty"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`

	Fill    string  `json:"fill,omitempty"`
	Stroke  string  `json:"stroke,omitempty"`
	Dash    string  `json:"dash,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`

	Lines []string          `json:"lines,omitempty"`
	Font  *resolve.Resolved `json:"font,omitempty"`
	Align Align             `json:"align,omitempty"`

	// Image is the source URL of image and logo boxes.
	Image string  `json:"image,omitempty"`
	Blur  float64 `json:"blur,omitempty"`

	// Absolute boxes are overlays that take no part in flow layout.
	Absolute bool   `json:"absolute,omitempty"`
	Children []*Box `json:"children,omitempty"`
}

// Bottom returns Y+H.
func (b *Box) Bottom() float64 { return b.Y + b.H }

// Add appends children and returns b.
func (b *Box) Add(children ...*Box) *Box {
	for _, c := range children {
		if c != nil {
			b.Children = append(b.Children, c)
		}
	}
	return b
}

// Tree is the output of one layout pass.
type Tree struct {
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Strategy string        `json:"strategy"`
	Sheet    resolve.Sheet `json:"sheet"`
	Root     *Box          `json:"root"`

	// Available is the schedule height the body size was fitted to; zero
	// when the pass ran without measurement.
	Available float64 `json:"available"`

	metrics measure.StoryMetrics
}

// Measure returns the vertical metrics of the laid-out story.
func (t *Tree) Measure() measure.StoryMetrics { return t.metrics }

// Walk visits boxes depth-first in paint order. Returning false from fn
// skips the box's children.
func (t *Tree) Walk(fn func(b *Box, depth int) bool) {
	if t == nil || t.Root == nil {
		return
	}
	var walk func(b *Box, depth int)
	walk = func(b *Box, depth int) {
		if !fn(b, depth) {
			return
		}
		for _, c := range b.Children {
			walk(c, depth+1)
		}
	}
	walk(t.Root, 0)
}

// Find returns every box of kind k in paint order.
func (t *Tree) Find(k Kind) []*Box {
	var out []*Box
	t.Walk(func(b *Box, _ int) bool {
		if b.Kind == k {
			out = append(out, b)
		}
		return true
	})
	return out
}

// First returns the first box of kind k, or nil.
func (t *Tree) First(k Kind) *Box {
	var out *Box
	t.Walk(func(b *Box, _ int) bool {
		if out != nil {
			return false
		}
		if b.Kind == k {
			out = b
			return false
		}
		return true
	})
	return out
}

var _ measure.Target = (*Tree)(nil)
