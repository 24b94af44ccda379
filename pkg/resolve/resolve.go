// Package resolve turns layered style inputs into concrete render values.
//
// For each element the precedence is, lowest to highest:
//
//  1. registry defaults (elements.DefaultStyle)
//  2. the user's per-element override
//  3. density scale factors, applied to the resulting numeric font size,
//     letter spacing and line height
//
// Scale always applies on top of an override: an override of 30px for the
// time element under a time scale of 0.8 resolves to 24px. Colors are never
// scaled. Font sizes round to whole px and never go below the element's
// legibility floor; line heights round to one decimal and never go below 1.1.
//
// Every function in this package is pure and total.
package resolve

import (
	"math"

	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
)

// Resolved is the final typography of one element.
type Resolved struct {
	ID            elements.ID `json:"id"`
	FontSize      float64     `json:"fontSize"`
	FontWeight    int         `json:"fontWeight"`
	LetterSpacing float64     `json:"letterSpacing"`
	LineHeight    float64     `json:"lineHeight"`
	Color         string      `json:"color"`
}

// LinePx returns the height of one text line in px.
func (r Resolved) LinePx() float64 {
	return r.FontSize * r.LineHeight
}

// FontScale returns the font scale that applies to m under f.
// Hero elements use the hero scale; schedule rows additionally follow the
// fitted body size.
func FontScale(m elements.Meta, f density.Factors) float64 {
	var s float64
	switch {
	case m.Category == elements.CategoryHero:
		s = positive(f.Hero)
	case m.Role == elements.RoleTime:
		s = positive(f.Time)
	case m.Role == elements.RolePrimary:
		s = positive(f.Primary)
	default:
		s = positive(f.Secondary)
	}
	if m.Category == elements.CategorySchedule {
		s *= positive(f.Body)
	}
	return s
}

// Element resolves one element. Unknown ids resolve against the package
// fallbacks with a floor of the fallback size.
func Element(id elements.ID, override elements.Style, f density.Factors) Resolved {
	m, ok := elements.Lookup(id)
	if !ok {
		m = elements.Meta{ID: id, MinFontSize: elements.FallbackFontSize, Role: elements.RoleSecondary}
	}
	st := override.Over(elements.DefaultStyle(id))

	scale := FontScale(m, f)
	size := math.Round(*st.FontSize * scale)
	if size < m.MinFontSize {
		size = m.MinFontSize
	}

	lh := round1(*st.LineHeight * positive(f.LineHeight))
	if lh < density.MinLineHeight {
		lh = density.MinLineHeight
	}

	return Resolved{
		ID:            id,
		FontSize:      size,
		FontWeight:    *st.FontWeight,
		LetterSpacing: round1(*st.LetterSpacing * scale),
		LineHeight:    lh,
		Color:         *st.Color,
	}
}

// positive maps non-positive and NaN factors to 1 so a zero Factors value
// leaves everything unscaled.
func positive(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	return v
}

func round1(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0
	}
	return r
}
