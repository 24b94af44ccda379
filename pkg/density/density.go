// Package density maps "how many items must fit" to scale factors.
//
// The engine is a set of pure functions. An item count is clamped to
// [1, max] and normalized to a density in [0,1]: 0 for a single item, 1 at
// the renderer's maximum. Every scale factor is a linear function of density
// with a hard floor, so legibility always wins over fit. The spacing preset
// is applied as a base multiplier on top of the density-derived gap and
// padding scales.
//
// # Scales
//
//	primary font    max(0.72, 1 - 0.28d)
//	secondary font  max(0.60, 1 - 0.40d)
//	time font       max(0.68, 1 - 0.32d)
//	hero font       max(0.80, 1 - 0.20d)
//	line height     1 - 0.10d   (resulting ratio floored at 1.1)
//	gap             max(0.35, 1 - 0.65d)
//	padding         max(0.50, 1 - 0.50d)
//
// Counts above the maximum keep density 1. Zero items clamp to one, which
// yields density 0 and never divides by zero.
package density

import "math"

// Item caps of the two renderer generations.
const (
	MaxItemsCurrent = 18
	MaxItemsLegacy  = 20
)

// DenseThreshold is the item count above which rows are striped.
const DenseThreshold = 6

// MinLineHeight is the floor for any resolved line-height ratio.
const MinLineHeight = 1.1

// Clamp limits n to [1, max]. A max below 2 is treated as 2.
func Clamp(n, max int) int {
	if max < 2 {
		max = 2
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// Of returns the density of n items for a renderer capped at max.
func Of(n, max int) float64 {
	if max < 2 {
		max = 2
	}
	c := Clamp(n, max)
	return float64(c-1) / float64(max-1)
}

// Factors are the dimensionless scale multipliers for one density.
type Factors struct {
	Density float64 `json:"density"`

	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	Time      float64 `json:"time"`
	Hero      float64 `json:"hero"`

	// LineHeight multiplies line-height ratios. Callers floor the product at MinLineHeight.
	LineHeight float64 `json:"lineHeight"`
	Gap        float64 `json:"gap"`
	Padding    float64 `json:"padding"`

	// Body multiplies schedule-row font sizes. It is the fitted body size
	// divided by the default body size and is 1 until measurement bounds it.
	Body float64 `json:"body"`
}

// Unit returns factors that leave every value unscaled.
func Unit() Factors {
	return Factors{Primary: 1, Secondary: 1, Time: 1, Hero: 1, LineHeight: 1, Gap: 1, Padding: 1, Body: 1}
}

// Compute derives the scale factors for density d, clamped to [0,1].
func Compute(d float64) Factors {
	d = clamp01(d)
	return Factors{
		Density:    d,
		Primary:    floorLinear(0.72, 0.28, d),
		Secondary:  floorLinear(0.60, 0.40, d),
		Time:       floorLinear(0.68, 0.32, d),
		Hero:       floorLinear(0.80, 0.20, d),
		LineHeight: 1 - 0.10*d,
		Gap:        floorLinear(0.35, 0.65, d),
		Padding:    floorLinear(0.50, 0.50, d),
		Body:       1,
	}
}

// ForCount is Compute(Of(n, max)).
func ForCount(n, max int) Factors {
	return Compute(Of(n, max))
}

// FitBodySize bounds a body font size so n rows fit in available px.
//
// The ceiling assumes each row occupies RowEm body ems. The result is
// max(floor, min(base, ceiling)): it shrinks to fit and never grows past
// base, and the legibility floor trumps fit. A non-positive available height
// means "not measured yet" and returns base (still floored).
func FitBodySize(available float64, n int, base, floor float64) float64 {
	if n < 1 {
		n = 1
	}
	size := base
	if available > 0 {
		ceiling := available / (float64(n) * RowEm)
		size = math.Min(base, ceiling)
	}
	return math.Max(floor, size)
}

// RowEm is the height of one schedule row in body ems used by FitBodySize.
const RowEm = 3.2

// Share returns the fraction of canvas height targeted for the schedule
// region by the current renderer.
func Share(d float64) float64 {
	return 0.50 + 0.18*clamp01(d)
}

// LegacyShare is the fixed schedule share of the legacy renderer.
const LegacyShare = 0.55

func floorLinear(floor, slope, d float64) float64 {
	return math.Max(floor, 1-slope*d)
}

func clamp01(d float64) float64 {
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
