// Package measure closes the feedback loop between rendering and scaling.
//
// A renderer exposes a pull-based "measure now" capability ([Target]). The
// [Observer] watches a target and emits [StoryMetrics] to subscribers only
// when the observed schedule height moves by more than [Tolerance], which
// keeps sub-pixel rounding from oscillating. Targets that can push resize
// notifications implement [Notifier]; everything else is polled.
//
// For server-side rendering, where nothing resizes asynchronously, [Settle]
// runs the same loop synchronously: render, measure, refine, until the
// measurement stops changing.
package measure

import "math"

// Tolerance is the height change in px below which a reading is ignored.
const Tolerance = 1.0

// StoryMetrics is a snapshot of the rendered story's vertical layout.
type StoryMetrics struct {
	ContentHeight   float64 `json:"contentHeight"`
	AvailableHeight float64 `json:"availableHeight"`
	HeroHeight      float64 `json:"heroHeight"`
	ScheduleHeight  float64 `json:"scheduleHeight"`
	FooterHeight    float64 `json:"footerHeight"`
	ItemCount       int     `json:"itemCount"`
}

// Overflow returns how far the schedule exceeds its available height, or 0.
func (m StoryMetrics) Overflow() float64 {
	if m.AvailableHeight <= 0 {
		return 0
	}
	return math.Max(0, m.ScheduleHeight-m.AvailableHeight)
}

// Changed reports whether m differs from prev by more than tol in any
// height, or in item count.
func (m StoryMetrics) Changed(prev StoryMetrics, tol float64) bool {
	if m.ItemCount != prev.ItemCount {
		return true
	}
	for _, d := range []float64{
		m.ContentHeight - prev.ContentHeight,
		m.AvailableHeight - prev.AvailableHeight,
		m.HeroHeight - prev.HeroHeight,
		m.ScheduleHeight - prev.ScheduleHeight,
		m.FooterHeight - prev.FooterHeight,
	} {
		if math.Abs(d) >= tol {
			return true
		}
	}
	return false
}
