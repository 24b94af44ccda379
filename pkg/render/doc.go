// Package render lays out a schedule story as a positioned box tree.
//
// # Overview
//
// Rendering is split into a pure layout step and format-specific sinks:
//
//  1. Engine: the density package turns the item count into scale factors.
//  2. Resolve: the resolve package merges defaults, overrides and scale into
//     a [resolve.Sheet].
//  3. Layout ([Render]): boxes are positioned on the 1080×1920 canvas.
//  4. Sink ([sink]): the [Tree] is written as SVG, PNG or JSON.
//
// [Fit] wraps [Render] in the measurement loop: it renders, measures the
// schedule region against its target share of the canvas and refines the
// body size until the measurement settles.
//
// # Layout strategies
//
// Two renderer generations coexist behind [LayoutStrategy]:
//
//   - [Current]: three logo anchors (top-center, center, bottom-center), a
//     schedule share that grows with density, at most 18 items.
//   - [Legacy]: all seven logo anchors, a fixed 55% schedule share, at most
//     20 items. Deprecated; kept for templates that still select it.
//
// Both share the same resolved styles and the same list, grid and card
// variants. Each strategy uses one position enum for both the layout offset
// and the visual anchor of the logo.
//
// # Tree invariants
//
//   - Accent bars, stripes, hairlines and dividers are absolutely positioned
//     and never change any flow height.
//   - An empty schedule renders exactly one placeholder row.
//   - Hiding the footer removes the footer node and its height term only.
//
// [sink]: github.com/matzehuels/storyboard/pkg/render/sink
package render
