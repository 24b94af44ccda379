// Package sink writes a laid-out story tree to output formats.
//
// All sinks consume the same [render.Tree] and never re-run layout:
//
//   - [RenderSVG]: vector output with text as <text> elements.
//   - [RenderPNG]: raster output drawn with fogleman/gg. Text uses the
//     freetype faces from the fonts package, background images are fitted
//     and blurred with disintegration/imaging.
//   - [RenderJSON]: the box tree, metrics and resolved sheet, for debugging
//     and for clients that draw the story themselves.
//
// A preview scale (see [WithScale]) only changes the final pixel mapping; the
// density math is fixed at the 1080×1920 logical canvas.
//
// [render.Tree]: github.com/matzehuels/storyboard/pkg/render.Tree
package sink
