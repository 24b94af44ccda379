package render

import (
	"strings"

	"github.com/matzehuels/storyboard/pkg/fonts"
	"github.com/matzehuels/storyboard/pkg/resolve"
)

const ellipsis = "…"

// wrap breaks text into at most maxLines lines no wider than width.
// Words longer than a line stay whole. Overflowing text is truncated with an
// ellipsis on the last line. maxLines <= 0 means unlimited.
func wrap(m fonts.Measurer, text string, r resolve.Resolved, width float64, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	measure := func(s string) float64 {
		return m.Width(s, r.FontSize, r.FontWeight, r.LetterSpacing)
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if measure(next) <= width {
			cur = next
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	lines = append(lines, cur)

	if maxLines > 0 && len(lines) > maxLines {
		rest := strings.Join(lines[maxLines-1:], " ")
		lines = append(lines[:maxLines-1], truncate(measure, rest, width))
	}
	return lines
}

// truncate shortens s rune by rune until s plus an ellipsis fits width.
func truncate(measure func(string) float64, s string, width float64) string {
	if measure(s) <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cand := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if measure(cand) <= width {
			return cand
		}
	}
	return ellipsis
}

// textBox lays out a text element at (x, y) within width.
func textBox(m fonts.Measurer, r resolve.Resolved, text string, x, y, width float64, maxLines int, align Align) *Box {
	lines := wrap(m, text, r, width, maxLines)
	if len(lines) == 0 {
		return nil
	}
	font := r
	return &Box{
		Kind:    KindText,
		Element: r.ID,
		X:       x,
		Y:       y,
		W:       width,
		H:       float64(len(lines)) * r.LinePx(),
		Lines:   lines,
		Font:    &font,
		Align:   align,
	}
}

// textWidth measures the widest line of s at r.
func textWidth(m fonts.Measurer, r resolve.Resolved, s string) float64 {
	return m.Width(s, r.FontSize, r.FontWeight, r.LetterSpacing)
}
