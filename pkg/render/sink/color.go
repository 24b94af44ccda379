package sink

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/storyboard/pkg/resolve"
)

// parseColor understands #rgb, #rrggbb and rgba(r,g,b,a). Unknown values
// are transparent.
func parseColor(s string, opacity float64) color.NRGBA {
	s = strings.TrimSpace(s)
	a := 1.0
	var c color.NRGBA
	switch {
	case strings.HasPrefix(s, "rgba("):
		var r, g, b int
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil {
			return color.NRGBA{}
		}
		c = color.NRGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b)}
	default:
		r, g, b, ok := resolve.ParseHex(s)
		if !ok {
			return color.NRGBA{}
		}
		c = color.NRGBA{R: r, G: g, B: b}
	}
	if opacity > 0 {
		a *= opacity
	}
	c.A = uint8(255*clamp01(a) + 0.5)
	return c
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
