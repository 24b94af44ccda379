package resolve

import (
	"strconv"
	"strings"
)

// Overlay tones chosen by ContrastOverlay.
const (
	DarkOverlay  = "rgba(0,0,0,0.08)"
	LightOverlay = "rgba(255,255,255,0.06)"
)

// Hairline tones drawn between striped rows.
const (
	DarkHairline  = "rgba(0,0,0,0.12)"
	LightHairline = "rgba(255,255,255,0.10)"
)

// LightThreshold is the luminance above which a color counts as light.
const LightThreshold = 0.6

// NormalizeHex expands "#abc", "abc" and "#aabbcc" to "aabbcc" (lowercase,
// no hash). It returns false for anything else.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return "", false
	}
	if _, err := strconv.ParseUint(s, 16, 32); err != nil {
		return "", false
	}
	return strings.ToLower(s), true
}

// ParseHex returns the RGB channels of a hex color.
func ParseHex(s string) (r, g, b uint8, ok bool) {
	n, ok := NormalizeHex(s)
	if !ok {
		return 0, 0, 0, false
	}
	v, _ := strconv.ParseUint(n, 16, 32)
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// Luminance returns (0.299R + 0.587G + 0.114B) / 255 for a hex color.
// Unparseable input has luminance 0.
func Luminance(hex string) float64 {
	r, g, b, ok := ParseHex(hex)
	if !ok {
		return 0
	}
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

// IsLight reports whether hex has luminance above LightThreshold.
func IsLight(hex string) bool {
	return Luminance(hex) > LightThreshold
}

// ContrastOverlay picks the stripe overlay for a card color: a dark tint on
// light cards, a light tint on dark or unparseable ones.
func ContrastOverlay(hex string) string {
	if IsLight(hex) {
		return DarkOverlay
	}
	return LightOverlay
}

// Hairline picks the 1px separator tone for a card color.
func Hairline(hex string) string {
	if IsLight(hex) {
		return DarkHairline
	}
	return LightHairline
}
