// Package fonts provides font faces and text measurement for rendering.
//
// The Go font family (golang.org/x/image/font/gofont) is compiled into the
// binary, so layout and the PNG sink work without any system fonts. A [Set]
// holds regular, medium and bold faces and maps CSS font weights onto them.
//
// Layout only needs text widths. It depends on the [Measurer] interface so
// tests can substitute the deterministic [Approx] measurer.
package fonts

import (
	"fmt"
	"math"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// FallbackFamily is appended to the user's font family in SVG output.
const FallbackFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// Measurer measures rendered text widths in px.
type Measurer interface {
	Width(text string, size float64, weight int, letterSpacing float64) float64
}

// Weight buckets supported by a Set.
type Weight int

const (
	Regular Weight = iota
	Medium
	Bold
)

// WeightFor maps a CSS numeric weight to a bucket.
func WeightFor(css int) Weight {
	switch {
	case css >= 650:
		return Bold
	case css >= 500:
		return Medium
	default:
		return Regular
	}
}

type faceKey struct {
	weight Weight
	size   float64
}

// Set is a font family in three weights with a face cache.
// It is safe for concurrent use.
type Set struct {
	fonts [3]*truetype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewSet parses TTF data for the three weights. Empty data falls back to the
// matching Go font.
func NewSet(regular, medium, bold []byte) (*Set, error) {
	defaults := [3][]byte{goregular.TTF, gomedium.TTF, gobold.TTF}
	s := &Set{faces: make(map[faceKey]font.Face)}
	for i, data := range [3][]byte{regular, medium, bold} {
		if len(data) == 0 {
			data = defaults[i]
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font weight %d: %w", i, err)
		}
		s.fonts[i] = f
	}
	return s, nil
}

// LoadFiles builds a Set from TTF files on disk. Empty paths use the Go fonts.
func LoadFiles(regular, medium, bold string) (*Set, error) {
	var data [3][]byte
	for i, p := range []string{regular, medium, bold} {
		if p == "" {
			continue
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", p, err)
		}
		data[i] = b
	}
	return NewSet(data[0], data[1], data[2])
}

var (
	defaultSet     *Set
	defaultSetOnce sync.Once
)

// Default returns the shared Go font Set.
func Default() *Set {
	defaultSetOnce.Do(func() {
		s, err := NewSet(nil, nil, nil)
		if err != nil {
			panic(fmt.Sprintf("fonts: embedded Go fonts failed to parse: %v", err))
		}
		defaultSet = s
	})
	return defaultSet
}

// Face returns a cached face for a size in px and a CSS weight.
// Cached faces are shared; measure through Width rather than drawing with them.
func (s *Set) Face(size float64, weight int) font.Face {
	key := faceKey{weight: WeightFor(weight), size: math.Round(size*4) / 4}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(s.fonts[key.weight], &truetype.Options{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	s.faces[key] = f
	return f
}

// NewFace returns an uncached face owned by the caller. truetype faces are
// not safe for concurrent use, so raster sinks draw with their own faces.
func (s *Set) NewFace(size float64, weight int) font.Face {
	return truetype.NewFace(s.fonts[WeightFor(weight)], &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Width measures text at size px and weight, adding letterSpacing between runes.
func (s *Set) Width(text string, size float64, weight int, letterSpacing float64) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	face := s.Face(size, weight)
	s.mu.Lock()
	adv := font.MeasureString(face, text)
	s.mu.Unlock()
	w := float64(adv) / 64
	if n := utf8.RuneCountInString(text); n > 1 {
		w += letterSpacing * float64(n-1)
	}
	return w
}

// Approx estimates widths as a fixed fraction of the font size per rune.
// Bold text is 8% wider. It is deterministic and font-independent.
type Approx struct {
	// EmRatio is the average advance per rune in ems. Zero means 0.55.
	EmRatio float64
}

// Width implements Measurer.
func (a Approx) Width(text string, size float64, weight int, letterSpacing float64) float64 {
	ratio := a.EmRatio
	if ratio <= 0 {
		ratio = 0.55
	}
	n := utf8.RuneCountInString(text)
	if n == 0 || size <= 0 {
		return 0
	}
	w := float64(n) * size * ratio
	if WeightFor(weight) == Bold {
		w *= 1.08
	}
	return w + letterSpacing*float64(n-1)
}

var (
	_ Measurer = (*Set)(nil)
	_ Measurer = Approx{}
)
