package resolve

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/style"
)

func TestElementOverrideThenScale(t *testing.T) {
	// A user override does not bypass density: scale applies to the
	// resolved numeric value.
	f := density.Unit()
	f.Time = 0.8

	got := Element(elements.Time, elements.Style{FontSize: elements.Size(30)}, f)
	if got.FontSize != 24 {
		t.Errorf("time.fontSize=30 at scale 0.8 resolved to %v, want 24", got.FontSize)
	}
	if got.FontWeight != 700 {
		t.Errorf("FontWeight = %v, want registry default 700", got.FontWeight)
	}
}

func TestElementDefaultIdentity(t *testing.T) {
	for _, id := range elements.IDs() {
		t.Run(string(id), func(t *testing.T) {
			def := elements.DefaultStyle(id)
			got := Element(id, elements.Style{}, density.Unit())
			want := Element(id, def, density.Unit())
			if got != want {
				t.Errorf("empty override = %+v, defaults = %+v", got, want)
			}
			if got.Color != *def.Color || got.FontWeight != *def.FontWeight {
				t.Errorf("resolved %+v does not match registry default %+v", got, def)
			}
			if size := *def.FontSize; size >= elements.MustLookup(id).MinFontSize && got.FontSize != size {
				t.Errorf("FontSize = %v, want %v", got.FontSize, size)
			}
		})
	}
}

func TestElementFloorsForEveryCount(t *testing.T) {
	small := elements.Style{FontSize: elements.Size(8), LineHeight: elements.Size(0.9)}
	for _, max := range []int{density.MaxItemsCurrent, density.MaxItemsLegacy} {
		for n := 0; n <= max; n++ {
			f := density.ForCount(n, max)
			f.Body = 0.5
			for _, m := range elements.All() {
				for _, ov := range []elements.Style{{}, small} {
					r := Element(m.ID, ov, f)
					if r.FontSize < m.MinFontSize {
						t.Errorf("max=%d n=%d %s: size %v below floor %v", max, n, m.ID, r.FontSize, m.MinFontSize)
					}
					if r.LineHeight < density.MinLineHeight {
						t.Errorf("max=%d n=%d %s: line height %v below 1.1", max, n, m.ID, r.LineHeight)
					}
				}
			}
		}
	}
}

func TestElementDeterministic(t *testing.T) {
	ov := elements.Style{FontSize: elements.Size(41), LetterSpacing: elements.Size(1.3)}
	f := density.ForCount(9, density.MaxItemsCurrent)
	a := Element(elements.ClassName, ov, f)
	b := Element(elements.ClassName, ov, f)
	if a != b {
		t.Errorf("Element not deterministic: %+v vs %+v", a, b)
	}
}

func TestElementRounding(t *testing.T) {
	f := density.ForCount(7, density.MaxItemsCurrent)
	r := Element(elements.Instructor, elements.Style{}, f)
	if r.FontSize != float64(int(r.FontSize)) {
		t.Errorf("FontSize %v is not whole px", r.FontSize)
	}
	if math.Abs(r.LineHeight*10-math.Round(r.LineHeight*10)) > 1e-9 {
		t.Errorf("LineHeight %v not rounded to one decimal", r.LineHeight)
	}
}

func TestColorNeverScaled(t *testing.T) {
	ov := elements.Style{Color: elements.Color("#123456")}
	r := Element(elements.Footer, ov, density.Compute(1))
	if r.Color != "#123456" {
		t.Errorf("Color = %s, want #123456", r.Color)
	}
}

func TestHeroUsesHeroScale(t *testing.T) {
	f := density.Compute(1)
	r := Element(elements.Heading, elements.Style{}, f)
	if r.FontSize != 77 {
		t.Errorf("heading at density 1 = %v, want 77 (96 x 0.8)", r.FontSize)
	}
}

func TestStory(t *testing.T) {
	st := style.Style{ShowFooter: style.Bool(false), CardColor: "#FFFFFF", HeadingWeight: 900}
	out := density.Evaluate(density.Params{Count: 8})
	overrides := elements.Styles{elements.ClassName: {Color: elements.Color("#ABCDEF")}}

	sheet := Story(st, overrides, elements.NewSet(elements.Time, elements.ClassName), out)

	if sheet.Shown(elements.Footer) {
		t.Error("footer hidden by style should not be shown")
	}
	if !sheet.Shown(elements.Time) || sheet.Shown(elements.Instructor) {
		t.Error("schedule visibility should follow the template set")
	}
	if !sheet.Striped {
		t.Error("8 items should be striped")
	}
	if sheet.StripeOverlay != DarkOverlay || !sheet.CardLight {
		t.Errorf("white cards need the dark overlay, got %s", sheet.StripeOverlay)
	}
	if got := sheet.Elements[elements.ClassName].Color; got != "#ABCDEF" {
		t.Errorf("override color lost: %s", got)
	}
	if got := sheet.Elements[elements.Time].Color; got != style.DefaultAccentColor {
		t.Errorf("time should follow the accent color, got %s", got)
	}
	if got := sheet.Elements[elements.Heading].FontWeight; got != 900 {
		t.Errorf("heading weight = %d, want 900", got)
	}
	if sheet.Placeholder.FontSize != out.BodySize {
		t.Errorf("placeholder size = %v, want body size %v", sheet.Placeholder.FontSize, out.BodySize)
	}

	again := Story(st, overrides, elements.NewSet(elements.Time, elements.ClassName), out)
	if !reflect.DeepEqual(sheet, again) {
		t.Error("Story is not deterministic")
	}
}

func TestStorySeededDefaultsFollowTheme(t *testing.T) {
	st := style.Style{
		BackgroundColor: "#FFFFFF",
		TextPrimary:     "#111111",
		TextSecondary:   "#6B6B6B",
		AccentColor:     "#2F6F5E",
		HeadingWeight:   600,
	}
	out := density.Evaluate(density.Params{Count: 3})
	seeded := elements.InitialStyles().
		With(elements.Instructor, elements.Style{Color: elements.Color("#ff0000")}).
		Reset(elements.Instructor)

	sheet := Story(st, seeded, elements.NewSet(elements.Time, elements.ClassName, elements.Instructor), out)

	tests := []struct {
		id    elements.ID
		color string
	}{
		{elements.Heading, "#111111"},
		{elements.ClassName, "#111111"},
		{elements.Time, "#2F6F5E"},
		{elements.Instructor, "#6B6B6B"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := sheet.Elements[tt.id].Color; got != tt.color {
				t.Errorf("Color = %s, want %s", got, tt.color)
			}
		})
	}
	if got := sheet.Elements[elements.Heading].FontWeight; got != 600 {
		t.Errorf("heading weight = %d, want 600", got)
	}

	custom := seeded.With(elements.Heading, elements.Style{Color: elements.Color("#ABCDEF"), FontWeight: elements.Weight(300)})
	sheet = Story(st, custom, nil, out)
	if h := sheet.Elements[elements.Heading]; h.Color != "#ABCDEF" || h.FontWeight != 300 {
		t.Errorf("heading = %s/%d, want explicit override #ABCDEF/300", h.Color, h.FontWeight)
	}
}
