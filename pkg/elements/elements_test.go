package elements

import (
	"testing"

	"github.com/matzehuels/storyboard/pkg/schedule"
)

func TestDefaultStyleFallbacks(t *testing.T) {
	tests := []struct {
		id         ID
		size       float64
		weight     int
		spacing    float64
		lineHeight float64
	}{
		{Heading, 96, 800, -1, 1.05},
		{Time, 34, 700, 0, 1.2},
		// Entries below leave some fields unset in the registry.
		{Location, 26, 500, 0, 1.3},
		{Duration, 26, 500, 0, 1.3},
		{Description, 16, 400, 0, 1.35},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			st := DefaultStyle(tt.id)
			if *st.FontSize != tt.size {
				t.Errorf("FontSize = %v, want %v", *st.FontSize, tt.size)
			}
			if *st.FontWeight != tt.weight {
				t.Errorf("FontWeight = %v, want %v", *st.FontWeight, tt.weight)
			}
			if *st.LetterSpacing != tt.spacing {
				t.Errorf("LetterSpacing = %v, want %v", *st.LetterSpacing, tt.spacing)
			}
			if *st.LineHeight != tt.lineHeight {
				t.Errorf("LineHeight = %v, want %v", *st.LineHeight, tt.lineHeight)
			}
			if *st.Color != FallbackColor {
				t.Errorf("Color = %v, want %v", *st.Color, FallbackColor)
			}
		})
	}
}

func TestInitialStylesCoversEveryID(t *testing.T) {
	styles := InitialStyles()
	if len(styles) != len(IDs()) {
		t.Fatalf("InitialStyles has %d entries, want %d", len(styles), len(IDs()))
	}
	for _, id := range IDs() {
		st, ok := styles[id]
		if !ok {
			t.Errorf("missing %s", id)
			continue
		}
		if st.FontSize == nil || st.FontWeight == nil || st.LetterSpacing == nil || st.LineHeight == nil || st.Color == nil {
			t.Errorf("%s has unset fields", id)
		}
	}
}

func TestMustLookupPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup should panic on unknown id")
		}
	}()
	MustLookup("bogus")
}

func TestRegistryInvariants(t *testing.T) {
	for _, m := range All() {
		if m.MinFontSize <= 0 {
			t.Errorf("%s: MinFontSize must be positive", m.ID)
		}
		if m.FontSize != nil && *m.FontSize < m.MinFontSize {
			t.Errorf("%s: default size %v below floor %v", m.ID, *m.FontSize, m.MinFontSize)
		}
		if m.Category == CategorySchedule && !m.Bound() {
			t.Errorf("%s: schedule element must bind a field", m.ID)
		}
		if m.Category != CategorySchedule && m.Toggle == "" {
			t.Errorf("%s: hero and footer elements need a toggle", m.ID)
		}
	}
	if got := len(ByCategory(CategorySchedule)); got != 6 {
		t.Errorf("schedule elements = %d, want 6", got)
	}
}

func TestField(t *testing.T) {
	it := schedule.Item{Time: "09:30", ClassName: "Pilates", Instructor: "Jo"}
	if got := Field(ClassName, it); got != "Pilates" {
		t.Errorf("Field(className) = %q", got)
	}
	if got := Field(Heading, it); got != "" {
		t.Errorf("Field(heading) = %q, want empty", got)
	}
}

func TestStylesWithAndReset(t *testing.T) {
	base := Styles{}
	next := base.With(Time, Style{FontSize: Size(30)})

	if _, ok := base[Time]; ok {
		t.Error("With modified the receiver")
	}
	if got := *next[Time].FontSize; got != 30 {
		t.Errorf("FontSize = %v, want 30", got)
	}

	next = next.With(Time, Style{Color: Color("#00FF00")})
	if *next[Time].FontSize != 30 || *next[Time].Color != "#00FF00" {
		t.Error("second With should layer over the first")
	}

	reset := next.Reset(Time)
	st, ok := reset[Time]
	if !ok {
		t.Fatal("Reset must keep the entry")
	}
	if *st.FontSize != 34 {
		t.Errorf("reset FontSize = %v, want 34", *st.FontSize)
	}
	if *next[Time].FontSize != 30 {
		t.Error("Reset modified the receiver")
	}
}

func TestStyleWithout(t *testing.T) {
	base := DefaultStyle(Heading)
	st := Style{
		FontSize:   Size(*base.FontSize),
		FontWeight: Weight(500),
		Color:      Color("#f5f5f5"),
	}

	got := st.Without(base)
	if got.FontSize != nil {
		t.Errorf("FontSize = %v, want cleared", *got.FontSize)
	}
	if got.Color != nil {
		t.Errorf("Color = %s, want cleared (case-insensitive match)", *got.Color)
	}
	if got.FontWeight == nil || *got.FontWeight != 500 {
		t.Errorf("FontWeight = %v, want 500 kept", got.FontWeight)
	}
	if !base.Without(base).IsZero() {
		t.Error("defaults without themselves should be empty")
	}
}
