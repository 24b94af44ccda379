package style

import (
	"reflect"
	"testing"
)

func TestWithDefaultsZeroValue(t *testing.T) {
	s := Style{}.WithDefaults()

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"FontFamily", s.FontFamily, "Inter"},
		{"AccentColor", s.AccentColor, "#FF5A36"},
		{"BackgroundColor", s.BackgroundColor, "#111111"},
		{"TextPrimary", s.TextPrimary, "#FFFFFF"},
		{"TextSecondary", s.TextSecondary, "#B3B3B3"},
		{"CardColor", s.CardColor, "#1E1E1E"},
		{"BackgroundFit", s.BackgroundFit, FitCover},
		{"BackgroundPosition", s.BackgroundPosition, "center"},
		{"Blur", s.Blur(), 0.0},
		{"Overlay", s.Overlay(), 0.0},
		{"LogoPosition", s.LogoPosition, LogoTopCenter},
		{"LogoSize", s.LogoSize, 120},
		{"LogoPadding", s.LogoPadding, 48},
		{"Radius", s.Radius, RadiusMd},
		{"Divider", s.Divider, DividerLine},
		{"Spacing", s.Spacing, PresetComfortable},
		{"Layout", s.Layout, LayoutList},
		{"AccentLines", s.HasAccentLines(), false},
		{"FooterBar", s.HasFooterBar(), false},
		{"BodySize", s.BodySize, 32},
		{"HeadingWeight", s.HeadingWeight, 800},
	}
	for _, c := range checks {
		if !reflect.DeepEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	for _, sec := range []Section{SectionHeading, SectionSubtitle, SectionSchedule, SectionFooter, SectionDate} {
		if !s.Visible(sec) {
			t.Errorf("Visible(%s) = false, want true", sec)
		}
	}
}

func TestWithDefaultsKeepsSetFields(t *testing.T) {
	s := Style{AccentColor: "#00C2A8", ShowFooter: Bool(false), BodySize: 28}.WithDefaults()
	if s.AccentColor != "#00C2A8" {
		t.Errorf("AccentColor = %s, want #00C2A8", s.AccentColor)
	}
	if s.Visible(SectionFooter) {
		t.Error("footer should stay hidden")
	}
	if s.BodySize != 28 {
		t.Errorf("BodySize = %d, want 28", s.BodySize)
	}
}

func TestMerge(t *testing.T) {
	prev := Style{
		AccentColor: "#FF0000",
		ShowFooter:  Bool(true),
		BodySize:    30,
		Layout:      LayoutGrid,
	}
	patch := Style{
		AccentColor: "#00FF00",
		ShowFooter:  Bool(false),
	}

	got := Merge(prev, patch)

	if got.AccentColor != "#00FF00" {
		t.Errorf("AccentColor = %s, want #00FF00", got.AccentColor)
	}
	if got.Visible(SectionFooter) {
		t.Error("explicit false in patch should hide footer")
	}
	if got.BodySize != 30 {
		t.Errorf("BodySize = %d, want 30 (kept from prev)", got.BodySize)
	}
	if got.Layout != LayoutGrid {
		t.Errorf("Layout = %s, want grid", got.Layout)
	}

	// Snapshots are independent.
	*patch.ShowFooter = true
	if got.Visible(SectionFooter) {
		t.Error("Merge result aliases patch pointer")
	}
	if !prev.Visible(SectionFooter) {
		t.Error("Merge modified prev")
	}
}

func TestMergeUnsetBoolKeepsPrev(t *testing.T) {
	prev := Style{AccentLines: Bool(true)}
	got := Merge(prev, Style{})
	if !got.HasAccentLines() {
		t.Error("unset patch flag should keep previous value")
	}
}

func TestWithVisibility(t *testing.T) {
	s := Style{}.WithVisibility(SectionDate, false)
	if s.Visible(SectionDate) {
		t.Error("date should be hidden")
	}
	if !s.Visible(SectionHeading) {
		t.Error("other sections should stay visible")
	}
}

func TestPresetMultiplier(t *testing.T) {
	tests := []struct {
		preset Preset
		want   float64
	}{
		{PresetCompact, 0.8},
		{PresetComfortable, 1.0},
		{PresetSpacious, 1.25},
		{"", 1.0},
	}
	for _, tt := range tests {
		if got := tt.preset.Multiplier(); got != tt.want {
			t.Errorf("%q.Multiplier() = %v, want %v", tt.preset, got, tt.want)
		}
	}
}

func TestRadiusPixels(t *testing.T) {
	if got := RadiusNone.Pixels(100); got != 0 {
		t.Errorf("none = %v, want 0", got)
	}
	if got := RadiusFull.Pixels(100); got != 50 {
		t.Errorf("full = %v, want 50", got)
	}
	if got := Radius("").Pixels(100); got != RadiusMd.Pixels(100) {
		t.Errorf("unset radius = %v, want md", got)
	}
}

func TestLogoPositionBands(t *testing.T) {
	if !LogoTopLeft.IsTop() || LogoTopLeft.IsBottom() {
		t.Error("top-left band wrong")
	}
	if LogoCenter.IsTop() || LogoCenter.IsBottom() {
		t.Error("center should be in neither band")
	}
	if !LogoBottomRight.IsBottom() {
		t.Error("bottom-right band wrong")
	}
	if len(LogoPositions) != 7 {
		t.Errorf("LogoPositions has %d entries, want 7", len(LogoPositions))
	}
}
