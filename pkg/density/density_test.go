package density

import (
	"math"
	"testing"

	"github.com/matzehuels/storyboard/pkg/style"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		n    int
		max  int
		want float64
	}{
		{"zero items clamps to one", 0, 18, 0},
		{"single item", 1, 18, 0},
		{"max items", 18, 18, 1},
		{"beyond max", 40, 18, 1},
		{"legacy midpoint", 11, 21, 0.5},
		{"degenerate max", 5, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(tt.n, tt.max); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Of(%d, %d) = %v, want %v", tt.n, tt.max, got, tt.want)
			}
		})
	}
}

func TestComputeEndpoints(t *testing.T) {
	lo := Compute(0)
	if lo != (Factors{Primary: 1, Secondary: 1, Time: 1, Hero: 1, LineHeight: 1, Gap: 1, Padding: 1, Body: 1}) {
		t.Errorf("Compute(0) = %+v, want all ones", lo)
	}

	hi := Compute(1)
	want := map[string][2]float64{
		"primary":   {hi.Primary, 0.72},
		"secondary": {hi.Secondary, 0.60},
		"time":      {hi.Time, 0.68},
		"hero":      {hi.Hero, 0.80},
		"gap":       {hi.Gap, 0.35},
		"padding":   {hi.Padding, 0.50},
		"line":      {hi.LineHeight, 0.90},
	}
	for name, v := range want {
		if math.Abs(v[0]-v[1]) > 1e-9 {
			t.Errorf("Compute(1).%s = %v, want %v", name, v[0], v[1])
		}
	}
}

func TestSecondaryDropsFasterThanPrimary(t *testing.T) {
	for n := 2; n <= MaxItemsCurrent; n++ {
		f := ForCount(n, MaxItemsCurrent)
		if f.Secondary > f.Primary {
			t.Errorf("n=%d: secondary %v > primary %v", n, f.Secondary, f.Primary)
		}
	}
}

func TestGapNonIncreasing(t *testing.T) {
	for _, max := range []int{MaxItemsCurrent, MaxItemsLegacy} {
		for _, preset := range []style.Preset{style.PresetCompact, style.PresetComfortable, style.PresetSpacious} {
			prev := math.Inf(1)
			for n := 0; n <= max+3; n++ {
				sp := Evaluate(Params{Count: n, MaxItems: max, Preset: preset}).Spacing
				if sp.RowGap > prev {
					t.Errorf("max=%d preset=%s: gap grew at n=%d (%v > %v)", max, preset, n, sp.RowGap, prev)
				}
				if sp.RowGap < MinGap {
					t.Errorf("gap %v below floor at n=%d", sp.RowGap, n)
				}
				prev = sp.RowGap
			}
		}
	}
}

func TestPaddingFloors(t *testing.T) {
	f := Compute(1)
	sp := Pixels(f, style.PresetCompact, SmartSpacing{0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, 0)
	for name, v := range map[string]float64{
		"card": sp.CardPadding, "footer": sp.FooterPadding, "time": sp.TimePadding, "logo": sp.LogoPadding,
	} {
		if v < MinPadding {
			t.Errorf("%s padding %v below floor", name, v)
		}
	}
	if sp.RowGap < MinGap || sp.HeroGap < MinGap {
		t.Errorf("gaps below floor: %+v", sp)
	}
}

func TestPresetScalesSpacing(t *testing.T) {
	f := Compute(0)
	c := Pixels(f, style.PresetCompact, NeutralSpacing(), 0)
	s := Pixels(f, style.PresetSpacious, NeutralSpacing(), 0)
	if c.RowGap != 19.2 {
		t.Errorf("compact row gap = %v, want 19.2", c.RowGap)
	}
	if s.RowGap != 30 {
		t.Errorf("spacious row gap = %v, want 30", s.RowGap)
	}
}

func TestFitBodySize(t *testing.T) {
	tests := []struct {
		name      string
		available float64
		n         int
		base      float64
		floor     float64
		want      float64
	}{
		{"unmeasured keeps base", 0, 10, 32, 16, 32},
		{"roomy never grows", 5000, 1, 32, 16, 32},
		{"shrinks to fit", 960, 10, 32, 16, 30},
		{"floor trumps fit", 100, 18, 32, 16, 16},
		{"zero items counts as one", 64, 0, 32, 16, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitBodySize(tt.available, tt.n, tt.base, tt.floor)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FitBodySize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSmart(t *testing.T) {
	lo := Smart(1, MaxItemsCurrent, SmartSpacing{})
	if math.Abs(lo.HeroGap-1.15) > 1e-9 || math.Abs(lo.ScheduleGap-1.1) > 1e-9 {
		t.Errorf("Smart(1) = %+v", lo)
	}
	hi := Smart(MaxItemsCurrent, MaxItemsCurrent, SmartSpacing{HeroGap: 2, ScheduleGap: 1, CardPadding: 1, FooterPadding: 1, TimePadding: 1, LogoPadding: 1})
	if math.Abs(hi.HeroGap-1.6) > 1e-9 {
		t.Errorf("template multiplier not applied: HeroGap = %v, want 1.6", hi.HeroGap)
	}
	if math.Abs(hi.LogoPadding-0.8) > 1e-9 {
		t.Errorf("LogoPadding = %v, want 0.8", hi.LogoPadding)
	}
}

func TestShare(t *testing.T) {
	if Share(0) != 0.50 {
		t.Errorf("Share(0) = %v", Share(0))
	}
	if math.Abs(Share(1)-0.68) > 1e-9 {
		t.Errorf("Share(1) = %v", Share(1))
	}
	if Share(7) != Share(1) {
		t.Error("Share should clamp density")
	}
}

func TestEvaluateBody(t *testing.T) {
	out := Evaluate(Params{Count: 18, MaxItems: 18, BodySize: 32, Available: 18 * RowEm * 20})
	if out.BodySize != 20 {
		t.Errorf("BodySize = %v, want 20", out.BodySize)
	}
	if math.Abs(out.Factors.Body-20.0/32.0) > 1e-9 {
		t.Errorf("Body factor = %v", out.Factors.Body)
	}
	if Evaluate(Params{Count: 3}).MaxItems != MaxItemsCurrent {
		t.Error("MaxItems should default to the current cap")
	}
}
