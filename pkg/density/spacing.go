package density

import (
	"math"

	"github.com/matzehuels/storyboard/pkg/style"
)

// Base spacing in px at 1080 wide, before any scaling.
const (
	BaseRowGap        = 24.0
	BaseCardPadding   = 28.0
	BaseHeroGap       = 48.0
	BaseFooterPadding = 32.0
	BaseTimePadding   = 16.0
	BaseLogoPadding   = 48.0
)

// Pixel floors for computed spacing.
const (
	MinGap     = 4.0
	MinPadding = 8.0
)

// SmartSpacing holds per-render multipliers near 1.0, distinct from the
// static spacing preset.
type SmartSpacing struct {
	HeroGap       float64 `json:"heroGap" toml:"hero_gap"`
	ScheduleGap   float64 `json:"scheduleGap" toml:"schedule_gap"`
	CardPadding   float64 `json:"cardPadding" toml:"card_padding"`
	FooterPadding float64 `json:"footerPadding" toml:"footer_padding"`
	TimePadding   float64 `json:"timePadding" toml:"time_padding"`
	LogoPadding   float64 `json:"logoPadding" toml:"logo_padding"`
}

// NeutralSpacing returns multipliers of exactly 1.
func NeutralSpacing() SmartSpacing {
	return SmartSpacing{1, 1, 1, 1, 1, 1}
}

// Normalize replaces non-positive multipliers with 1.
func (s SmartSpacing) Normalize() SmartSpacing {
	for _, p := range []*float64{&s.HeroGap, &s.ScheduleGap, &s.CardPadding, &s.FooterPadding, &s.TimePadding, &s.LogoPadding} {
		if *p <= 0 || math.IsNaN(*p) {
			*p = 1
		}
	}
	return s
}

// Smart derives SmartSpacing for n items capped at max, multiplied by the
// template's own multipliers.
func Smart(n, max int, template SmartSpacing) SmartSpacing {
	d := Of(n, max)
	t := template.Normalize()
	return SmartSpacing{
		HeroGap:       (1.15 - 0.35*d) * t.HeroGap,
		ScheduleGap:   (1.10 - 0.30*d) * t.ScheduleGap,
		CardPadding:   (1.10 - 0.25*d) * t.CardPadding,
		FooterPadding: (1.05 - 0.20*d) * t.FooterPadding,
		TimePadding:   (1.05 - 0.15*d) * t.TimePadding,
		LogoPadding:   (1.10 - 0.30*d) * t.LogoPadding,
	}
}

// Spacing is the concrete spacing of one render in px.
type Spacing struct {
	RowGap        float64 `json:"rowGap"`
	CardPadding   float64 `json:"cardPadding"`
	HeroGap       float64 `json:"heroGap"`
	FooterPadding float64 `json:"footerPadding"`
	TimePadding   float64 `json:"timePadding"`
	LogoPadding   float64 `json:"logoPadding"`
}

// Pixels combines factors, preset and smart multipliers into px values.
// logoPadding is the style's base logo padding; non-positive uses BaseLogoPadding.
func Pixels(f Factors, preset style.Preset, smart SmartSpacing, logoPadding float64) Spacing {
	smart = smart.Normalize()
	m := preset.Multiplier()
	gap := f.Gap * m
	pad := f.Padding * m
	if logoPadding <= 0 {
		logoPadding = BaseLogoPadding
	}
	return Spacing{
		RowGap:        round1(math.Max(MinGap, BaseRowGap*gap*smart.ScheduleGap)),
		HeroGap:       round1(math.Max(MinGap, BaseHeroGap*gap*smart.HeroGap)),
		CardPadding:   round1(math.Max(MinPadding, BaseCardPadding*pad*smart.CardPadding)),
		FooterPadding: round1(math.Max(MinPadding, BaseFooterPadding*pad*smart.FooterPadding)),
		TimePadding:   round1(math.Max(MinPadding, BaseTimePadding*pad*smart.TimePadding)),
		LogoPadding:   round1(math.Max(MinPadding, logoPadding*pad*smart.LogoPadding)),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
