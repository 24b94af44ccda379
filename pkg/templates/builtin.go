package templates

import (
	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/style"
)

// Builtins returns the templates shipped with storyboard.
func Builtins() []Definition {
	return []Definition{pulse(), studio(), bold(), minimal(), legacyClassic(), neon()}
}

func neutral() density.SmartSpacing { return density.NeutralSpacing() }

func visible(ids ...elements.ID) func() elements.Set {
	return func() elements.Set { return elements.NewSet(ids...) }
}

func pulse() Definition {
	return Definition{
		ID:          "pulse",
		Name:        "Pulse",
		Description: "Dark list with a coral accent bar on every row.",
		Style: func() style.Style {
			return style.Style{
				FontFamily:      "Inter",
				AccentColor:     "#FF5A36",
				BackgroundColor: "#111111",
				TextPrimary:     "#FFFFFF",
				TextSecondary:   "#B3B3B3",
				CardColor:       "#1E1E1E",
				LogoPosition:    style.LogoTopCenter,
				Radius:          style.RadiusMd,
				Divider:         style.DividerLine,
				Spacing:         style.PresetComfortable,
				Layout:          style.LayoutList,
				AccentLines:     style.Bool(true),
				FooterBar:       style.Bool(true),
			}
		},
		VisibleElements: visible(elements.Time, elements.ClassName, elements.Instructor, elements.Location),
		ElementStyles:   elements.InitialStyles,
		SmartSpacing:    neutral,
	}
}

func studio() Definition {
	return Definition{
		ID:          "studio",
		Name:        "Studio",
		Description: "Warm light cards with generous padding.",
		Style: func() style.Style {
			return style.Style{
				FontFamily:      "DM Sans",
				AccentColor:     "#2F6F5E",
				BackgroundColor: "#F7F4EF",
				TextPrimary:     "#1E1E1E",
				TextSecondary:   "#5C5C5C",
				CardColor:       "#FFFFFF",
				LogoPosition:    style.LogoTopCenter,
				Radius:          style.RadiusLg,
				Divider:         style.DividerNone,
				Spacing:         style.PresetComfortable,
				Layout:          style.LayoutCard,
				AccentLines:     style.Bool(false),
				FooterBar:       style.Bool(false),
				HeadingWeight:   700,
			}
		},
		VisibleElements: visible(elements.Time, elements.ClassName, elements.Instructor, elements.Location, elements.Duration),
		ElementStyles: func() elements.Styles {
			return elements.InitialStyles().
				With(elements.Time, elements.Style{FontWeight: elements.Weight(600)})
		},
		SmartSpacing: func() density.SmartSpacing {
			s := density.NeutralSpacing()
			s.HeroGap = 1.1
			s.CardPadding = 1.15
			return s
		},
	}
}

func bold() Definition {
	return Definition{
		ID:          "bold",
		Name:        "Bold",
		Description: "High-contrast two-column grid with heavy type.",
		Style: func() style.Style {
			return style.Style{
				FontFamily:      "Archivo Black",
				AccentColor:     "#FFD400",
				BackgroundColor: "#0A0A0A",
				TextPrimary:     "#FFFFFF",
				TextSecondary:   "#D0D0D0",
				CardColor:       "#1A1A1A",
				LogoPosition:    style.LogoBottomCenter,
				Radius:          style.RadiusSm,
				Divider:         style.DividerNone,
				Spacing:         style.PresetCompact,
				Layout:          style.LayoutGrid,
				AccentLines:     style.Bool(true),
				FooterBar:       style.Bool(true),
				HeadingWeight:   900,
			}
		},
		VisibleElements: visible(elements.Time, elements.ClassName, elements.Instructor),
		ElementStyles: func() elements.Styles {
			return elements.InitialStyles().
				With(elements.Time, elements.Style{FontSize: elements.Size(30), FontWeight: elements.Weight(800)}).
				With(elements.ClassName, elements.Style{FontWeight: elements.Weight(800)})
		},
		SmartSpacing: func() density.SmartSpacing {
			s := density.NeutralSpacing()
			s.ScheduleGap = 0.9
			return s
		},
	}
}

func minimal() Definition {
	return Definition{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "White page, dashed separators, no chrome.",
		Style: func() style.Style {
			return style.Style{
				FontFamily:      "Helvetica Neue",
				AccentColor:     "#111111",
				BackgroundColor: "#FFFFFF",
				TextPrimary:     "#111111",
				TextSecondary:   "#6B6B6B",
				CardColor:       "#FFFFFF",
				LogoPosition:    style.LogoTopCenter,
				Radius:          style.RadiusNone,
				Divider:         style.DividerDashed,
				Spacing:         style.PresetSpacious,
				Layout:          style.LayoutList,
				AccentLines:     style.Bool(false),
				FooterBar:       style.Bool(false),
				HeadingWeight:   600,
			}
		},
		VisibleElements: visible(elements.Time, elements.ClassName, elements.Location),
		ElementStyles:   elements.InitialStyles,
		SmartSpacing:    neutral,
	}
}

func legacyClassic() Definition {
	return Definition{
		ID:          "legacy-classic",
		Name:        "Classic",
		Description: "The original card layout with seven logo positions.",
		Strategy:    render.StrategyLegacy,
		Style: func() style.Style {
			return style.Style{
				FontFamily:      "Montserrat",
				AccentColor:     "#FFB300",
				BackgroundColor: "#1A237E",
				TextPrimary:     "#FFFFFF",
				TextSecondary:   "#C5CAE9",
				CardColor:       "#283593",
				LogoPosition:    style.LogoTopRight,
				Radius:          style.RadiusMd,
				Divider:         style.DividerNone,
				Spacing:         style.PresetComfortable,
				Layout:          style.LayoutCard,
				AccentLines:     style.Bool(true),
				FooterBar:       style.Bool(true),
			}
		},
		VisibleElements: visible(elements.Time, elements.ClassName, elements.Instructor, elements.Location),
		ElementStyles:   elements.InitialStyles,
		SmartSpacing:    neutral,
	}
}

func neon() Definition {
	return Definition{
		ID:          "neon",
		Name:        "Neon",
		Description: "Glowing pill cards on black.",
		Preview:     true,
		Style: func() style.Style {
			return style.Style{
				FontFamily:      "Space Grotesk",
				AccentColor:     "#39FF14",
				BackgroundColor: "#000000",
				TextPrimary:     "#F5F5F5",
				TextSecondary:   "#9E9E9E",
				CardColor:       "#101010",
				LogoPosition:    style.LogoCenter,
				Radius:          style.RadiusFull,
				Divider:         style.DividerDots,
				Spacing:         style.PresetComfortable,
				Layout:          style.LayoutCard,
				AccentLines:     style.Bool(false),
				FooterBar:       style.Bool(true),
			}
		},
		VisibleElements: visible(elements.Time, elements.ClassName, elements.Instructor, elements.Location, elements.Description),
		ElementStyles:   elements.InitialStyles,
		SmartSpacing: func() density.SmartSpacing {
			s := density.NeutralSpacing()
			s.CardPadding = 1.2
			s.ScheduleGap = 1.1
			return s
		},
	}
}
