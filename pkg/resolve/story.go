package resolve

import (
	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/style"
)

// PlaceholderID names the synthetic element of the empty-schedule row.
const PlaceholderID elements.ID = "placeholder"

// PlaceholderText is shown when a schedule has no items.
const PlaceholderText = "No classes scheduled"

// Sheet is the fully resolved style of one story render.
type Sheet struct {
	Style    style.Style              `json:"style"`
	Elements map[elements.ID]Resolved `json:"elements"`
	Visible  map[elements.ID]bool     `json:"visible"`
	Engine   density.Output           `json:"engine"`
	Spacing  density.Spacing          `json:"spacing"`

	Placeholder Resolved `json:"placeholder"`

	// Striped is set when the item count exceeds density.DenseThreshold.
	Striped       bool   `json:"striped"`
	StripeOverlay string `json:"stripeOverlay"`
	Hairline      string `json:"hairline"`
	CardLight     bool   `json:"cardLight"`
}

// Shown reports whether id is visible in this render.
func (s Sheet) Shown(id elements.ID) bool {
	return s.Visible[id]
}

// Story resolves every element of a story at once.
//
// Theme colors from st sit between registry defaults and user overrides, so
// an unstyled element follows the template palette while an explicit
// override still wins. The heading weight comes from st the same way.
// Override fields equal to the registry default count as unset: seeded and
// reset entries hold a full copy of the defaults.
func Story(st style.Style, overrides elements.Styles, visible elements.Set, out density.Output) Sheet {
	st = st.WithDefaults()
	sheet := Sheet{
		Style:    st,
		Elements: make(map[elements.ID]Resolved, len(elements.IDs())),
		Visible:  make(map[elements.ID]bool, len(elements.IDs())),
		Engine:   out,
		Spacing:  out.Spacing,
	}

	for _, m := range elements.All() {
		theme := elements.Style{Color: elements.Color(themeColor(st, m.ID))}
		if m.ID == elements.Heading {
			theme.FontWeight = elements.Weight(st.HeadingWeight)
		}
		ov := overrides[m.ID].Without(elements.DefaultStyle(m.ID)).Over(theme)
		sheet.Elements[m.ID] = Element(m.ID, ov, out.Factors)
		sheet.Visible[m.ID] = shown(st, visible, m)
	}

	sheet.Placeholder = Resolved{
		ID:         PlaceholderID,
		FontSize:   out.BodySize,
		FontWeight: elements.FallbackFontWeight,
		LineHeight: elements.FallbackLineHeight,
		Color:      st.TextSecondary,
	}
	if sheet.Placeholder.FontSize <= 0 {
		sheet.Placeholder.FontSize = float64(st.BodySize)
	}

	sheet.Striped = out.Count > density.DenseThreshold
	sheet.StripeOverlay = ContrastOverlay(st.CardColor)
	sheet.Hairline = Hairline(st.CardColor)
	sheet.CardLight = IsLight(st.CardColor)
	return sheet
}

func themeColor(st style.Style, id elements.ID) string {
	switch id {
	case elements.Heading, elements.ClassName:
		return st.TextPrimary
	case elements.Time, elements.ScheduleDate:
		return st.AccentColor
	default:
		return st.TextSecondary
	}
}

func shown(st style.Style, visible elements.Set, m elements.Meta) bool {
	if m.Category == elements.CategorySchedule {
		return st.Visible(style.SectionSchedule) && visible.Has(m.ID)
	}
	return st.Visible(m.Toggle)
}
