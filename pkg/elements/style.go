package elements

import "strings"

// Style is a per-element typography override. Nil fields defer to the
// registry defaults.
type Style struct {
	FontSize      *float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty" toml:"font_size" bson:"fontSize,omitempty" validate:"omitempty,gte=8,lte=240"`
	FontWeight    *int     `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty" toml:"font_weight" bson:"fontWeight,omitempty" validate:"omitempty,gte=100,lte=900"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty" toml:"letter_spacing" bson:"letterSpacing,omitempty" validate:"omitempty,gte=-10,lte=20"`
	LineHeight    *float64 `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty" toml:"line_height" bson:"lineHeight,omitempty" validate:"omitempty,gte=0.8,lte=3"`
	Color         *string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color" bson:"color,omitempty" validate:"omitempty,hexcolor"`
}

// Styles maps element ids to their overrides.
type Styles map[ID]Style

// DefaultStyle builds a fully populated Style from the registry defaults of id.
// Unknown ids yield the package fallbacks.
func DefaultStyle(id ID) Style {
	m := registry[id]
	out := Style{
		FontSize:      floatPtr(FallbackFontSize),
		FontWeight:    intPtr(FallbackFontWeight),
		LetterSpacing: floatPtr(FallbackLetterSpacing),
		LineHeight:    floatPtr(FallbackLineHeight),
		Color:         strPtr(FallbackColor),
	}
	if m.FontSize != nil {
		out.FontSize = floatPtr(*m.FontSize)
	}
	if m.FontWeight != nil {
		out.FontWeight = intPtr(*m.FontWeight)
	}
	if m.LetterSpacing != nil {
		out.LetterSpacing = floatPtr(*m.LetterSpacing)
	}
	if m.LineHeight != nil {
		out.LineHeight = floatPtr(*m.LineHeight)
	}
	if m.Color != nil {
		out.Color = strPtr(*m.Color)
	}
	return out
}

// InitialStyles returns a default Style for every known element.
func InitialStyles() Styles {
	out := make(Styles, len(order))
	for _, id := range order {
		out[id] = DefaultStyle(id)
	}
	return out
}

// Over returns st layered over base: set fields of st win.
func (st Style) Over(base Style) Style {
	out := base.Clone()
	if st.FontSize != nil {
		out.FontSize = floatPtr(*st.FontSize)
	}
	if st.FontWeight != nil {
		out.FontWeight = intPtr(*st.FontWeight)
	}
	if st.LetterSpacing != nil {
		out.LetterSpacing = floatPtr(*st.LetterSpacing)
	}
	if st.LineHeight != nil {
		out.LineHeight = floatPtr(*st.LineHeight)
	}
	if st.Color != nil {
		out.Color = strPtr(*st.Color)
	}
	return out
}

// Without returns a copy of st with every field that equals base cleared.
// Colors compare case-insensitively.
func (st Style) Without(base Style) Style {
	out := st.Clone()
	if out.FontSize != nil && base.FontSize != nil && *out.FontSize == *base.FontSize {
		out.FontSize = nil
	}
	if out.FontWeight != nil && base.FontWeight != nil && *out.FontWeight == *base.FontWeight {
		out.FontWeight = nil
	}
	if out.LetterSpacing != nil && base.LetterSpacing != nil && *out.LetterSpacing == *base.LetterSpacing {
		out.LetterSpacing = nil
	}
	if out.LineHeight != nil && base.LineHeight != nil && *out.LineHeight == *base.LineHeight {
		out.LineHeight = nil
	}
	if out.Color != nil && base.Color != nil && strings.EqualFold(*out.Color, *base.Color) {
		out.Color = nil
	}
	return out
}

// Clone returns a deep copy of st.
func (st Style) Clone() Style {
	var out Style
	if st.FontSize != nil {
		out.FontSize = floatPtr(*st.FontSize)
	}
	if st.FontWeight != nil {
		out.FontWeight = intPtr(*st.FontWeight)
	}
	if st.LetterSpacing != nil {
		out.LetterSpacing = floatPtr(*st.LetterSpacing)
	}
	if st.LineHeight != nil {
		out.LineHeight = floatPtr(*st.LineHeight)
	}
	if st.Color != nil {
		out.Color = strPtr(*st.Color)
	}
	return out
}

// IsZero reports whether no field is set.
func (st Style) IsZero() bool {
	return st.FontSize == nil && st.FontWeight == nil && st.LetterSpacing == nil &&
		st.LineHeight == nil && st.Color == nil
}

// Clone returns a deep copy of the map.
func (ss Styles) Clone() Styles {
	if ss == nil {
		return nil
	}
	out := make(Styles, len(ss))
	for id, st := range ss {
		out[id] = st.Clone()
	}
	return out
}

// With returns a copy of ss with id's override replaced by st layered over the
// existing entry. The entry is created lazily.
func (ss Styles) With(id ID, st Style) Styles {
	out := ss.Clone()
	if out == nil {
		out = make(Styles)
	}
	out[id] = st.Over(out[id])
	return out
}

// Reset returns a copy of ss where id holds a copy of its registry defaults.
// Entries are never deleted.
func (ss Styles) Reset(id ID) Styles {
	out := ss.Clone()
	if out == nil {
		out = make(Styles)
	}
	out[id] = DefaultStyle(id)
	return out
}

// Size returns a pointer to v for Style.FontSize and friends.
func Size(v float64) *float64 { return floatPtr(v) }

// Weight returns a pointer to v for Style.FontWeight.
func Weight(v int) *int { return intPtr(v) }

// Color returns a pointer to v for Style.Color.
func Color(v string) *string { return strPtr(v) }

func strPtr(v string) *string { return &v }
