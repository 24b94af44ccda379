// Package style defines the visual configuration of a schedule story.
//
// A [Style] is a flat record: colors, fonts, background image, logo placement,
// per-section visibility and the coarse layout knobs (corner radius, divider,
// spacing preset, layout variant). Every field is optional. Readers call
// [Style.WithDefaults] to obtain a fully populated value, so the zero Style is
// always renderable.
//
// Styles are edited as immutable snapshots:
//
//	next := style.Merge(prev, style.Style{AccentColor: "#00C2A8", ShowFooter: style.Bool(false)})
//
// Fields set in the patch win; unset fields keep the previous value. Visibility
// and the other boolean toggles are pointers so "unset" is distinguishable from
// "false".
package style

// Canvas dimensions of the primary render target in logical pixels.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1920
)

// Fallback values applied by WithDefaults.
const (
	DefaultFontFamily         = "Inter"
	DefaultAccentColor        = "#FF5A36"
	DefaultBackgroundColor    = "#111111"
	DefaultTextPrimary        = "#FFFFFF"
	DefaultTextSecondary      = "#B3B3B3"
	DefaultCardColor          = "#1E1E1E"
	DefaultBackgroundPosition = "center"
	DefaultLogoSize           = 120
	DefaultLogoPadding        = 48
	DefaultBodySize           = 32
	DefaultHeadingWeight      = 800
)

// Fit controls how the background image covers the canvas.
type Fit string

const (
	FitCover   Fit = "cover"
	FitContain Fit = "contain"
	FitFill    Fit = "fill"
)

// LogoPosition anchors the logo on the canvas.
type LogoPosition string

const (
	LogoTopLeft      LogoPosition = "top-left"
	LogoTopCenter    LogoPosition = "top-center"
	LogoTopRight     LogoPosition = "top-right"
	LogoCenter       LogoPosition = "center"
	LogoBottomLeft   LogoPosition = "bottom-left"
	LogoBottomCenter LogoPosition = "bottom-center"
	LogoBottomRight  LogoPosition = "bottom-right"
)

// LogoPositions lists every anchor in display order.
var LogoPositions = []LogoPosition{
	LogoTopLeft, LogoTopCenter, LogoTopRight,
	LogoCenter,
	LogoBottomLeft, LogoBottomCenter, LogoBottomRight,
}

// IsTop reports whether the logo sits in the top band.
func (p LogoPosition) IsTop() bool {
	return p == LogoTopLeft || p == LogoTopCenter || p == LogoTopRight
}

// IsBottom reports whether the logo sits in the bottom band.
func (p LogoPosition) IsBottom() bool {
	return p == LogoBottomLeft || p == LogoBottomCenter || p == LogoBottomRight
}

// Radius is a corner radius category.
type Radius string

const (
	RadiusNone Radius = "none"
	RadiusSm   Radius = "sm"
	RadiusMd   Radius = "md"
	RadiusLg   Radius = "lg"
	RadiusFull Radius = "full"
)

// Pixels returns the corner radius in px for a box of the given height.
// RadiusFull yields a pill shape.
func (r Radius) Pixels(height float64) float64 {
	switch r {
	case RadiusNone:
		return 0
	case RadiusSm:
		return 8
	case RadiusLg:
		return 28
	case RadiusFull:
		return height / 2
	default:
		return 16
	}
}

// Divider is the separator drawn between schedule rows.
type Divider string

const (
	DividerNone   Divider = "none"
	DividerLine   Divider = "line"
	DividerDashed Divider = "dashed"
	DividerDots   Divider = "dots"
)

// Preset is the coarse spacing baseline chosen by the user.
type Preset string

const (
	PresetCompact     Preset = "compact"
	PresetComfortable Preset = "comfortable"
	PresetSpacious    Preset = "spacious"
)

// Multiplier returns the base multiplier the preset applies to gaps and paddings.
func (p Preset) Multiplier() float64 {
	switch p {
	case PresetCompact:
		return 0.8
	case PresetSpacious:
		return 1.25
	default:
		return 1.0
	}
}

// Layout is the schedule container variant.
type Layout string

const (
	LayoutList Layout = "list"
	LayoutGrid Layout = "grid"
	LayoutCard Layout = "card"
)

// Section names a toggleable region of the story.
type Section string

const (
	SectionHeading  Section = "heading"
	SectionSubtitle Section = "subtitle"
	SectionSchedule Section = "schedule"
	SectionFooter   Section = "footer"
	SectionDate     Section = "date"
)

// Style is the visual configuration of a story.
type Style struct {
	TemplateID string `json:"templateId,omitempty" yaml:"templateId,omitempty" toml:"template_id" bson:"templateId,omitempty"`
	FontFamily string `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty" toml:"font_family" bson:"fontFamily,omitempty"`

	AccentColor     string `json:"accentColor,omitempty" yaml:"accentColor,omitempty" toml:"accent_color" bson:"accentColor,omitempty" validate:"omitempty,hexcolor"`
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty" toml:"background_color" bson:"backgroundColor,omitempty" validate:"omitempty,hexcolor"`
	TextPrimary     string `json:"textPrimary,omitempty" yaml:"textPrimary,omitempty" toml:"text_primary" bson:"textPrimary,omitempty" validate:"omitempty,hexcolor"`
	TextSecondary   string `json:"textSecondary,omitempty" yaml:"textSecondary,omitempty" toml:"text_secondary" bson:"textSecondary,omitempty" validate:"omitempty,hexcolor"`
	CardColor       string `json:"cardColor,omitempty" yaml:"cardColor,omitempty" toml:"card_color" bson:"cardColor,omitempty" validate:"omitempty,hexcolor"`

	BackgroundImage    string   `json:"backgroundImage,omitempty" yaml:"backgroundImage,omitempty" toml:"background_image" bson:"backgroundImage,omitempty" validate:"omitempty,url"`
	BackgroundFit      Fit      `json:"backgroundFit,omitempty" yaml:"backgroundFit,omitempty" toml:"background_fit" bson:"backgroundFit,omitempty" validate:"omitempty,oneof=cover contain fill"`
	BackgroundPosition string   `json:"backgroundPosition,omitempty" yaml:"backgroundPosition,omitempty" toml:"background_position" bson:"backgroundPosition,omitempty" validate:"omitempty,oneof=center top bottom left right"`
	BackgroundBlur     *float64 `json:"backgroundBlur,omitempty" yaml:"backgroundBlur,omitempty" toml:"background_blur" bson:"backgroundBlur,omitempty" validate:"omitempty,gte=0,lte=40"`
	BackgroundOverlay  *float64 `json:"backgroundOverlay,omitempty" yaml:"backgroundOverlay,omitempty" toml:"background_overlay" bson:"backgroundOverlay,omitempty" validate:"omitempty,gte=0,lte=1"`

	LogoURL      string       `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty" toml:"logo_url" bson:"logoUrl,omitempty" validate:"omitempty,url"`
	LogoPosition LogoPosition `json:"logoPosition,omitempty" yaml:"logoPosition,omitempty" toml:"logo_position" bson:"logoPosition,omitempty" validate:"omitempty,oneof=top-left top-center top-right center bottom-left bottom-center bottom-right"`
	LogoSize     int          `json:"logoSize,omitempty" yaml:"logoSize,omitempty" toml:"logo_size" bson:"logoSize,omitempty" validate:"omitempty,gte=24,lte=480"`
	LogoPadding  int          `json:"logoPadding,omitempty" yaml:"logoPadding,omitempty" toml:"logo_padding" bson:"logoPadding,omitempty" validate:"omitempty,gte=0,lte=240"`

	ShowHeading  *bool `json:"showHeading,omitempty" yaml:"showHeading,omitempty" toml:"show_heading" bson:"showHeading,omitempty"`
	ShowSubtitle *bool `json:"showSubtitle,omitempty" yaml:"showSubtitle,omitempty" toml:"show_subtitle" bson:"showSubtitle,omitempty"`
	ShowSchedule *bool `json:"showSchedule,omitempty" yaml:"showSchedule,omitempty" toml:"show_schedule" bson:"showSchedule,omitempty"`
	ShowFooter   *bool `json:"showFooter,omitempty" yaml:"showFooter,omitempty" toml:"show_footer" bson:"showFooter,omitempty"`
	ShowDate     *bool `json:"showDate,omitempty" yaml:"showDate,omitempty" toml:"show_date" bson:"showDate,omitempty"`

	Radius  Radius  `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius" bson:"radius,omitempty" validate:"omitempty,oneof=none sm md lg full"`
	Divider Divider `json:"divider,omitempty" yaml:"divider,omitempty" toml:"divider" bson:"divider,omitempty" validate:"omitempty,oneof=none line dashed dots"`
	Spacing Preset  `json:"spacing,omitempty" yaml:"spacing,omitempty" toml:"spacing" bson:"spacing,omitempty" validate:"omitempty,oneof=compact comfortable spacious"`
	Layout  Layout  `json:"layout,omitempty" yaml:"layout,omitempty" toml:"layout" bson:"layout,omitempty" validate:"omitempty,oneof=list grid card"`

	AccentLines *bool `json:"accentLines,omitempty" yaml:"accentLines,omitempty" toml:"accent_lines" bson:"accentLines,omitempty"`
	FooterBar   *bool `json:"footerBar,omitempty" yaml:"footerBar,omitempty" toml:"footer_bar" bson:"footerBar,omitempty"`

	BodySize      int `json:"bodySize,omitempty" yaml:"bodySize,omitempty" toml:"body_size" bson:"bodySize,omitempty" validate:"omitempty,gte=12,lte=72"`
	HeadingWeight int `json:"headingWeight,omitempty" yaml:"headingWeight,omitempty" toml:"heading_weight" bson:"headingWeight,omitempty" validate:"omitempty,gte=100,lte=900"`

	Heading    string `json:"heading,omitempty" yaml:"heading,omitempty" toml:"heading" bson:"heading,omitempty" validate:"omitempty,max=80"`
	Subtitle   string `json:"subtitle,omitempty" yaml:"subtitle,omitempty" toml:"subtitle" bson:"subtitle,omitempty" validate:"omitempty,max=120"`
	FooterText string `json:"footerText,omitempty" yaml:"footerText,omitempty" toml:"footer_text" bson:"footerText,omitempty" validate:"omitempty,max=120"`
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// WithDefaults returns a copy of s with every unset field replaced by its fallback.
func (s Style) WithDefaults() Style {
	out := s
	setString(&out.FontFamily, DefaultFontFamily)
	setString(&out.AccentColor, DefaultAccentColor)
	setString(&out.BackgroundColor, DefaultBackgroundColor)
	setString(&out.TextPrimary, DefaultTextPrimary)
	setString(&out.TextSecondary, DefaultTextSecondary)
	setString(&out.CardColor, DefaultCardColor)
	setString(&out.BackgroundPosition, DefaultBackgroundPosition)
	if out.BackgroundFit == "" {
		out.BackgroundFit = FitCover
	}
	if out.BackgroundBlur == nil {
		out.BackgroundBlur = Float(0)
	}
	if out.BackgroundOverlay == nil {
		out.BackgroundOverlay = Float(0)
	}
	if out.LogoPosition == "" {
		out.LogoPosition = LogoTopCenter
	}
	if out.LogoSize == 0 {
		out.LogoSize = DefaultLogoSize
	}
	if out.LogoPadding == 0 {
		out.LogoPadding = DefaultLogoPadding
	}
	for _, p := range []**bool{&out.ShowHeading, &out.ShowSubtitle, &out.ShowSchedule, &out.ShowFooter, &out.ShowDate} {
		if *p == nil {
			*p = Bool(true)
		}
	}
	if out.Radius == "" {
		out.Radius = RadiusMd
	}
	if out.Divider == "" {
		out.Divider = DividerLine
	}
	if out.Spacing == "" {
		out.Spacing = PresetComfortable
	}
	if out.Layout == "" {
		out.Layout = LayoutList
	}
	if out.AccentLines == nil {
		out.AccentLines = Bool(false)
	}
	if out.FooterBar == nil {
		out.FooterBar = Bool(false)
	}
	if out.BodySize == 0 {
		out.BodySize = DefaultBodySize
	}
	if out.HeadingWeight == 0 {
		out.HeadingWeight = DefaultHeadingWeight
	}
	return out
}

// Visible reports whether a section is shown. Unset flags count as visible.
func (s Style) Visible(section Section) bool {
	var p *bool
	switch section {
	case SectionHeading:
		p = s.ShowHeading
	case SectionSubtitle:
		p = s.ShowSubtitle
	case SectionSchedule:
		p = s.ShowSchedule
	case SectionFooter:
		p = s.ShowFooter
	case SectionDate:
		p = s.ShowDate
	default:
		return false
	}
	return p == nil || *p
}

// WithVisibility returns a copy of s with one section toggled.
func (s Style) WithVisibility(section Section, visible bool) Style {
	out := s
	switch section {
	case SectionHeading:
		out.ShowHeading = Bool(visible)
	case SectionSubtitle:
		out.ShowSubtitle = Bool(visible)
	case SectionSchedule:
		out.ShowSchedule = Bool(visible)
	case SectionFooter:
		out.ShowFooter = Bool(visible)
	case SectionDate:
		out.ShowDate = Bool(visible)
	}
	return out
}

// HasAccentLines reports whether the accent bar is enabled.
func (s Style) HasAccentLines() bool { return s.AccentLines != nil && *s.AccentLines }

// HasFooterBar reports whether the footer bar is enabled.
func (s Style) HasFooterBar() bool { return s.FooterBar != nil && *s.FooterBar }

// Blur returns the background blur sigma.
func (s Style) Blur() float64 {
	if s.BackgroundBlur == nil {
		return 0
	}
	return *s.BackgroundBlur
}

// Overlay returns the background overlay opacity in [0,1].
func (s Style) Overlay() float64 {
	if s.BackgroundOverlay == nil {
		return 0
	}
	return *s.BackgroundOverlay
}

func setString(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}
