package render

import (
	"context"
	"math"

	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/fonts"
	"github.com/matzehuels/storyboard/pkg/measure"
	"github.com/matzehuels/storyboard/pkg/resolve"
	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
)

// Layout constants in px.
const (
	SideMargin   = 72.0
	AccentWidth  = 6.0
	AccentInset  = 12.0
	HairlineSize = 1.0
	inlineGap    = 16.0
	stackGap     = 4.0
	logoOpacity  = 0.15
)

// Fallback copy for empty text fields.
const (
	DefaultHeading = "Class Schedule"
	DefaultFooter  = "Book your spot in the app"
)

// Input is everything one layout pass consumes.
type Input struct {
	Style         style.Style
	Schedule      schedule.Schedule
	ElementStyles elements.Styles
	// Visible holds the schedule-row elements the template shows.
	Visible elements.Set
	// Smart is the template's smart-spacing multiplier set.
	Smart    density.SmartSpacing
	Strategy LayoutStrategy
	Measurer fonts.Measurer
	// Available is the schedule height to fit the body size into; zero means
	// unmeasured, which uses density-only scaling.
	Available float64
}

// Render lays out one story. It fails only for a layout variant it does not
// know; every other degenerate input (no items, no hero text, hidden
// sections) has a defined rendering.
func Render(in Input) (*Tree, error) {
	st := in.Style.WithDefaults()
	switch st.Layout {
	case style.LayoutList, style.LayoutGrid, style.LayoutCard:
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layout %q", st.Layout)
	}
	if in.Strategy == nil {
		in.Strategy = Current{}
	}
	if in.Measurer == nil {
		in.Measurer = fonts.Default()
	}

	out := density.Evaluate(density.Params{
		Count:       in.Schedule.Len(),
		MaxItems:    in.Strategy.MaxItems(),
		Preset:      st.Spacing,
		Template:    in.Smart,
		LogoPadding: float64(st.LogoPadding),
		BodySize:    float64(st.BodySize),
		Available:   in.Available,
	})
	l := &layouter{
		in:    in,
		st:    st,
		m:     in.Measurer,
		sheet: resolve.Story(st, in.ElementStyles, in.Visible, out),
		sp:    out.Spacing,
	}
	return l.build(), nil
}

// Fit renders in a measurement loop. Whenever the schedule overflows its
// target share, the fitted availability shrinks by target/measured and the
// story is laid out again, until two passes agree within a pixel.
func Fit(ctx context.Context, in Input, opts measure.SettleOptions) (*Tree, measure.SettleResult, error) {
	var tree *Tree
	avail := in.Available
	step := func(ctx context.Context, prev *measure.StoryMetrics) (measure.StoryMetrics, error) {
		if prev != nil && prev.Overflow() > measure.Tolerance {
			base := avail
			if base <= 0 {
				base = prev.AvailableHeight
			}
			avail = base * prev.AvailableHeight / prev.ScheduleHeight
		}
		in.Available = avail
		t, err := Render(in)
		if err != nil {
			return measure.StoryMetrics{}, err
		}
		tree = t
		return t.Measure(), nil
	}
	res, err := measure.Settle(ctx, step, opts)
	return tree, res, err
}

type layouter struct {
	in    Input
	st    style.Style
	m     fonts.Measurer
	sheet resolve.Sheet
	sp    density.Spacing
}

func (l *layouter) innerWidth() float64 { return style.CanvasWidth - 2*SideMargin }

func (l *layouter) font(id elements.ID) resolve.Resolved { return l.sheet.Elements[id] }

func (l *layouter) build() *Tree {
	const w, h = float64(style.CanvasWidth), float64(style.CanvasHeight)
	root := &Box{Kind: KindCanvas, W: w, H: h}
	root.Add(l.background(w, h))

	pad := l.sp.LogoPadding
	anchor := l.in.Strategy.LogoAnchor(l.st.LogoPosition)
	hasLogo := l.st.LogoURL != ""
	size := float64(l.st.LogoSize)

	var topBand, bottomBand, heroH, gap, schedH, footerH float64
	y := pad
	if hasLogo && anchor.IsTop() {
		root.Add(l.logo(anchor, y, size))
		topBand = size + pad
		y += topBand
	}

	if hero := l.hero(y); hero != nil {
		root.Add(hero)
		heroH = hero.H
		y += heroH
	}

	if l.st.Visible(style.SectionSchedule) {
		if heroH > 0 {
			gap = l.sp.HeroGap
			y += gap
		}
		sched := l.schedule(y)
		root.Add(sched)
		schedH = sched.H
	}

	if hasLogo && anchor.IsBottom() {
		root.Add(l.logo(anchor, h-pad-size, size))
		bottomBand = size + pad
	}
	if l.sheet.Shown(elements.Footer) {
		footer := l.footer(h - pad - bottomBand)
		root.Add(footer)
		footerH = footer.H
	}
	if hasLogo && anchor == style.LogoCenter {
		logo := l.logo(anchor, (h-size)/2, size)
		logo.Absolute = true
		logo.Opacity = logoOpacity
		root.Add(logo)
	}

	d := l.sheet.Engine.Factors.Density
	return &Tree{
		Width:     w,
		Height:    h,
		Strategy:  l.in.Strategy.Name(),
		Sheet:     l.sheet,
		Root:      root,
		Available: l.in.Available,
		metrics: measure.StoryMetrics{
			ContentHeight:   pad + topBand + heroH + gap + schedH + footerH + bottomBand + pad,
			AvailableHeight: math.Round(l.in.Strategy.ScheduleShare(d) * h),
			HeroHeight:      heroH,
			ScheduleHeight:  schedH,
			FooterHeight:    footerH,
			ItemCount:       l.in.Schedule.Len(),
		},
	}
}

func (l *layouter) background(w, h float64) *Box {
	bg := &Box{Kind: KindBackground, W: w, H: h, Fill: l.st.BackgroundColor}
	if l.st.BackgroundImage != "" {
		bg.Add(&Box{
			Kind:  KindImage,
			W:     w,
			H:     h,
			Image: l.st.BackgroundImage,
			Blur:  l.st.Blur(),
			Align: imageAlign(l.st.BackgroundPosition),
		})
	}
	if o := l.st.Overlay(); o > 0 {
		bg.Add(&Box{Kind: KindOverlay, W: w, H: h, Fill: "#000000", Opacity: o})
	}
	return bg
}

func imageAlign(position string) Align {
	switch position {
	case "left":
		return AlignStart
	case "right":
		return AlignEnd
	default:
		return AlignMiddle
	}
}

func (l *layouter) logo(anchor style.LogoPosition, y, size float64) *Box {
	var x float64
	switch anchor {
	case style.LogoTopLeft, style.LogoBottomLeft:
		x = SideMargin
	case style.LogoTopRight, style.LogoBottomRight:
		x = style.CanvasWidth - SideMargin - size
	default:
		x = (style.CanvasWidth - size) / 2
	}
	return &Box{Kind: KindLogo, X: x, Y: y, W: size, H: size, Image: l.st.LogoURL}
}

func (l *layouter) hero(y float64) *Box {
	texts := []struct {
		id       elements.ID
		text     string
		maxLines int
	}{
		{elements.Heading, orDefault(l.st.Heading, DefaultHeading), 2},
		{elements.Subtitle, l.st.Subtitle, 2},
		{elements.ScheduleDate, l.in.Schedule.Date, 1},
	}

	hero := &Box{Kind: KindHero, X: SideMargin, Y: y, W: l.innerWidth()}
	inner := math.Max(density.MinGap, l.sp.HeroGap/4)
	cy := y
	for _, t := range texts {
		if !l.sheet.Shown(t.id) {
			continue
		}
		b := textBox(l.m, l.font(t.id), t.text, SideMargin, cy, l.innerWidth(), t.maxLines, AlignMiddle)
		if b == nil {
			continue
		}
		if len(hero.Children) > 0 {
			b.Y += inner
		}
		hero.Add(b)
		cy = b.Bottom()
	}
	if len(hero.Children) == 0 {
		return nil
	}
	hero.H = cy - y
	return hero
}

func (l *layouter) footer(bottom float64) *Box {
	r := l.font(elements.Footer)
	pad := l.sp.FooterPadding
	text := textBox(l.m, r, orDefault(l.st.FooterText, DefaultFooter), SideMargin, 0, l.innerWidth(), 2, AlignMiddle)
	textH := 0.0
	if text != nil {
		textH = text.H
	}
	h := textH + 2*pad
	footer := &Box{Kind: KindFooter, X: 0, Y: bottom - h, W: style.CanvasWidth, H: h}
	if l.st.HasFooterBar() {
		footer.Add(&Box{Kind: KindFooterBar, Y: footer.Y, W: style.CanvasWidth, H: h, Fill: l.st.AccentColor, Absolute: true})
	}
	if text != nil {
		text.Y = footer.Y + pad
		footer.Add(text)
	}
	return footer
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
