package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/storyboard/pkg/fonts"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/style"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	images     bool
	fontFamily string
}

// WithoutImages omits background and logo images, for previews that should
// not reference external URLs.
func WithoutImages() SVGOption { return func(r *svgRenderer) { r.images = false } }

// WithFontFamily overrides the CSS font stack.
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }

// RenderSVG renders the tree as an SVG document.
func RenderSVG(t *render.Tree, opts ...SVGOption) []byte {
	r := svgRenderer{images: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.fontFamily == "" {
		r.fontFamily = fmt.Sprintf("'%s', %s", t.Sheet.Style.FontFamily, fonts.FallbackFamily)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		t.Width, t.Height, t.Width, t.Height, html.EscapeString(r.fontFamily))
	if blur := t.Sheet.Style.Blur(); blur > 0 && r.images {
		fmt.Fprintf(&buf, `  <defs><filter id="bg-blur"><feGaussianBlur stdDeviation="%.1f"/></filter></defs>`+"\n", blur)
	}

	t.Walk(func(b *render.Box, _ int) bool {
		r.box(&buf, t, b)
		return true
	})

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) box(buf *bytes.Buffer, t *render.Tree, b *render.Box) {
	switch b.Kind {
	case render.KindCanvas, render.KindHero, render.KindSchedule, render.KindFooter:
		return
	case render.KindImage:
		if r.images {
			fmt.Fprintf(buf, `  <image href="%s" x="0" y="0" width="%.1f" height="%.1f" preserveAspectRatio="%s"%s/>`+"\n",
				html.EscapeString(b.Image), b.W, b.H, aspect(t.Sheet.Style.BackgroundFit, b.Align), blurAttr(b.Blur))
		}
	case render.KindLogo:
		if r.images {
			fmt.Fprintf(buf, `  <image class="logo" href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid meet"%s/>`+"\n",
				html.EscapeString(b.Image), b.X, b.Y, b.W, b.H, opacityAttr(b.Opacity))
		}
	case render.KindDivider:
		y := b.Y + b.H/2
		dash := ""
		if b.Dash != "" {
			dash = fmt.Sprintf(` stroke-dasharray="%s" stroke-linecap="round"`, b.Dash)
		}
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.0f"%s%s/>`+"\n",
			b.X, y, b.X+b.W, y, b.Stroke, b.H, dash, opacityAttr(b.Opacity))
	case render.KindText:
		r.text(buf, b)
	default:
		if b.Fill == "" {
			return
		}
		fmt.Fprintf(buf, `  <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"`, b.Kind, b.X, b.Y, b.W, b.H)
		if b.Radius > 0 {
			fmt.Fprintf(buf, ` rx="%.1f"`, b.Radius)
		}
		fmt.Fprintf(buf, ` fill="%s"%s/>`+"\n", b.Fill, opacityAttr(b.Opacity))
	}
}

func (r *svgRenderer) text(buf *bytes.Buffer, b *render.Box) {
	if b.Font == nil || len(b.Lines) == 0 {
		return
	}
	f := b.Font
	x, anchor := b.X, "start"
	switch b.Align {
	case render.AlignMiddle:
		x, anchor = b.X+b.W/2, "middle"
	case render.AlignEnd:
		x, anchor = b.X+b.W, "end"
	}
	fmt.Fprintf(buf, `  <text class="%s" x="%.1f" font-size="%.0f" font-weight="%d" fill="%s" text-anchor="%s" dominant-baseline="central"`,
		b.Element, x, f.FontSize, f.FontWeight, f.Color, anchor)
	if f.LetterSpacing != 0 {
		fmt.Fprintf(buf, ` letter-spacing="%.1f"`, f.LetterSpacing)
	}
	buf.WriteString(">")
	line := f.LinePx()
	for i, l := range b.Lines {
		fmt.Fprintf(buf, `<tspan x="%.1f" y="%.1f">%s</tspan>`, x, b.Y+float64(i)*line+line/2, html.EscapeString(l))
	}
	buf.WriteString("</text>\n")
}

func aspect(fit style.Fit, align render.Align) string {
	if fit == style.FitFill {
		return "none"
	}
	x := "xMid"
	switch align {
	case render.AlignStart:
		x = "xMin"
	case render.AlignEnd:
		x = "xMax"
	}
	if fit == style.FitContain {
		return x + "YMid meet"
	}
	return x + "YMid slice"
}

func opacityAttr(o float64) string {
	if o <= 0 || o >= 1 {
		return ""
	}
	return fmt.Sprintf(` opacity="%s"`, strings.TrimRight(fmt.Sprintf("%.2f", o), "0"))
}

func blurAttr(b float64) string {
	if b <= 0 {
		return ""
	}
	return ` filter="url(#bg-blur)"`
}
