package sink

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/storyboard/pkg/fonts"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/style"
)

// ImageSource loads images referenced by URL.
type ImageSource interface {
	Image(ctx context.Context, url string) (image.Image, error)
}

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale   float64
	images  ImageSource
	fonts   *fonts.Set
	onError func(url string, err error)
	faces   map[faceKey]font.Face
}

type faceKey struct {
	size   float64
	weight int
}

// WithScale sets the raster scale factor (default 1.0, the 1080×1920 canvas).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithImages sets the loader for background and logo images. Without one,
// images are skipped.
func WithImages(src ImageSource) PNGOption { return func(r *pngRenderer) { r.images = src } }

// WithFonts sets the font family. Defaults to the embedded Go fonts.
func WithFonts(s *fonts.Set) PNGOption { return func(r *pngRenderer) { r.fonts = s } }

// WithImageErrorHandler is called for every image that fails to load. The
// render continues without that image.
func WithImageErrorHandler(fn func(url string, err error)) PNGOption {
	return func(r *pngRenderer) { r.onError = fn }
}

// RenderPNG rasterizes the tree.
func RenderPNG(ctx context.Context, t *render.Tree, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, faces: make(map[faceKey]font.Face)}
	for _, opt := range opts {
		opt(&r)
	}
	if r.fonts == nil {
		r.fonts = fonts.Default()
	}
	defer r.closeFaces()

	dc := gg.NewContext(int(t.Width*r.scale+0.5), int(t.Height*r.scale+0.5))
	dc.Scale(r.scale, r.scale)

	var err error
	t.Walk(func(b *render.Box, _ int) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		r.box(ctx, dc, t, b)
		return true
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) box(ctx context.Context, dc *gg.Context, t *render.Tree, b *render.Box) {
	switch b.Kind {
	case render.KindCanvas, render.KindHero, render.KindSchedule, render.KindFooter:
	case render.KindImage:
		if img := r.load(ctx, b.Image); img != nil {
			img = fitImage(img, t.Sheet.Style.BackgroundFit, b)
			if b.Blur > 0 {
				img = imaging.Blur(img, b.Blur)
			}
			bounds := img.Bounds()
			dc.DrawImage(img, int(b.X+(b.W-float64(bounds.Dx()))/2), int(b.Y+(b.H-float64(bounds.Dy()))/2))
		}
	case render.KindLogo:
		if img := r.load(ctx, b.Image); img != nil {
			img = imaging.Fit(img, int(b.W), int(b.H), imaging.Lanczos)
			if b.Opacity > 0 && b.Opacity < 1 {
				img = fade(img, b.Opacity)
			}
			bounds := img.Bounds()
			dc.DrawImage(img, int(b.X+(b.W-float64(bounds.Dx()))/2), int(b.Y+(b.H-float64(bounds.Dy()))/2))
		}
	case render.KindDivider:
		dc.SetColor(parseColor(b.Stroke, b.Opacity))
		dc.SetLineWidth(b.H)
		dc.SetDash(parseDash(b.Dash)...)
		y := b.Y + b.H/2
		dc.DrawLine(b.X, y, b.X+b.W, y)
		dc.Stroke()
		dc.SetDash()
	case render.KindText:
		r.text(dc, b)
	default:
		if b.Fill == "" {
			return
		}
		dc.SetColor(parseColor(b.Fill, b.Opacity))
		if b.Radius > 0 {
			dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, b.Radius)
		} else {
			dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		}
		dc.Fill()
	}
}

func (r *pngRenderer) text(dc *gg.Context, b *render.Box) {
	if b.Font == nil || len(b.Lines) == 0 {
		return
	}
	f := b.Font
	dc.SetFontFace(r.face(f.FontSize, f.FontWeight))
	dc.SetColor(parseColor(f.Color, 0))

	line := f.LinePx()
	for i, l := range b.Lines {
		y := b.Y + float64(i)*line + line/2
		w, _ := dc.MeasureString(l)
		if n := utf8.RuneCountInString(l); n > 1 {
			w += f.LetterSpacing * float64(n-1)
		}
		x := b.X
		switch b.Align {
		case render.AlignMiddle:
			x = b.X + (b.W-w)/2
		case render.AlignEnd:
			x = b.X + b.W - w
		}
		if f.LetterSpacing == 0 {
			dc.DrawStringAnchored(l, x, y, 0, 0.5)
			continue
		}
		for _, ch := range l {
			s := string(ch)
			dc.DrawStringAnchored(s, x, y, 0, 0.5)
			cw, _ := dc.MeasureString(s)
			x += cw + f.LetterSpacing
		}
	}
}

func (r *pngRenderer) face(size float64, weight int) font.Face {
	key := faceKey{size: size, weight: weight}
	if f, ok := r.faces[key]; ok {
		return f
	}
	f := r.fonts.NewFace(size, weight)
	r.faces[key] = f
	return f
}

func (r *pngRenderer) closeFaces() {
	for _, f := range r.faces {
		_ = f.Close()
	}
}

func (r *pngRenderer) load(ctx context.Context, url string) image.Image {
	if r.images == nil || url == "" {
		return nil
	}
	img, err := r.images.Image(ctx, url)
	if err != nil {
		if r.onError != nil {
			r.onError(url, err)
		}
		return nil
	}
	return img
}

// fitImage sizes a background image to its box following the style's fit.
func fitImage(img image.Image, fit style.Fit, b *render.Box) image.Image {
	w, h := int(b.W), int(b.H)
	switch fit {
	case style.FitContain:
		return imaging.Fit(img, w, h, imaging.Lanczos)
	case style.FitFill:
		return imaging.Resize(img, w, h, imaging.Lanczos)
	default:
		return imaging.Fill(img, w, h, anchorFor(b.Align), imaging.Lanczos)
	}
}

func anchorFor(a render.Align) imaging.Anchor {
	switch a {
	case render.AlignStart:
		return imaging.Left
	case render.AlignEnd:
		return imaging.Right
	default:
		return imaging.Center
	}
}

func fade(img image.Image, opacity float64) image.Image {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = uint8(float64(c.A)*opacity + 0.5)
		return c
	})
}

func parseDash(s string) []float64 {
	var out []float64
	for _, f := range strings.Fields(s) {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}
