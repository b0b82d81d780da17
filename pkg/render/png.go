// Native PNG rendering for annotated slides.
// Mirrors the SVG renderer output using gg, drawn at 4x and downsampled.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ha1tch/slidekit/pkg/callout"
)

// supersample is the factor the slide is drawn at before downsampling.
const supersample = 4

var (
	colorPlaceholder = color.RGBA{238, 238, 238, 255} // #eee
	colorLabelText   = color.RGBA{51, 51, 51, 255}    // #333
	colorLabelFill   = color.RGBA{255, 255, 255, 230}
)

var (
	regularOnce sync.Once
	regularFont *truetype.Font
	regularErr  error
)

func labelFace(size float64) (font.Face, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = truetype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, regularErr
	}
	return truetype.NewFace(regularFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	}), nil
}

// RenderImage draws one slide. bg is the slide image; nil draws a
// placeholder so a slide can be shown before its image has loaded.
func RenderImage(s callout.Slide, bg image.Image, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	w, h := opts.Width*supersample, opts.Height*supersample

	stroke, err := ParseHexColor(opts.Stroke)
	if err != nil {
		return nil, fmt.Errorf("stroke: %w", err)
	}
	fill, err := ParseHexColor(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	face, err := labelFace(opts.FontSize * supersample)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(fill)
	dc.Clear()

	if bg != nil {
		fw, fh := fitSize(bg.Bounds().Dx(), bg.Bounds().Dy(), w, h)
		fitted := imaging.Resize(bg, fw, fh, imaging.Lanczos)
		dc.DrawImageAnchored(fitted, w/2, h/2, 0.5, 0.5)
	} else {
		dc.SetColor(colorPlaceholder)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
	}

	dc.SetFontFace(face)
	scene := Layout(s, float64(w), float64(h))
	for _, it := range scene.Items {
		drawLeader(dc, it.Line, stroke, opts.StrokeWidth*supersample)
		drawLabel(dc, it, stroke, supersample)
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)
	return out, nil
}

// fitSize scales (sw, sh) up or down to fit inside (w, h), keeping the
// aspect ratio like object-fit: contain.
func fitSize(sw, sh, w, h int) (int, int) {
	if sw <= 0 || sh <= 0 {
		return w, h
	}
	fw, fh := w, sh*w/sw
	if fh > h {
		fw, fh = sw*h/sh, h
	}
	return max(fw, 1), max(fh, 1)
}

// RenderPNG draws one slide and encodes it as PNG.
func RenderPNG(w io.Writer, s callout.Slide, bg image.Image, opts Options) error {
	img, err := RenderImage(s, bg, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func drawLeader(dc *gg.Context, l callout.LeaderLine, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.SetLineCapRound()

	dc.MoveTo(l.Start.X, l.Start.Y)
	dc.QuadraticTo(l.Control.X, l.Control.Y, l.End.X, l.End.Y)
	dc.Stroke()

	for _, tip := range l.Arrow {
		dc.DrawLine(l.End.X, l.End.Y, tip.X, tip.Y)
		dc.Stroke()
	}
}

// drawLabel draws the text on a rounded box so it stays readable on photos.
func drawLabel(dc *gg.Context, it Item, border color.Color, scale float64) {
	tw, th := dc.MeasureString(it.Text)
	pad := 4 * scale

	ax, ay := 0.0, 1.0
	if it.Anchor == AnchorEnd {
		ax = 1
	}
	if it.Above {
		ay = 0
	}

	x := it.At.X - ax*tw
	top := it.At.Y - th
	if !it.Above {
		top = it.At.Y
	}

	dc.SetColor(colorLabelFill)
	dc.DrawRoundedRectangle(x-pad, top-pad, tw+2*pad, th+2*pad, pad)
	dc.FillPreserve()
	dc.SetColor(border)
	dc.SetLineWidth(scale)
	dc.Stroke()

	dc.SetColor(colorLabelText)
	dc.DrawStringAnchored(it.Text, it.At.X, it.At.Y, ax, ay)
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
