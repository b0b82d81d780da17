package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/ha1tch/slidekit/pkg/callout"
)

// RenderSVG writes one slide as an SVG document.
func RenderSVG(w io.Writer, s callout.Slide, opts Options) error {
	opts = opts.withDefaults()
	scene := Layout(s, float64(opts.Width), float64(opts.Height))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(opts.Width, opts.Height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	canvas.Rect(0, 0, opts.Width, opts.Height, fmt.Sprintf(`fill="%s"`, html.EscapeString(opts.Background)))
	if scene.Image != "" {
		canvas.Image(0, 0, opts.Width, opts.Height, html.EscapeString(scene.Image),
			`preserveAspectRatio="xMidYMid meet"`)
	}

	stroke := fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%g" vector-effect="non-scaling-stroke"`,
		html.EscapeString(opts.Stroke), opts.StrokeWidth)

	for _, it := range scene.Items {
		canvas.Gstyle("pointer-events:none")
		canvas.Path(it.Line.PathData(), stroke, `class="leader"`)
		canvas.Path(it.Line.ArrowPathData(), stroke, `class="arrow"`)

		baseline := "text-after-edge"
		if !it.Above {
			baseline = "text-before-edge"
		}
		canvas.Text(round(it.At.X), round(it.At.Y), it.Text,
			fmt.Sprintf(`text-anchor="%s" dominant-baseline="%s"`, it.Anchor, baseline),
			fmt.Sprintf(`font-family="sans-serif" font-size="%g" fill="#333"`, opts.FontSize),
			`class="label"`)
		canvas.Gend()
	}

	canvas.End()
	_, err := w.Write(buf.Bytes())
	return err
}

// SVGString renders one slide and returns the document as a string.
func SVGString(s callout.Slide, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, s, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func round(v float64) int {
	return int(math.Round(v))
}
