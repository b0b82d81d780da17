// Package render draws annotated slides as SVG, PNG and HTML.
//
// All renderers share one layout step: label geometry is computed in
// percent space by package callout and then mapped onto the output canvas.
package render

import (
	"github.com/ha1tch/slidekit/pkg/callout"
)

// Anchor is the horizontal alignment of label text against its start point.
type Anchor string

const (
	AnchorStart Anchor = "start" // text extends to the right
	AnchorEnd   Anchor = "end"   // text extends to the left
)

// Options controls output size and styling.
type Options struct {
	Width       int     // canvas width in pixels
	Height      int     // canvas height in pixels
	Title       string  // document title (SVG/HTML only)
	FontSize    float64 // label font size in pixels
	Stroke      string  // leader line colour
	StrokeWidth float64 // leader line width in pixels
	Background  string  // canvas colour behind the image
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      600,
		FontSize:    14,
		Stroke:      "#9B51E0",
		StrokeWidth: 2,
		Background:  "#ffffff",
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	if o.Stroke == "" {
		o.Stroke = def.Stroke
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = def.StrokeWidth
	}
	if o.Background == "" {
		o.Background = def.Background
	}
	return o
}

// Item is one label laid out on the canvas.
type Item struct {
	Text   string
	Line   callout.LeaderLine // in canvas units
	At     callout.Point      // text reference point in canvas units
	Anchor Anchor
	Above  bool // text sits above At (top placements) rather than below it
}

// Scene is a slide laid out on a canvas of Width × Height units.
type Scene struct {
	Width, Height float64
	Image         string
	Items         []Item
}

// Layout maps a slide onto a canvas of the given size.
func Layout(s callout.Slide, width, height float64) Scene {
	toCanvas := func(p callout.Point) callout.Point {
		return callout.Point{X: p.X * width / 100, Y: p.Y * height / 100}
	}

	scene := Scene{Width: width, Height: height, Image: s.Image}
	for _, l := range s.Labels {
		anchor := AnchorEnd
		if l.Placement.IsLeft() {
			// Labels on the left half read into the image.
			anchor = AnchorStart
		}
		scene.Items = append(scene.Items, Item{
			Text:   l.Text,
			Line:   l.LeaderLine().Transform(toCanvas),
			At:     toCanvas(l.Start),
			Anchor: anchor,
			Above:  l.Placement.IsTop(),
		})
	}
	return scene
}
