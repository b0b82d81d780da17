package main

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/slidekit/pkg/callout"
	"github.com/ha1tch/slidekit/pkg/render"
)

// Styles
var (
	styleDefault     = tcell.StyleDefault
	styleTitle       = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleLeader      = tcell.StyleDefault.Foreground(strokeColor())
	styleLabel       = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	styleControl     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleControlDim  = tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
	styleDot         = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDotActive   = tcell.StyleDefault.Foreground(strokeColor())
	stylePlaceholder = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleStatus      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo     = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError    = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp        = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Hit test results for controls; dots return their slide index.
const (
	hitNone     = -1
	hitPrevious = -2
	hitNext     = -3
)

var arrowGlyphs = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

func strokeColor() tcell.Color {
	c, err := render.ParseHexColor(render.DefaultOptions().Stroke)
	if err != nil {
		return tcell.ColorPurple
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellRect is a screen region in cells.
type cellRect struct {
	X, Y, W, H int
}

// viewport is where the slide image is drawn. Sizes are in pixels; each
// cell holds two pixels stacked vertically.
type viewport struct {
	X, Y int // top-left cell
	W, H int // pixels
}

type scaledImage struct {
	w, h int
	img  *image.NRGBA
}

// imageArea leaves room for the title row, the side controls, the dots
// row, the help line and the status bar.
func imageArea(w, h int) cellRect {
	return cellRect{X: 4, Y: 1, W: max(w-8, 0), H: max(h-4, 0)}
}

// fitViewport centres an iw×ih image in area, keeping its aspect ratio.
// Unknown sizes use 4:3.
func fitViewport(area cellRect, iw, ih int) viewport {
	if iw <= 0 || ih <= 0 {
		iw, ih = 4, 3
	}
	pw, ph := area.W, area.H*2
	w, h := pw, ih*pw/iw
	if h > ph {
		w, h = iw*ph/ih, ph
	}
	h -= h % 2
	return viewport{
		X: area.X + (area.W-w)/2,
		Y: area.Y + (area.H-h/2)/2,
		W: w,
		H: h,
	}
}

func (vp viewport) empty() bool { return vp.W <= 0 || vp.H <= 0 }

// cell maps a pixel position to the screen cell containing it, clamped to
// the viewport.
func (vp viewport) cell(p callout.Point) (int, int) {
	x := clamp(int(math.Floor(p.X)), 0, vp.W-1)
	y := clamp(int(math.Floor(p.Y)), 0, vp.H-1)
	return vp.X + x, vp.Y + y/2
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// arrowGlyph picks the arrow closest to angle (radians, y pointing down).
func arrowGlyph(angle float64) rune {
	i := int(math.Round(angle / (math.Pi / 4)))
	return arrowGlyphs[((i%8)+8)%8]
}

// dotsOrigin returns the column of the first dot; dots are two cells apart.
func dotsOrigin(w, count int) int {
	return (w - (count*2 - 1)) / 2
}

// hitTest maps a click to a control.
func hitTest(x, y, w, h, count int) int {
	area := imageArea(w, h)
	if y >= area.Y && y < area.Y+area.H {
		if x <= 2 {
			return hitPrevious
		}
		if x >= w-3 {
			return hitNext
		}
	}
	if y == h-3 && count > 0 {
		x0 := dotsOrigin(w, count)
		if x >= x0 && (x-x0)%2 == 0 && (x-x0)/2 < count {
			return (x - x0) / 2
		}
	}
	return hitNone
}

func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	title := v.deck.Title
	if title == "" {
		title = v.name
	}
	v.drawString(max((w-runewidth.StringWidth(title))/2, 0), 0, title, styleTitle)

	if v.ctrl.Empty() {
		msg := "No slides"
		v.drawString((w-len(msg))/2, h/2, msg, stylePlaceholder)
	} else {
		v.drawSlide(w, h)
		v.drawControls(w, h)
		v.drawDots(w, h)
	}

	v.drawStatusBar(w, h)
}

func (v *Viewer) drawSlide(w, h int) {
	i := v.ctrl.Index()
	slide := v.deck.Slide(i)
	area := imageArea(w, h)

	img := v.images[i]
	iw, ih := 0, 0
	if img != nil {
		iw, ih = img.Bounds().Dx(), img.Bounds().Dy()
	}
	vp := fitViewport(area, iw, ih)
	if vp.empty() {
		return
	}

	if img != nil {
		v.drawImage(i, img, vp)
	} else {
		msg := "Loading..."
		if v.failed[i] != nil {
			msg = "Image unavailable"
		}
		v.drawPlaceholder(vp, msg)
	}

	scene := render.Layout(slide, float64(vp.W), float64(vp.H))
	for _, it := range scene.Items {
		v.drawLeader(vp, it.Line)
	}
	for _, it := range scene.Items {
		v.drawLabel(vp, it, w)
	}
}

// drawImage renders img with upper half blocks: the foreground is the top
// pixel and the background the bottom one.
func (v *Viewer) drawImage(i int, img image.Image, vp viewport) {
	s, ok := v.scaled[i]
	if !ok || s.w != vp.W || s.h != vp.H {
		s = scaledImage{w: vp.W, h: vp.H, img: imaging.Resize(img, vp.W, vp.H, imaging.Box)}
		v.scaled[i] = s
	}

	for row := 0; row < vp.H/2; row++ {
		for col := 0; col < vp.W; col++ {
			top := s.img.NRGBAAt(col, row*2)
			bottom := s.img.NRGBAAt(col, row*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			v.screen.SetContent(vp.X+col, vp.Y+row, '▀', nil, style)
		}
	}
}

func (v *Viewer) drawPlaceholder(vp viewport, msg string) {
	rows := vp.H / 2
	for row := 0; row < rows; row++ {
		for col := 0; col < vp.W; col++ {
			v.screen.SetContent(vp.X+col, vp.Y+row, '░', nil, stylePlaceholder)
		}
	}
	v.drawString(vp.X+(vp.W-len(msg))/2, vp.Y+rows/2, msg, styleDefault)
}

func (v *Viewer) drawLeader(vp viewport, l callout.LeaderLine) {
	n := max(8, int(l.Length()*1.5))
	pts := l.Sample(n)
	for _, p := range pts[:len(pts)-1] {
		x, y := vp.cell(p)
		v.screen.SetContent(x, y, '•', nil, styleLeader)
	}
	x, y := vp.cell(l.End)
	v.screen.SetContent(x, y, arrowGlyph(approachAngle(l)), nil, styleLeader)
}

// approachAngle is the direction into End in the line's own coordinates.
// l.Angle keeps the percent-space value after Transform, which differs once
// the two axes are scaled unequally.
func approachAngle(l callout.LeaderLine) float64 {
	d := l.End.Sub(l.Control)
	return math.Atan2(d.Y, d.X)
}

// drawLabel puts the text beside its start point: above it for top
// placements, below for bottom ones, reading away from the image edge.
func (v *Viewer) drawLabel(vp viewport, it render.Item, screenW int) {
	text := " " + it.Text + " "
	tw := runewidth.StringWidth(text)

	x, y := vp.cell(it.At)
	if it.Above {
		y--
	} else {
		y++
	}
	y = clamp(y, vp.Y, vp.Y+vp.H/2-1)
	if it.Anchor == render.AnchorEnd {
		x -= tw - 1
	}
	x = clamp(x, 0, max(screenW-tw, 0))

	v.drawString(x, y, text, styleLabel)
}

func (v *Viewer) drawControls(w, h int) {
	style := styleControl
	if v.ctrl.Transitioning() {
		style = styleControlDim
	}
	area := imageArea(w, h)
	y := area.Y + area.H/2
	v.screen.SetContent(1, y, '<', nil, style)
	v.screen.SetContent(w-2, y, '>', nil, style)
}

func (v *Viewer) drawDots(w, h int) {
	x0 := dotsOrigin(w, v.ctrl.Count())
	current := v.ctrl.Index()
	for i := 0; i < v.ctrl.Count(); i++ {
		r, style := '○', styleDot
		if i == current {
			r, style = '●', styleDotActive
		}
		v.screen.SetContent(x0+i*2, h-3, r, nil, style)
	}
}

func (v *Viewer) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	v.drawString(1, y, truncate(v.name, 30), styleStatus)

	status := v.ctrl.Status()
	v.drawString(w/2-len(status)/2, y, status, styleStatus)

	if v.message != "" {
		style := styleMsgInfo
		if v.messageType == MsgError {
			style = styleMsgError
		}
		v.drawString(w-runewidth.StringWidth(v.message)-2, y, v.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	v.drawString(1, y, "←/→ h/l:Navigate  1-9:Jump  Click:Arrows/Dots  q:Quit", styleHelp)
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
