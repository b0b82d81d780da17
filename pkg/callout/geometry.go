// Leader-line geometry for callout labels.
// A leader line is a quadratic Bézier from the label to the annotated point,
// finished with a two-segment chevron at the annotated point.

package callout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// StartOffset nudges the curve origin away from the label box edge.
	// Added to start.y for top placements, subtracted for bottom ones.
	StartOffset = 10.0 / 100

	// Curvature scales the normal vector added to the chord midpoint.
	Curvature = 0.25

	// ArrowLength and ArrowWidth size the chevron, in percent units.
	ArrowLength = 1.0
	ArrowWidth  = 1.0
)

// Point represents a 2D coordinate in percent of the container.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Perp returns p rotated by 90°: (-y, x).
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// Len returns the Euclidean length of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Rect is an axis-aligned rectangle given by its corners.
type Rect struct {
	Min, Max Point
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// AdjustStart applies the placement bias to the curve origin.
func AdjustStart(start Point, placement Placement) Point {
	adjusted := start
	switch placement {
	case LeftTop, RightTop:
		adjusted.Y += StartOffset
	case LeftBottom, RightBottom:
		adjusted.Y -= StartOffset
	}
	return adjusted
}

// ControlPoint returns the quadratic control point for a leader line and the
// adjusted start it was computed from.
func ControlPoint(start, end Point, placement Placement) (control, adjustedStart Point) {
	adjustedStart = AdjustStart(start, placement)
	mid := Midpoint(adjustedStart, end)
	normal := end.Sub(adjustedStart).Perp()
	return mid.Add(normal.Scale(Curvature)), adjustedStart
}

// LeaderLine is the computed geometry of one label's connector.
type LeaderLine struct {
	Start   Point // adjusted start
	Control Point
	End     Point

	// Angle is the approach direction at End in radians.
	// It is 0 when Control coincides with End.
	Angle float64

	// Arrow holds the two chevron tips; both segments start at End.
	Arrow [2]Point
}

// NewLeaderLine computes the curve and arrowhead for a label. It is defined
// for every finite input.
func NewLeaderLine(start, end Point, placement Placement) LeaderLine {
	control, adjusted := ControlPoint(start, end, placement)

	d := end.Sub(control)
	angle := math.Atan2(d.Y, d.X) // atan2(0, 0) == 0
	cos, sin := math.Cos(angle), math.Sin(angle)

	back := Point{end.X - ArrowLength*cos, end.Y - ArrowLength*sin}
	wing := Point{ArrowWidth * sin, -ArrowWidth * cos}

	return LeaderLine{
		Start:   adjusted,
		Control: control,
		End:     end,
		Angle:   angle,
		Arrow:   [2]Point{back.Add(wing), back.Sub(wing)},
	}
}

// IsDegenerate reports whether the curve has zero length.
func (l LeaderLine) IsDegenerate() bool {
	return l.Start == l.End
}

// At evaluates the curve at t ∈ [0,1].
func (l LeaderLine) At(t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*l.Start.X + 2*mt*t*l.Control.X + t*t*l.End.X,
		Y: mt*mt*l.Start.Y + 2*mt*t*l.Control.Y + t*t*l.End.Y,
	}
}

// Tangent returns the derivative of the curve at t.
func (l LeaderLine) Tangent(t float64) Point {
	mt := 1 - t
	return Point{
		X: 2*mt*(l.Control.X-l.Start.X) + 2*t*(l.End.X-l.Control.X),
		Y: 2*mt*(l.Control.Y-l.Start.Y) + 2*t*(l.End.Y-l.Control.Y),
	}
}

// Sample returns n+1 evenly spaced points along the curve, from Start to End.
func (l LeaderLine) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = l.At(float64(i) / float64(n))
	}
	return pts
}

// Length approximates the arc length of the curve by sampling.
func (l LeaderLine) Length() float64 {
	pts := l.Sample(100)
	length := 0.0
	for i := 1; i < len(pts); i++ {
		length += pts[i].Sub(pts[i-1]).Len()
	}
	return length
}

// Bounds returns the bounding box of the curve and its arrowhead.
func (l LeaderLine) Bounds() Rect {
	r := Rect{Min: l.Start, Max: l.Start}
	extend := func(p Point) {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}

	extend(l.End)
	// A quadratic has at most one interior extremum per axis.
	for _, t := range []float64{extremumT(l.Start.X, l.Control.X, l.End.X), extremumT(l.Start.Y, l.Control.Y, l.End.Y)} {
		if t > 0 && t < 1 {
			extend(l.At(t))
		}
	}
	extend(l.Arrow[0])
	extend(l.Arrow[1])
	return r
}

func extremumT(p0, p1, p2 float64) float64 {
	den := p0 - 2*p1 + p2
	if den == 0 {
		return -1
	}
	return (p0 - p1) / den
}

// PathData returns the curve as SVG path data: "M{start} Q{control} {end}".
func (l LeaderLine) PathData() string {
	return fmt.Sprintf("M%s,%s Q%s,%s %s,%s",
		num(l.Start.X), num(l.Start.Y),
		num(l.Control.X), num(l.Control.Y),
		num(l.End.X), num(l.End.Y))
}

// ArrowPathData returns the chevron as SVG path data: two strokes from End.
func (l LeaderLine) ArrowPathData() string {
	var sb strings.Builder
	for _, tip := range l.Arrow {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "M%s,%s L%s,%s", num(l.End.X), num(l.End.Y), num(tip.X), num(tip.Y))
	}
	return sb.String()
}

// Transform maps the line into another coordinate space, e.g. pixels.
// Angle stays in the original space.
func (l LeaderLine) Transform(fn func(Point) Point) LeaderLine {
	return LeaderLine{
		Start:   fn(l.Start),
		Control: fn(l.Control),
		End:     fn(l.End),
		Angle:   l.Angle,
		Arrow:   [2]Point{fn(l.Arrow[0]), fn(l.Arrow[1])},
	}
}

// num formats a coordinate with the shortest exact representation.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
