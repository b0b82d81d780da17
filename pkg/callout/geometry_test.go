package callout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestAdjustStart(t *testing.T) {
	start := Point{X: 5, Y: 25}

	tests := []struct {
		placement Placement
		wantY     float64
	}{
		{LeftTop, 25.1},
		{RightTop, 25.1},
		{LeftBottom, 24.9},
		{RightBottom, 24.9},
	}

	for _, tt := range tests {
		t.Run(tt.placement.Name(), func(t *testing.T) {
			got := AdjustStart(start, tt.placement)
			assert.Equal(t, start.X, got.X, "x must not move")
			assert.InDelta(t, tt.wantY, got.Y, eps)
			assert.InDelta(t, StartOffset, math.Abs(got.Y-start.Y), eps)
			if tt.placement.IsTop() {
				assert.Greater(t, got.Y, start.Y)
			} else {
				assert.Less(t, got.Y, start.Y)
			}
		})
	}
}

func TestControlPoint(t *testing.T) {
	// adjusted start (10, 10.1), end (30, 50.1): d = (20, 40), n = (-40, 20)
	control, adjusted := ControlPoint(Point{10, 10}, Point{30, 50.1}, LeftTop)

	assert.InDelta(t, 10.1, adjusted.Y, eps)
	assert.InDelta(t, 20-40*Curvature, control.X, eps)
	assert.InDelta(t, 30.1+20*Curvature, control.Y, eps)
}

func TestNewLeaderLine_Deterministic(t *testing.T) {
	start, end := Point{12.5, 80}, Point{47, 33}
	for _, p := range Placements {
		a := NewLeaderLine(start, end, p)
		b := NewLeaderLine(start, end, p)
		assert.Equal(t, a, b, "placement %s", p)
	}
}

func TestNewLeaderLine_CurveEndpoints(t *testing.T) {
	l := NewLeaderLine(Point{80, 85}, Point{40, 50}, RightBottom)

	assert.Equal(t, l.Start, l.At(0))
	p := l.At(1)
	assert.InDelta(t, l.End.X, p.X, eps)
	assert.InDelta(t, l.End.Y, p.Y, eps)
	assert.False(t, l.IsDegenerate())
	assert.Greater(t, l.Length(), l.End.Sub(l.Start).Len()-eps, "curve can't be shorter than its chord")
}

func TestNewLeaderLine_Arrowhead(t *testing.T) {
	// Control straight left of End gives angle 0, so the chevron opens to the left.
	l := NewLeaderLine(Point{50, 49.9}, Point{50, 50}, LeftTop)

	require.True(t, l.IsDegenerate())
	assert.Equal(t, 0.0, l.Angle)
	assert.False(t, math.IsNaN(l.Angle))
	assert.Equal(t, Point{49, 49}, l.Arrow[0])
	assert.Equal(t, Point{49, 51}, l.Arrow[1])
}

func TestNewLeaderLine_ArrowPointsAlongApproach(t *testing.T) {
	l := NewLeaderLine(Point{10, 10}, Point{60, 70}, LeftTop)

	// Both tips sit ArrowLength behind End along the approach and
	// ArrowWidth to either side of it.
	dir := Point{math.Cos(l.Angle), math.Sin(l.Angle)}
	for i, tip := range l.Arrow {
		v := tip.Sub(l.End)
		along := v.X*dir.X + v.Y*dir.Y
		across := v.X*dir.Perp().X + v.Y*dir.Perp().Y
		assert.InDelta(t, -ArrowLength, along, eps, "tip %d", i)
		assert.InDelta(t, ArrowWidth, math.Abs(across), eps, "tip %d", i)
	}
	assert.InDelta(t, math.Hypot(2*ArrowWidth, 0), l.Arrow[0].Sub(l.Arrow[1]).Len(), eps)
}

func TestLeaderLine_PathData(t *testing.T) {
	l := NewLeaderLine(Point{50, 49.9}, Point{50, 50}, LeftTop)

	assert.Equal(t, "M50,50 Q50,50 50,50", l.PathData())
	assert.Equal(t, "M50,50 L49,49 M50,50 L49,51", l.ArrowPathData())
}

func TestLeaderLine_Bounds(t *testing.T) {
	l := NewLeaderLine(Point{10, 20}, Point{70, 60}, RightBottom)
	b := l.Bounds()

	for _, p := range l.Sample(50) {
		assert.True(t, b.Contains(Point{p.X, p.Y}) ||
			math.Abs(p.X-b.Min.X) < eps || math.Abs(p.X-b.Max.X) < eps ||
			math.Abs(p.Y-b.Min.Y) < eps || math.Abs(p.Y-b.Max.Y) < eps,
			"sample %v outside %v", p, b)
	}
	assert.True(t, b.Contains(l.Arrow[0]))
	assert.True(t, b.Contains(l.Arrow[1]))
}

func TestLeaderLine_Sample(t *testing.T) {
	l := NewLeaderLine(Point{10, 20}, Point{70, 60}, LeftBottom)

	pts := l.Sample(4)
	require.Len(t, pts, 5)
	assert.Equal(t, l.At(0.5), pts[2])
	assert.Len(t, l.Sample(0), 2)
}

func TestLeaderLine_Transform(t *testing.T) {
	l := NewLeaderLine(Point{10, 20}, Point{70, 60}, LeftBottom)
	px := l.Transform(func(p Point) Point { return Point{p.X * 8, p.Y * 6} })

	assert.InDelta(t, l.End.X*8, px.End.X, eps)
	assert.InDelta(t, l.Control.Y*6, px.Control.Y, eps)
	assert.Equal(t, l.Angle, px.Angle)
}

func TestLeaderLine_TangentAtEnd(t *testing.T) {
	l := NewLeaderLine(Point{10, 20}, Point{70, 60}, LeftTop)
	tan := l.Tangent(1)

	assert.InDelta(t, l.Angle, math.Atan2(tan.Y, tan.X), 1e-9)
}
