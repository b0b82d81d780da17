package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/slidekit/pkg/callout"
)

func inRange(t *testing.T, v, lo, hi float64) {
	t.Helper()
	assert.GreaterOrEqual(t, v, lo)
	assert.Less(t, v, hi)
}

func TestStartPosition(t *testing.T) {
	ranges := map[callout.Placement][4]float64{
		callout.LeftTop:     {5, 25, 5, 25},
		callout.RightTop:    {75, 95, 5, 25},
		callout.LeftBottom:  {5, 25, 75, 95},
		callout.RightBottom: {75, 95, 75, 95},
	}

	rng := Seeded(1)
	for p, r := range ranges {
		t.Run(p.Name(), func(t *testing.T) {
			for i := 0; i < 200; i++ {
				pt := StartPosition(p, rng)
				inRange(t, pt.X, r[0], r[1])
				inRange(t, pt.Y, r[2], r[3])
			}
		})
	}
}

func TestSlides(t *testing.T) {
	urls := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}
	slides := Slides(urls, Seeded(42))
	require.Len(t, slides, 5)

	want := [][2]callout.Placement{
		{callout.LeftTop, callout.LeftBottom},
		{callout.RightTop, callout.RightBottom},
		{callout.LeftBottom, callout.LeftTop},
		{callout.RightBottom, callout.RightTop},
		{callout.LeftTop, callout.LeftBottom},
	}

	for i, s := range slides {
		assert.Equal(t, urls[i], s.Image)
		require.Len(t, s.Labels, 2)
		assert.Equal(t, want[i][0], s.Labels[0].Placement)
		assert.Equal(t, want[i][1], s.Labels[1].Placement)
		for _, l := range s.Labels {
			inRange(t, l.End.X, 25, 75)
			inRange(t, l.End.Y, 25, 75)
		}
	}

	for i, s := range slides {
		a, b := s.Labels[0].Placement, s.Labels[1].Placement
		assert.Equal(t, a.IsLeft(), b.IsLeft(), "slide %d labels share a side", i+1)
		assert.NotEqual(t, a.IsTop(), b.IsTop(), "slide %d labels split top and bottom", i+1)
	}

	assert.Equal(t, "Label 1", slides[0].Labels[0].Text)
	assert.Equal(t, "Extra 3", slides[2].Labels[1].Text)
}

func TestSlides_Deterministic(t *testing.T) {
	urls := []string{"a.jpg", "b.jpg"}
	assert.Equal(t, Slides(urls, Seeded(7)), Slides(urls, Seeded(7)))
	assert.Empty(t, Slides(nil, nil))
}

func TestDeck(t *testing.T) {
	d := Deck([]string{"a.jpg", "b.jpg"}, Seeded(3))
	assert.Equal(t, "Demo", d.Title)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 4, d.LabelCount())
	assert.NoError(t, d.Validate())
}
