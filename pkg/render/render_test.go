package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/slidekit/pkg/callout"
)

func testSlide() callout.Slide {
	return callout.NewSlide("https://images.dog.ceo/breeds/pug/1.jpg",
		callout.NewLabel("Nose & Ears", callout.LeftTop, callout.Point{X: 10, Y: 10}, callout.Point{X: 50, Y: 50}),
		callout.NewLabel("Tail", callout.RightBottom, callout.Point{X: 90, Y: 85}, callout.Point{X: 60, Y: 40}),
	)
}

func TestLayout(t *testing.T) {
	scene := Layout(testSlide(), 800, 600)

	require.Len(t, scene.Items, 2)
	lt, rb := scene.Items[0], scene.Items[1]

	assert.Equal(t, AnchorStart, lt.Anchor)
	assert.True(t, lt.Above)
	assert.Equal(t, callout.Point{X: 80, Y: 60}, lt.At)
	assert.InDelta(t, 400, lt.Line.End.X, 1e-9)
	assert.InDelta(t, 300, lt.Line.End.Y, 1e-9)
	assert.InDelta(t, (10+callout.StartOffset)*6, lt.Line.Start.Y, 1e-9)

	assert.Equal(t, AnchorEnd, rb.Anchor)
	assert.False(t, rb.Above)
}

func TestRenderSVG(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "Pug"
	out, err := SVGString(testSlide(), opts)
	require.NoError(t, err)

	assert.Contains(t, out, `<svg`)
	assert.Contains(t, out, `width="800" height="600"`)
	assert.Contains(t, out, `<title>Pug</title>`)
	assert.Contains(t, out, `https://images.dog.ceo/breeds/pug/1.jpg`)
	assert.Equal(t, 2, strings.Count(out, `class="leader"`))
	assert.Equal(t, 2, strings.Count(out, `class="arrow"`))
	assert.Contains(t, out, `stroke="#9B51E0"`)
	assert.Contains(t, out, `Nose &amp; Ears`)
	assert.Contains(t, out, `text-anchor="start"`)
	assert.Contains(t, out, `text-anchor="end"`)

	line := Layout(testSlide(), 800, 600).Items[0].Line
	assert.Contains(t, out, line.PathData())
}

func TestRenderPNG(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 160, 120

	bg := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			bg.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, testSlide(), bg, opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 160, 120), img.Bounds())

	// The green background fills the canvas away from the labels.
	r, g, b, _ := img.At(150, 5).RGBA()
	assert.Less(t, r>>8, uint32(40))
	assert.Greater(t, g>>8, uint32(100))
	assert.Less(t, b>>8, uint32(40))
}

func TestRenderImage_Placeholder(t *testing.T) {
	opts := Options{Width: 80, Height: 60}
	img, err := RenderImage(callout.NewSlide("missing.png"), nil, opts)
	require.NoError(t, err)

	r, g, b, _ := img.At(40, 30).RGBA()
	for _, v := range []uint32{r >> 8, g >> 8, b >> 8} {
		assert.InDelta(t, 238, v, 2)
	}
}

func TestRenderImage_BadColour(t *testing.T) {
	_, err := RenderImage(testSlide(), nil, Options{Stroke: "purple"})
	assert.ErrorContains(t, err, "stroke")
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#9B51E0")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x9B, 0x51, 0xE0, 0xFF}, c)

	c, err = ParseHexColor("fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c)

	c, err = ParseHexColor("#00000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, err = ParseHexColor("#zzzzzz")
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	slides := []callout.Slide{testSlide(), callout.NewSlide("b.jpg")}
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, slides, HTMLOptions{Title: "Demo"}))
	page := buf.String()

	assert.Contains(t, page, "<title>Demo</title>")
	assert.Equal(t, 2, strings.Count(page, `<article class="slide`))
	assert.Equal(t, 2, strings.Count(page, `<button class="dot`))
	assert.Contains(t, page, `aria-label="Go to slide 2"`)
	assert.Regexp(t, `var settle = +300 *;`, page)
	assert.Contains(t, page, `class="label label-lt"`)
	assert.Contains(t, page, "Nose &amp; Ears")
	assert.Contains(t, page, testSlide().Labels[1].LeaderLine().PathData())
}

func TestRenderHTML_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, nil, HTMLOptions{}))
	assert.NotContains(t, buf.String(), `class="slider"`)
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 7, 5))))
	require.NoError(t, f.Close())

	img, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, img.Bounds().Dx())

	_, err = NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestLoader_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dog.png" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "slidekit/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, image.NewRGBA(image.Rect(0, 0, 3, 9)))
	}))
	defer srv.Close()

	l := NewLoader()
	img, err := l.Load(context.Background(), srv.URL+"/dog.png")
	require.NoError(t, err)
	assert.Equal(t, 9, img.Bounds().Dy())

	_, err = l.Load(context.Background(), srv.URL+"/cat.png")
	assert.ErrorContains(t, err, "HTTP 404")
	assert.True(t, IsRemote(srv.URL))
	assert.False(t, IsRemote("dog.png"))
}
