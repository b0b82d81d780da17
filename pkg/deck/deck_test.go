package deck

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/slidekit/pkg/callout"
)

func sampleDeck() *Deck {
	return New("Dogs",
		callout.NewSlide("https://images.dog.ceo/breeds/husky/n02110185_1469.jpg",
			callout.NewLabel("Label 1", callout.LeftTop, callout.Point{X: 5, Y: 25}, callout.Point{X: 40, Y: 60}),
			callout.NewLabel("Extra 1", callout.LeftBottom, callout.Point{X: 12, Y: 80}, callout.Point{X: 55, Y: 30}),
		),
		callout.NewSlide("testdata/cat.png"),
	)
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleDeck().Validate())

	assert.ErrorIs(t, (&Deck{}).Validate(), ErrNoSlides)

	d := sampleDeck()
	d.Slides[1].Image = "  "
	assert.ErrorContains(t, d.Validate(), "slide 2: missing image reference")

	d = sampleDeck()
	d.Slides[0].Labels[1].Text = ""
	assert.ErrorContains(t, d.Validate(), "slide 1, label 2: empty text")

	d = sampleDeck()
	d.Slides[0].Labels[0].Placement = "up"
	assert.ErrorIs(t, d.Validate(), callout.ErrUnknownPlacement)
}

func TestValidate_IgnoresCoordinateRange(t *testing.T) {
	d := New("", callout.NewSlide("a.png",
		callout.NewLabel("off canvas", callout.RightBottom, callout.Point{X: -20, Y: 140}, callout.Point{X: 300, Y: -1})))
	assert.NoError(t, d.Validate())
}

func TestJSONRoundTrip(t *testing.T) {
	in := sampleDeck()
	data, err := ToJSON(in, false)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"imageUrl"`)

	out, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestYAMLRoundTrip(t *testing.T) {
	in := sampleDeck()
	data, err := ToYAML(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "placement: lt")

	out, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseYAML_LongPlacementNames(t *testing.T) {
	src := `
title: Manual
slides:
  - image: dog.jpg
    labels:
      - label: Ear
        placement: right-top
        start: {x: 80, y: 10}
        end: {x: 50, y: 40}
`
	d, err := ParseYAML([]byte(src))
	require.NoError(t, err)
	require.Equal(t, 1, d.Len())
	assert.Equal(t, callout.RightTop, d.Slide(0).Labels[0].Placement)

	_, err = ParseYAML([]byte("slides:\n  - image: a\n    labels:\n      - label: x\n        placement: centre\n"))
	assert.Error(t, err)
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	in := sampleDeck()

	for _, name := range []string{"deck.json", "deck.yaml", "deck.YML"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, in))

			out, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "deck.toml"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	assert.ErrorIs(t, WriteFile(filepath.Join(dir, "deck.txt"), sampleDeck()), ErrUnknownFormat)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = ReadFile(bad)
	assert.ErrorContains(t, err, "parse bad.json")
}

func TestInfo(t *testing.T) {
	info := sampleDeck().Info()

	assert.True(t, strings.HasPrefix(info, "Deck: Dogs\n"))
	assert.Contains(t, info, "Slides: 2")
	assert.Contains(t, info, "Labels: 2")
	assert.Contains(t, info, "left-top     Label 1 (5.0,25.0) -> (40.0,60.0)")
	assert.Contains(t, New("").Info(), "(untitled)")
}
