// Package demo builds randomly annotated decks from a list of image URLs.
package demo

import (
	"fmt"
	"math/rand/v2"

	"github.com/ha1tch/slidekit/pkg/callout"
	"github.com/ha1tch/slidekit/pkg/deck"
)

// Title is the title of generated decks.
const Title = "Demo"

// StartPosition picks a label position in the corner matching p:
// left placements use x in [5,25), right ones [75,95); top placements
// use y in [5,25), bottom ones [75,95).
func StartPosition(p callout.Placement, rng *rand.Rand) callout.Point {
	x := rng.Float64()*20 + 5
	y := rng.Float64()*20 + 5
	if !p.IsLeft() {
		x += 70
	}
	if !p.IsTop() {
		y += 70
	}
	return callout.Point{X: x, Y: y}
}

// endPosition picks a target in the middle half of the image.
func endPosition(rng *rand.Rand) callout.Point {
	return callout.Point{X: rng.Float64()*50 + 25, Y: rng.Float64()*50 + 25}
}

func label(text string, p callout.Placement, rng *rand.Rand) callout.Label {
	return callout.NewLabel(text, p, StartPosition(p, rng), endPosition(rng))
}

// Slides builds one slide per URL with two labels on the same side, one top
// and one bottom. The first label walks callout.Placements from slide to
// slide; the second is two steps ahead.
func Slides(urls []string, rng *rand.Rand) []callout.Slide {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	cycle := callout.Placements
	slides := make([]callout.Slide, 0, len(urls))
	for i, u := range urls {
		slides = append(slides, callout.NewSlide(u,
			label(fmt.Sprintf("Label %d", i+1), cycle[i%4], rng),
			label(fmt.Sprintf("Extra %d", i+1), cycle[(i+2)%4], rng),
		))
	}
	return slides
}

// Deck wraps Slides in a deck titled "Demo".
func Deck(urls []string, rng *rand.Rand) *deck.Deck {
	return deck.New(Title, Slides(urls, rng)...)
}

// Seeded returns a deterministic generator for seed.
func Seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
