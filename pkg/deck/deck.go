// Package deck reads and writes slide decks.
package deck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ha1tch/slidekit/pkg/callout"
)

// ErrNoSlides is returned by Validate for a deck without slides.
var ErrNoSlides = errors.New("deck has no slides")

// Deck is an ordered set of annotated slides.
type Deck struct {
	Title       string          `json:"title,omitempty" yaml:"title,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Slides      []callout.Slide `json:"slides" yaml:"slides"`
}

// New creates a deck with the given title and slides.
func New(title string, slides ...callout.Slide) *Deck {
	return &Deck{Title: title, Slides: append([]callout.Slide(nil), slides...)}
}

// Len returns the number of slides.
func (d *Deck) Len() int { return len(d.Slides) }

// Slide returns slide i. It panics if i is out of range.
func (d *Deck) Slide(i int) callout.Slide { return d.Slides[i] }

// Validate checks that the deck is well-formed. Label coordinates are not
// range-checked.
func (d *Deck) Validate() error {
	if len(d.Slides) == 0 {
		return ErrNoSlides
	}

	for i, s := range d.Slides {
		if strings.TrimSpace(s.Image) == "" {
			return fmt.Errorf("slide %d: missing image reference", i+1)
		}
		for j, l := range s.Labels {
			if strings.TrimSpace(l.Text) == "" {
				return fmt.Errorf("slide %d, label %d: empty text", i+1, j+1)
			}
			if !l.Placement.Valid() {
				return fmt.Errorf("slide %d, label %d: %w: %q", i+1, j+1, callout.ErrUnknownPlacement, l.Placement)
			}
		}
	}

	return nil
}

// LabelCount returns the total number of labels across all slides.
func (d *Deck) LabelCount() int {
	n := 0
	for _, s := range d.Slides {
		n += len(s.Labels)
	}
	return n
}

// Info returns a human-readable summary of the deck.
func (d *Deck) Info() string {
	var sb strings.Builder
	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&sb, "Deck: %s\n", title)
	if d.Description != "" {
		fmt.Fprintf(&sb, "  Description: %s\n", d.Description)
	}
	fmt.Fprintf(&sb, "  Slides: %d\n", len(d.Slides))
	fmt.Fprintf(&sb, "  Labels: %d\n", d.LabelCount())
	for i, s := range d.Slides {
		fmt.Fprintf(&sb, "  [%d] %s\n", i+1, s.Image)
		for _, l := range s.Labels {
			fmt.Fprintf(&sb, "      %-12s %s (%.1f,%.1f) -> (%.1f,%.1f)\n",
				l.Placement.Name(), l.Text, l.Start.X, l.Start.Y, l.End.X, l.End.Y)
		}
	}
	return sb.String()
}
