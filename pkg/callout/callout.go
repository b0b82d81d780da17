// Package callout provides the slide data model and the leader-line geometry
// used to connect a text label to a point on an image.
//
// All coordinates are percentages of the slide container, so (0,0) is the
// top-left corner and (100,100) the bottom-right one. Values outside that
// range are accepted as-is.
package callout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPlacement is returned when a placement tag cannot be parsed.
var ErrUnknownPlacement = errors.New("unknown placement")

// Placement is the quadrant a label sits in relative to its leader line.
type Placement string

const (
	LeftTop     Placement = "lt"
	LeftBottom  Placement = "lb"
	RightTop    Placement = "rt"
	RightBottom Placement = "rb"
)

// Placements lists every placement in the order the demo cycles through them.
var Placements = []Placement{LeftTop, RightTop, LeftBottom, RightBottom}

// ParsePlacement accepts the short tags ("lt") and the long names
// ("left-top"), case-insensitively.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lt", "left-top":
		return LeftTop, nil
	case "lb", "left-bottom":
		return LeftBottom, nil
	case "rt", "right-top":
		return RightTop, nil
	case "rb", "right-bottom":
		return RightBottom, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlacement, s)
}

// Valid reports whether p is one of the four known placements.
func (p Placement) Valid() bool {
	switch p {
	case LeftTop, LeftBottom, RightTop, RightBottom:
		return true
	}
	return false
}

// IsTop reports whether the label sits above its anchor.
func (p Placement) IsTop() bool {
	return p == LeftTop || p == RightTop
}

// IsLeft reports whether the label sits left of its anchor.
func (p Placement) IsLeft() bool {
	return p == LeftTop || p == LeftBottom
}

// Name returns the long hyphenated form, e.g. "left-top".
func (p Placement) Name() string {
	switch p {
	case LeftTop:
		return "left-top"
	case LeftBottom:
		return "left-bottom"
	case RightTop:
		return "right-top"
	case RightBottom:
		return "right-bottom"
	}
	return string(p)
}

func (p Placement) String() string { return string(p) }

// MarshalText implements encoding.TextMarshaler.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Both JSON and YAML
// decoding go through it.
func (p *Placement) UnmarshalText(text []byte) error {
	v, err := ParsePlacement(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Label is a piece of text attached to a point on the image by a leader line.
type Label struct {
	Text      string    `json:"label" yaml:"label"`
	Placement Placement `json:"placement" yaml:"placement"`
	Start     Point     `json:"start" yaml:"start"` // where the label box sits
	End       Point     `json:"end" yaml:"end"`     // the annotated point
}

// NewLabel creates a label.
func NewLabel(text string, placement Placement, start, end Point) Label {
	return Label{Text: text, Placement: placement, Start: start, End: end}
}

// LeaderLine computes the label's curve and arrowhead.
func (l Label) LeaderLine() LeaderLine {
	return NewLeaderLine(l.Start, l.End, l.Placement)
}

// Slide is an image reference plus the labels drawn over it.
type Slide struct {
	Image  string  `json:"imageUrl" yaml:"image"`
	Labels []Label `json:"labels" yaml:"labels"`
}

// NewSlide creates a slide. The label slice is copied so later changes by
// the caller do not leak into the slide.
func NewSlide(image string, labels ...Label) Slide {
	ls := make([]Label, len(labels))
	copy(ls, labels)
	return Slide{Image: image, Labels: ls}
}

// LeaderLines returns the leader line of every label, in label order.
func (s Slide) LeaderLines() []LeaderLine {
	lines := make([]LeaderLine, len(s.Labels))
	for i, l := range s.Labels {
		lines[i] = l.LeaderLine()
	}
	return lines
}
