package label

import (
	"math"
	"unicode/utf8"
)

// DefaultPadding is the minimum clearance, in coordinate units, required
// between a label's edge and the river boundary.
const DefaultPadding = 5.0

// charWidthFactor estimates glyph advance as a fraction of the font size.
// Real text shaping is out of scope; 0.6 is a serviceable average for
// uppercase Latin map lettering.
const charWidthFactor = 0.6

// Box is the estimated bounding box of a rendered label, plus the required
// padding. Dimensions are in the polygon's coordinate units (1 unit = 1 pt).
type Box struct {
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	Padding float64 `json:"padding" bson:"padding"`
}

// NewBox estimates the box for the given text at the given font size,
// using the default padding.
func NewBox(text string, fontSize int) Box {
	return Box{
		Width:   float64(utf8.RuneCountInString(text)) * float64(fontSize) * charWidthFactor,
		Height:  float64(fontSize),
		Padding: DefaultPadding,
	}
}

// HalfDiagonal returns half the diagonal of the box: the radius of the
// smallest circle enclosing it, which is what the fit test compares against
// the distance field.
func (b Box) HalfDiagonal() float64 {
	return math.Hypot(b.Width, b.Height) / 2
}
