package text

import "golang.org/x/text/unicode/bidi"

// Direction is the base writing direction of a paragraph.
type Direction uint8

const (
	DirectionLTR Direction = iota
	DirectionRTL
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	if d == DirectionRTL {
		return "RTL"
	}
	return "LTR"
}

// DetectDirection returns the base direction of s using the Unicode
// bidirectional algorithm. Text without strong characters is LTR.
func DetectDirection(s string) Direction {
	if s == "" {
		return DirectionLTR
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return DirectionLTR
	}
	if r := ordering.Run(0); r.Direction() == bidi.RightToLeft {
		return DirectionRTL
	}
	return DirectionLTR
}
