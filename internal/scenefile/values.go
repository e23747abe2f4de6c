package scenefile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/moon/solver"
	"github.com/gogpu/moon/text"
)

// Length is a solver dimension written as "auto", "min-content",
// "max-content", "fit-content(N)", "N%" or "N" / "Npx".
type Length solver.Dimension

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Length) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "" || s == "auto":
		*l = Length(solver.Auto())
	case s == "min-content":
		*l = Length(solver.MinContent())
	case s == "max-content":
		*l = Length(solver.MaxContent())
	case strings.HasPrefix(s, "fit-content(") && strings.HasSuffix(s, ")"):
		v, err := number(strings.TrimSuffix(strings.TrimPrefix(s, "fit-content("), ")"))
		if err != nil {
			return err
		}
		*l = Length(solver.FitContent(v))
	case strings.HasSuffix(s, "%"):
		v, err := number(strings.TrimSuffix(s, "%"))
		if err != nil {
			return err
		}
		*l = Length(solver.Percent(v / 100))
	default:
		v, err := number(strings.TrimSuffix(s, "px"))
		if err != nil {
			return err
		}
		*l = Length(solver.Length(v))
	}
	return nil
}

// Dimension returns the solver value; an unset length is auto.
func (l *Length) Dimension() solver.Dimension {
	if l == nil {
		return solver.Auto()
	}
	return solver.Dimension(*l)
}

// Track is a grid track written as "auto", "Nfr", "N%" or "N" / "Npx".
type Track solver.Track

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Track) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	var (
		unit = solver.TrackLength
		num  = strings.TrimSuffix(s, "px")
	)
	switch {
	case s == "auto":
		*t = Track{Unit: solver.TrackAuto}
		return nil
	case strings.HasSuffix(s, "fr"):
		unit, num = solver.TrackFr, strings.TrimSuffix(s, "fr")
	case strings.HasSuffix(s, "%"):
		unit, num = solver.TrackPercent, strings.TrimSuffix(s, "%")
	}
	v, err := number(num)
	if err != nil {
		return err
	}
	if unit == solver.TrackPercent {
		v /= 100
	}
	*t = Track{Unit: unit, Value: v}
	return nil
}

func number(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// Edges lists one, two or four lengths in CSS order: all; vertical and
// horizontal; or top, right, bottom and left.
type Edges []Length

func (e Edges) edges() (solver.Edges[solver.Dimension], error) {
	d := func(i int) solver.Dimension { return solver.Dimension(e[i]) }
	switch len(e) {
	case 0:
		return solver.EdgeAll(solver.Zero), nil
	case 1:
		return solver.EdgeAll(d(0)), nil
	case 2:
		return solver.EdgeSymmetric(d(0), d(1)), nil
	case 4:
		return solver.Edges[solver.Dimension]{Top: d(0), Right: d(1), Bottom: d(2), Left: d(3)}, nil
	}
	return solver.Edges[solver.Dimension]{}, fmt.Errorf("edges need 1, 2 or 4 values, got %d", len(e))
}

func lookup[T any](what, name string, table map[string]T) (T, error) {
	v, ok := table[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s %q", what, name)
	}
	return v, nil
}

var (
	displays = map[string]solver.Display{
		"": solver.DisplayFlex, "flex": solver.DisplayFlex, "grid": solver.DisplayGrid,
		"block": solver.DisplayBlock, "none": solver.DisplayNone,
	}
	positions = map[string]solver.Position{
		"": solver.PositionRelative, "relative": solver.PositionRelative, "absolute": solver.PositionAbsolute,
	}
	directions = map[string]solver.FlexDirection{
		"": solver.Row, "row": solver.Row, "column": solver.Column,
		"row-reverse": solver.RowReverse, "column-reverse": solver.ColumnReverse,
	}
	justifies = map[string]solver.Justify{
		"": solver.JustifyStart, "start": solver.JustifyStart, "end": solver.JustifyEnd,
		"center": solver.JustifyCenter, "space-between": solver.JustifySpaceBetween,
		"space-around": solver.JustifySpaceAround, "space-evenly": solver.JustifySpaceEvenly,
	}
	aligns = map[string]solver.Align{
		"auto": solver.AlignAuto, "stretch": solver.AlignStretch, "start": solver.AlignStart,
		"end": solver.AlignEnd, "center": solver.AlignCenter,
	}
	overflows = map[string]solver.Overflow{
		"": solver.OverflowVisible, "visible": solver.OverflowVisible, "clip": solver.OverflowClip,
		"hidden": solver.OverflowHidden, "scroll": solver.OverflowScroll,
	}
	wraps = map[string]text.WrapMode{
		"": text.WrapWord, "word": text.WrapWord, "char": text.WrapChar, "none": text.WrapNone,
	}
)
