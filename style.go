package moon

import (
	"github.com/gogpu/moon/solver"
)

// Corners holds one value per corner in counter-clockwise order:
// bottom-left, bottom-right, top-right, top-left.
type Corners [4]float64

// Corner indices.
const (
	BottomLeft = iota
	BottomRight
	TopRight
	TopLeft
)

// CornersAll returns v on every corner.
func CornersAll(v float64) Corners {
	return Corners{v, v, v, v}
}

// clamp limits every radius to [0, 0.5*minLength].
func (c Corners) clamp(minLength float64) Corners {
	limit := 0.5 * minLength
	for i, r := range c {
		c[i] = min(max(r, 0), limit)
	}
	return c
}

// BorderColor holds one color per edge.
type BorderColor struct {
	Left, Bottom, Right, Top RGBA
}

// BorderColorAll returns c on every edge.
func BorderColorAll(c RGBA) BorderColor {
	return BorderColor{Left: c, Bottom: c, Right: c, Top: c}
}

// BorderStyle selects how borders are stroked.
type BorderStyle uint8

const (
	BorderSolid BorderStyle = iota
	BorderDashed
)

// BoxShadow is a drop shadow drawn behind the node.
type BoxShadow struct {
	Color        RGBA
	Offset       Vec2
	BlurRadius   float64
	SpreadRadius float64
}

// DefaultBoxShadow returns a soft black shadow cast downward.
func DefaultBoxShadow() BoxShadow {
	return BoxShadow{Color: Black, Offset: V2(0, -10), BlurRadius: 7.5, SpreadRadius: 5}
}

// Outline is drawn outside the border box. Width and Offset are lengths
// or percentages of the node width.
type Outline struct {
	Color  RGBA
	Width  solver.Dimension
	Offset solver.Dimension
}

// OverflowVisualBox selects the box a clipping node clips to.
type OverflowVisualBox uint8

const (
	// VisualPaddingBox clips content overflowing the padding box.
	VisualPaddingBox OverflowVisualBox = iota
	// VisualBorderBox clips content overflowing the border box.
	VisualBorderBox
	// VisualContentBox clips content overflowing the content box.
	VisualContentBox
)

func (b OverflowVisualBox) String() string {
	switch b {
	case VisualPaddingBox:
		return "padding-box"
	case VisualBorderBox:
		return "border-box"
	case VisualContentBox:
		return "content-box"
	default:
		return "unknown"
	}
}

// OverflowClipMargin bounds the visible area of a clipping node: the
// visual box grown by Margin logical pixels. Negative margins count as 0.
type OverflowClipMargin struct {
	VisualBox OverflowVisualBox
	Margin    float64
}

// Style is the full style of a node: the solver's box model plus paint
// attributes. ClipRect is written by the engine.
type Style struct {
	Layout solver.Style

	Background  *RGBA
	BorderColor *BorderColor
	BorderStyle BorderStyle
	CornerRadii Corners
	BoxShadow   *BoxShadow
	Outline     *Outline

	OverflowClipMargin OverflowClipMargin

	// ClipRect is the clip inherited from ancestors, in Y-up global
	// coordinates. Nil means unclipped.
	ClipRect *Rect
}

// DefaultStyle returns a style with solver defaults and no paint.
func DefaultStyle() Style {
	return Style{Layout: solver.DefaultStyle()}
}

// IsHidden reports whether the node is display: none.
func (s *Style) IsHidden() bool {
	return s.Layout.Display == solver.DisplayNone
}

// OverflowIsVisible reports per axis whether overflow is visible.
func (s *Style) OverflowIsVisible() (x, y bool) {
	return s.Layout.Overflow.X == solver.OverflowVisible, s.Layout.Overflow.Y == solver.OverflowVisible
}

// Solver returns the layout style scaled to physical pixels.
func (s *Style) Solver(scaleFactor float64) solver.Style {
	return s.Layout.Scale(scaleFactor)
}

// resolveLength resolves a length or percentage against base. Other units
// resolve to zero.
func resolveLength(d solver.Dimension, base float64) float64 {
	return d.ResolveOr(solver.Some(base), 0)
}

func clipEqual(a, b *Rect) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
