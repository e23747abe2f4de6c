package solver

// Unit identifies how a Dimension's value is interpreted.
type Unit uint8

const (
	// UnitAuto lets the solver decide the size (default).
	UnitAuto Unit = iota
	// UnitLength is a fixed number of pixels.
	UnitLength
	// UnitPercent is a fraction of the containing block.
	UnitPercent
	// UnitMinContent sizes to the smallest size that avoids overflow.
	UnitMinContent
	// UnitMaxContent sizes to the content's preferred size.
	UnitMaxContent
	// UnitFitContent sizes to max-content clamped to Value pixels.
	UnitFitContent
)

// Dimension is a length, percentage, auto or content-based size.
type Dimension struct {
	Unit  Unit
	Value float64
}

// Auto returns an automatic dimension.
func Auto() Dimension { return Dimension{Unit: UnitAuto} }

// Length returns a fixed dimension of v pixels.
func Length(v float64) Dimension { return Dimension{Unit: UnitLength, Value: v} }

// Percent returns a dimension relative to the containing block.
// Percent(1) is the full containing size.
func Percent(p float64) Dimension { return Dimension{Unit: UnitPercent, Value: p} }

// MinContent returns a min-content dimension.
func MinContent() Dimension { return Dimension{Unit: UnitMinContent} }

// MaxContent returns a max-content dimension.
func MaxContent() Dimension { return Dimension{Unit: UnitMaxContent} }

// FitContent returns a fit-content(limit) dimension.
func FitContent(limit float64) Dimension { return Dimension{Unit: UnitFitContent, Value: limit} }

// Zero is a zero-length dimension.
var Zero = Length(0)

// IsAuto reports whether d is auto.
func (d Dimension) IsAuto() bool { return d.Unit == UnitAuto }

// Resolve returns the definite value of d against base. Percentages need a
// definite base; auto and content-based units are never definite here.
func (d Dimension) Resolve(base Maybe) Maybe {
	switch d.Unit {
	case UnitLength:
		return Some(d.Value)
	case UnitPercent:
		if base.Valid {
			return Some(d.Value * base.Value)
		}
	}
	return None()
}

// ResolveOr resolves d against base and falls back to def.
func (d Dimension) ResolveOr(base Maybe, def float64) float64 {
	return d.Resolve(base).Or(def)
}

// Scale multiplies pixel-valued dimensions by factor. Percentages and
// keywords are unit-less and stay unchanged.
func (d Dimension) Scale(factor float64) Dimension {
	switch d.Unit {
	case UnitLength, UnitFitContent:
		d.Value *= factor
	}
	return d
}

// Display selects the layout algorithm for a node's children.
type Display uint8

const (
	// DisplayFlex lays children out with flexbox (default).
	DisplayFlex Display = iota
	// DisplayGrid lays children out on a grid.
	DisplayGrid
	// DisplayBlock stacks children vertically, stretched horizontally.
	DisplayBlock
	// DisplayNone removes the node and its subtree from layout.
	DisplayNone
)

// Position selects whether a node takes part in its parent's flow.
type Position uint8

const (
	// PositionRelative keeps the node in flow (default).
	PositionRelative Position = iota
	// PositionAbsolute takes the node out of flow and places it by Inset.
	PositionAbsolute
)

// FlexDirection is the main axis of a flex container.
type FlexDirection uint8

const (
	Row FlexDirection = iota
	Column
	RowReverse
	ColumnReverse
)

// IsRow reports whether the main axis is horizontal.
func (d FlexDirection) IsRow() bool { return d == Row || d == RowReverse }

// IsReverse reports whether items are placed from the end of the main axis.
func (d FlexDirection) IsReverse() bool { return d == RowReverse || d == ColumnReverse }

// Justify distributes free space along the main axis.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align positions items on the cross axis.
type Align uint8

const (
	// AlignAuto defers to the container (valid for AlignSelf only).
	AlignAuto Align = iota
	AlignStretch
	AlignStart
	AlignEnd
	AlignCenter
)

// Overflow controls how content outside a node's box is handled.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowClip
	OverflowHidden
	OverflowScroll
)

// TrackUnit identifies a grid track sizing function.
type TrackUnit uint8

const (
	TrackAuto TrackUnit = iota
	TrackLength
	TrackPercent
	TrackFr
)

// Track is a single grid track size.
type Track struct {
	Unit  TrackUnit
	Value float64
}

// Px returns a fixed-size track.
func Px(v float64) Track { return Track{Unit: TrackLength, Value: v} }

// Fr returns a flexible track taking a share of the leftover space.
func Fr(v float64) Track { return Track{Unit: TrackFr, Value: v} }

// Scale multiplies pixel-valued tracks by factor.
func (t Track) Scale(factor float64) Track {
	if t.Unit == TrackLength {
		t.Value *= factor
	}
	return t
}

// Style is the box-model description of a node understood by solvers.
type Style struct {
	Display  Display
	Position Position
	Overflow Point[Overflow]
	// ScrollbarWidth is reserved on each axis whose overflow is Scroll.
	ScrollbarWidth float64

	Inset   Edges[Dimension]
	Size    Size[Dimension]
	MinSize Size[Dimension]
	MaxSize Size[Dimension]

	Margin  Edges[Dimension]
	Padding Edges[Dimension]
	Border  Edges[Dimension]
	Gap     Size[Dimension]

	FlexDirection  FlexDirection
	JustifyContent Justify
	AlignItems     Align
	AlignSelf      Align
	FlexGrow       float64
	FlexShrink     float64
	FlexBasis      Dimension

	GridTemplateRows    []Track
	GridTemplateColumns []Track
	GridAutoRows        []Track
	GridAutoColumns     []Track
}

// DefaultStyle returns the initial style: flex row, auto sizes, stretch
// alignment, shrink factor 1.
func DefaultStyle() Style {
	return Style{
		Display:    DisplayFlex,
		Size:       Size[Dimension]{Width: Auto(), Height: Auto()},
		MinSize:    Size[Dimension]{Width: Auto(), Height: Auto()},
		MaxSize:    Size[Dimension]{Width: Auto(), Height: Auto()},
		Inset:      EdgeAll(Auto()),
		Margin:     EdgeAll(Zero),
		Padding:    EdgeAll(Zero),
		Border:     EdgeAll(Zero),
		Gap:        Size[Dimension]{Width: Zero, Height: Zero},
		AlignItems: AlignStretch,
		AlignSelf:  AlignAuto,
		FlexShrink: 1,
		FlexBasis:  Auto(),
	}
}

// Scale returns a copy of s with every pixel length multiplied by factor.
// Grid track slices are copied so the result never aliases s.
func (s Style) Scale(factor float64) Style {
	out := s
	out.ScrollbarWidth = s.ScrollbarWidth * factor
	out.Inset = scaleEdges(s.Inset, factor)
	out.Size = scaleSize(s.Size, factor)
	out.MinSize = scaleSize(s.MinSize, factor)
	out.MaxSize = scaleSize(s.MaxSize, factor)
	out.Margin = scaleEdges(s.Margin, factor)
	out.Padding = scaleEdges(s.Padding, factor)
	out.Border = scaleEdges(s.Border, factor)
	out.Gap = scaleSize(s.Gap, factor)
	out.FlexBasis = s.FlexBasis.Scale(factor)
	out.GridTemplateRows = scaleTracks(s.GridTemplateRows, factor)
	out.GridTemplateColumns = scaleTracks(s.GridTemplateColumns, factor)
	out.GridAutoRows = scaleTracks(s.GridAutoRows, factor)
	out.GridAutoColumns = scaleTracks(s.GridAutoColumns, factor)
	return out
}

func scaleEdges(e Edges[Dimension], f float64) Edges[Dimension] {
	return Edges[Dimension]{
		Left:   e.Left.Scale(f),
		Right:  e.Right.Scale(f),
		Top:    e.Top.Scale(f),
		Bottom: e.Bottom.Scale(f),
	}
}

func scaleSize(s Size[Dimension], f float64) Size[Dimension] {
	return Size[Dimension]{Width: s.Width.Scale(f), Height: s.Height.Scale(f)}
}

func scaleTracks(tracks []Track, f float64) []Track {
	if tracks == nil {
		return nil
	}
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		out[i] = t.Scale(f)
	}
	return out
}
