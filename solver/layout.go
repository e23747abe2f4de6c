package solver

// Layout is the solver's output for a single node.
//
// Location is the offset of the node's border box from its parent's border
// box. Order is the node's index among its siblings.
type Layout struct {
	Order         uint32
	Location      Point[float64]
	Size          Size[float64]
	ContentSize   Size[float64]
	ScrollbarSize Size[float64]
	Border        Edges[float64]
	Padding       Edges[float64]
	Margin        Edges[float64]
}

// Scale multiplies every length in l by factor.
func (l Layout) Scale(factor float64) Layout {
	return Layout{
		Order:         l.Order,
		Location:      Point[float64]{X: l.Location.X * factor, Y: l.Location.Y * factor},
		Size:          scaleFloatSize(l.Size, factor),
		ContentSize:   scaleFloatSize(l.ContentSize, factor),
		ScrollbarSize: scaleFloatSize(l.ScrollbarSize, factor),
		Border:        scaleFloatEdges(l.Border, factor),
		Padding:       scaleFloatEdges(l.Padding, factor),
		Margin:        scaleFloatEdges(l.Margin, factor),
	}
}

// ContentBoxSize returns the size of the content box: the border box minus
// border and padding, never negative.
func (l Layout) ContentBoxSize() Size[float64] {
	return Size[float64]{
		Width:  max(0, l.Size.Width-l.Border.Left-l.Border.Right-l.Padding.Left-l.Padding.Right),
		Height: max(0, l.Size.Height-l.Border.Top-l.Border.Bottom-l.Padding.Top-l.Padding.Bottom),
	}
}

func scaleFloatSize(s Size[float64], f float64) Size[float64] {
	return Size[float64]{Width: s.Width * f, Height: s.Height * f}
}

func scaleFloatEdges(e Edges[float64], f float64) Edges[float64] {
	return Edges[float64]{Left: e.Left * f, Right: e.Right * f, Top: e.Top * f, Bottom: e.Bottom * f}
}

// HorizontalSum returns left + right.
func HorizontalSum(e Edges[float64]) float64 { return e.Left + e.Right }

// VerticalSum returns top + bottom.
func VerticalSum(e Edges[float64]) float64 { return e.Top + e.Bottom }
