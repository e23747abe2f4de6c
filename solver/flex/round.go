package flex

import (
	"math"

	"github.com/gogpu/moon/solver"
)

// round snaps the subtree of id to whole pixels. Edges are rounded in
// absolute coordinates so adjacent siblings never gap or overlap; absX and
// absY are the unrounded position of the parent.
func (t *Tree) round(id solver.NodeID, absX, absY float64) {
	n := t.at(id)
	l := &n.layout
	x := absX + l.Location.X
	y := absY + l.Location.Y

	l.Size.Width = math.Round(x+l.Size.Width) - math.Round(x)
	l.Size.Height = math.Round(y+l.Size.Height) - math.Round(y)
	l.Location.X = math.Round(x) - math.Round(absX)
	l.Location.Y = math.Round(y) - math.Round(absY)
	l.ContentSize.Width = math.Round(l.ContentSize.Width)
	l.ContentSize.Height = math.Round(l.ContentSize.Height)
	l.Border = roundEdges(l.Border)
	l.Padding = roundEdges(l.Padding)
	l.Margin = roundEdges(l.Margin)

	for _, child := range n.children {
		t.round(child, x, y)
	}
}

func roundEdges(e floatEdge) floatEdge {
	return floatEdge{
		Left:   math.Round(e.Left),
		Right:  math.Round(e.Right),
		Top:    math.Round(e.Top),
		Bottom: math.Round(e.Bottom),
	}
}
