package moon

import (
	"math"

	"github.com/gogpu/moon/solver"
)

// Edge indices of the counter-clockwise edge arrays in ComputedNode.
const (
	EdgeLeft = iota
	EdgeBottom
	EdgeRight
	EdgeTop
)

// ComputedNode is the final geometry of a node, in logical pixels. It is
// overwritten by every layout pass.
type ComputedNode struct {
	// StackIndex is the node's position in its target's back-to-front
	// order. Higher indices draw on top and are hit first.
	StackIndex int

	// Order is the node's index among its siblings as reported by the
	// solver.
	Order uint32

	// Location is the top-left corner relative to the parent's top-left.
	Location Vec2
	Size     Vec2

	// ContentSize may exceed Size for overflowing content.
	ContentSize   Vec2
	ScrollbarSize Vec2

	// Edge sizes: left, bottom, right, top.
	Border  [4]float64
	Padding [4]float64
	Margin  [4]float64

	// CornerRadii: bottom-left, bottom-right, top-right, top-left.
	CornerRadii [4]float64

	// Outline holds [width, offset].
	Outline [2]float64

	ContentBoxSize Vec2

	// Affine is the layout affine relative to the parent, kept so the
	// layout part of a transform can be replaced without touching the
	// rest.
	Affine Matrix

	// Global is the node's transform in target space.
	Global GlobalTransform
}

// NewComputedNode returns the geometry of a node that has not been laid out.
func NewComputedNode() ComputedNode {
	return ComputedNode{Affine: Identity(), Global: GlobalIdentity()}
}

// IsEmpty reports whether either size component is exactly zero.
func (c *ComputedNode) IsEmpty() bool {
	return c.Size.X == 0 || c.Size.Y == 0
}

// ApplyLayout copies a solver layout that is already in logical pixels.
func (c *ComputedNode) ApplyLayout(l solver.Layout) {
	cb := l.ContentBoxSize()
	c.Order = l.Order
	c.Location = V2(l.Location.X, l.Location.Y)
	c.Size = V2(l.Size.Width, l.Size.Height)
	c.ContentSize = V2(l.ContentSize.Width, l.ContentSize.Height)
	c.ScrollbarSize = V2(l.ScrollbarSize.Width, l.ScrollbarSize.Height)
	c.Border = ccw(l.Border)
	c.Padding = ccw(l.Padding)
	c.Margin = ccw(l.Margin)
	c.ContentBoxSize = V2(cb.Width, cb.Height)
}

func ccw(e solver.Edges[float64]) [4]float64 {
	return [4]float64{e.Left, e.Bottom, e.Right, e.Top}
}

// SetCornerRadii clamps each configured radius to [0, half the shorter side].
func (c *ComputedNode) SetCornerRadii(radii Corners) {
	c.CornerRadii = radii.clamp(c.Size.MinElement())
}

// SetOutline resolves width and offset against the node width. A fully
// transparent outline leaves the previous value in place.
func (c *ComputedNode) SetOutline(o Outline) {
	if o.Color.IsFullyTransparent() {
		return
	}
	c.Outline = [2]float64{resolveLength(o.Width, c.Size.X), resolveLength(o.Offset, c.Size.X)}
}

func (c *ComputedNode) outlineDistance() float64 {
	return c.Outline[0] + c.Outline[1]
}

// OutlineSize is the size of the box the outline is drawn around.
func (c *ComputedNode) OutlineSize() Vec2 {
	d := 2 * c.outlineDistance()
	return V2(c.Size.X+d, c.Size.Y+d)
}

// OutlineBorderWidth returns the outline width on all four edges.
func (c *ComputedNode) OutlineBorderWidth() [4]float64 {
	w := c.Outline[0]
	return [4]float64{w, w, w, w}
}

// OutlineCornerRadii grows each corner radius by the outline distance.
func (c *ComputedNode) OutlineCornerRadii() [4]float64 {
	d := c.outlineDistance()
	r := c.CornerRadii
	for i := range r {
		r[i] += d
	}
	return r
}

// Inset is the thickness of a set of box edges in Y-up space. Min holds
// the left and bottom edges, Max the right and top.
type Inset struct {
	Min, Max Vec2
}

// Add sums two insets edge by edge.
func (i Inset) Add(o Inset) Inset {
	return Inset{Min: i.Min.Add(o.Min), Max: i.Max.Add(o.Max)}
}

func insetOf(e [4]float64) Inset {
	return Inset{
		Min: V2(e[EdgeLeft], e[EdgeBottom]),
		Max: V2(e[EdgeRight], e[EdgeTop]),
	}
}

// BorderInset returns the border edges.
func (c *ComputedNode) BorderInset() Inset { return insetOf(c.Border) }

// PaddingInset returns the padding edges.
func (c *ComputedNode) PaddingInset() Inset { return insetOf(c.Padding) }

// ContentBoxInset returns border plus padding.
func (c *ComputedNode) ContentBoxInset() Inset {
	return c.BorderInset().Add(c.PaddingInset())
}

// ClipRect returns the clip this node imposes on its descendants, centered
// at center in Y-up space. It reports false when overflow is visible on
// both axes. A visible axis is unbounded.
func (c *ComputedNode) ClipRect(center Vec2, xVisible, yVisible bool, m OverflowClipMargin) (Rect, bool) {
	if xVisible && yVisible {
		return Rect{}, false
	}

	r := RectFromCenterSize(center, c.Size)

	var inset Inset
	switch m.VisualBox {
	case VisualPaddingBox:
		inset = c.BorderInset()
	case VisualContentBox:
		inset = c.ContentBoxInset()
	}
	r.Min = r.Min.Add(inset.Min)
	r.Max = r.Max.Sub(inset.Max)

	r = r.Inflate(max(m.Margin, 0))

	if xVisible {
		r.Min.X, r.Max.X = math.Inf(-1), math.Inf(1)
	}
	if yVisible {
		r.Min.Y, r.Max.Y = math.Inf(-1), math.Inf(1)
	}
	return r, true
}
