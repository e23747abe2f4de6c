package flex

import (
	"github.com/gogpu/moon/solver"
)

// computer carries the per-call state of a ComputeLayout run.
type computer struct {
	t       *Tree
	measure solver.MeasureFunc
}

type (
	maybeSize = solver.Size[solver.Maybe]
	floatSize = solver.Size[float64]
	spaceSize = solver.Size[solver.AvailableSpace]
	floatEdge = solver.Edges[float64]
)

func resolveEdges(e solver.Edges[solver.Dimension], base solver.Maybe) floatEdge {
	return floatEdge{
		Left:   e.Left.ResolveOr(base, 0),
		Right:  e.Right.ResolveOr(base, 0),
		Top:    e.Top.ResolveOr(base, 0),
		Bottom: e.Bottom.ResolveOr(base, 0),
	}
}

// gutter returns the space reserved for scrollbars: a vertical scrollbar
// takes width, a horizontal one takes height.
func gutter(s *solver.Style) floatSize {
	var g floatSize
	if s.Overflow.Y == solver.OverflowScroll {
		g.Width = s.ScrollbarWidth
	}
	if s.Overflow.X == solver.OverflowScroll {
		g.Height = s.ScrollbarWidth
	}
	return g
}

// clampSize restricts v to [lo, hi]; lo wins when they conflict.
func clampSize(v, lo float64, hi solver.Maybe) float64 {
	if hi.Valid && v > hi.Value {
		v = hi.Value
	}
	if v < lo {
		v = lo
	}
	return v
}

func subMaybe(m solver.Maybe, v float64) solver.Maybe {
	if !m.Valid {
		return m
	}
	return solver.Some(max(0, m.Value-v))
}

// contentSpace maps content-based size keywords to the matching sizing
// constraint.
func contentSpace(d solver.Dimension, avail solver.AvailableSpace) solver.AvailableSpace {
	switch d.Unit {
	case solver.UnitMinContent:
		return solver.MinContentSpace()
	case solver.UnitMaxContent:
		return solver.MaxContentSpace()
	}
	return avail
}

func definite(s floatSize) maybeSize {
	return maybeSize{Width: solver.Some(s.Width), Height: solver.Some(s.Height)}
}

func offered(inner maybeSize, avail spaceSize) spaceSize {
	out := avail
	if inner.Width.Valid {
		out.Width = solver.Definite(inner.Width.Value)
	}
	if inner.Height.Valid {
		out.Height = solver.Definite(inner.Height.Value)
	}
	return out
}

// size returns the border-box size of id. known holds sizes already fixed
// by the parent, parent is the containing block used for percentages and
// avail is the space offered to the node's margin box.
func (c *computer) size(id solver.NodeID, known, parent maybeSize, avail spaceSize) floatSize {
	n := c.t.at(id)
	s := &n.style
	if s.Display == solver.DisplayNone {
		return floatSize{}
	}

	margin := resolveEdges(s.Margin, parent.Width)
	border := resolveEdges(s.Border, parent.Width)
	padding := resolveEdges(s.Padding, parent.Width)
	g := gutter(s)
	pbW := solver.HorizontalSum(border) + solver.HorizontalSum(padding) + g.Width
	pbH := solver.VerticalSum(border) + solver.VerticalSum(padding) + g.Height

	minW := s.MinSize.Width.ResolveOr(parent.Width, 0)
	minH := s.MinSize.Height.ResolveOr(parent.Height, 0)
	maxW := s.MaxSize.Width.Resolve(parent.Width)
	maxH := s.MaxSize.Height.Resolve(parent.Height)

	w := known.Width
	if !w.Valid {
		w = s.Size.Width.Resolve(parent.Width)
	}
	h := known.Height
	if !h.Valid {
		h = s.Size.Height.Resolve(parent.Height)
	}
	if w.Valid {
		w = solver.Some(max(clampSize(w.Value, minW, maxW), pbW))
	}
	if h.Valid {
		h = solver.Some(max(clampSize(h.Value, minH, maxH), pbH))
	}
	if w.Valid && h.Valid {
		return floatSize{Width: w.Value, Height: h.Value}
	}

	innerAvail := spaceSize{
		Width:  contentSpace(s.Size.Width, avail.Width.Sub(solver.HorizontalSum(margin)+pbW)),
		Height: contentSpace(s.Size.Height, avail.Height.Sub(solver.VerticalSum(margin)+pbH)),
	}
	inner := maybeSize{Width: subMaybe(w, pbW), Height: subMaybe(h, pbH)}

	if !w.Valid {
		content := c.content(id, inner, innerAvail)
		cw := content.Width + pbW
		if s.Size.Width.Unit == solver.UnitFitContent {
			cw = min(cw, max(s.Size.Width.Value, pbW))
		}
		w = solver.Some(max(clampSize(cw, minW, maxW), pbW))
		if h.Valid {
			return floatSize{Width: w.Value, Height: h.Value}
		}
		inner.Width = solver.Some(w.Value - pbW)
		if content.Width+pbW == w.Value {
			// Width settled at the content size; the height is final too.
			ch := content.Height + pbH
			if s.Size.Height.Unit == solver.UnitFitContent {
				ch = min(ch, max(s.Size.Height.Value, pbH))
			}
			return floatSize{Width: w.Value, Height: max(clampSize(ch, minH, maxH), pbH)}
		}
	}
	content := c.content(id, inner, innerAvail)
	ch := content.Height + pbH
	if s.Size.Height.Unit == solver.UnitFitContent {
		ch = min(ch, max(s.Size.Height.Value, pbH))
	}
	return floatSize{Width: w.Value, Height: max(clampSize(ch, minH, maxH), pbH)}
}

// content returns the size of the content box contents of id.
func (c *computer) content(id solver.NodeID, inner maybeSize, avail spaceSize) floatSize {
	n := c.t.at(id)
	if n.hasCtx && len(n.children) == 0 {
		if c.measure == nil {
			return floatSize{}
		}
		m := c.measure(inner, avail, id, n.ctx, &n.style)
		return floatSize{Width: inner.Width.Or(m.Width), Height: inner.Height.Or(m.Height)}
	}
	if len(n.children) == 0 {
		return floatSize{}
	}
	switch n.style.Display {
	case solver.DisplayGrid:
		g := c.grid(id, inner, avail)
		return floatSize{Width: g.width(), Height: g.height()}
	case solver.DisplayBlock:
		return c.blockContent(id, inner, avail)
	default:
		line := c.flexLine(id, inner, avail)
		return line.extent()
	}
}

// inFlow reports whether a child takes part in its parent's flow.
func inFlow(s *solver.Style) bool {
	return s.Display != solver.DisplayNone && s.Position != solver.PositionAbsolute
}

// layout positions the children of id inside a border box of the given
// size and recurses. The node's own Layout record is written by its parent.
func (c *computer) layout(id solver.NodeID, size floatSize) {
	n := c.t.at(id)
	s := &n.style
	border, padding := n.layout.Border, n.layout.Padding
	g := gutter(s)

	inner := floatSize{
		Width:  max(0, size.Width-solver.HorizontalSum(border)-solver.HorizontalSum(padding)-g.Width),
		Height: max(0, size.Height-solver.VerticalSum(border)-solver.VerticalSum(padding)-g.Height),
	}
	origin := solver.Point[float64]{X: border.Left + padding.Left, Y: border.Top + padding.Top}

	switch s.Display {
	case solver.DisplayGrid:
		c.layoutGrid(id, inner, origin)
	case solver.DisplayBlock:
		c.layoutBlock(id, inner, origin)
	default:
		c.layoutFlex(id, inner, origin)
	}
	c.layoutAbsolute(id, size, border, padding)

	var extent floatSize
	for i, child := range n.children {
		cn := c.t.at(child)
		if cn.style.Display == solver.DisplayNone {
			c.hide(child, uint32(i))
			continue
		}
		cl := &cn.layout
		extent.Width = max(extent.Width, cl.Location.X+cl.Size.Width+cl.Margin.Right)
		extent.Height = max(extent.Height, cl.Location.Y+cl.Size.Height+cl.Margin.Bottom)
	}
	n.layout.ScrollbarSize = g
	n.layout.ContentSize = floatSize{
		Width:  max(inner.Width, extent.Width-origin.X) + padding.Left + padding.Right,
		Height: max(inner.Height, extent.Height-origin.Y) + padding.Top + padding.Bottom,
	}
}

// place writes the layout of a child and lays out its own subtree.
func (c *computer) place(child solver.NodeID, order uint32, parentWidth solver.Maybe, loc solver.Point[float64], size floatSize, margin floatEdge) {
	cn := c.t.at(child)
	cn.layout = solver.Layout{
		Order:    order,
		Location: loc,
		Size:     size,
		Border:   resolveEdges(cn.style.Border, parentWidth),
		Padding:  resolveEdges(cn.style.Padding, parentWidth),
		Margin:   margin,
	}
	c.layout(child, size)
}

// hide zeroes the layout of a display:none subtree.
func (c *computer) hide(id solver.NodeID, order uint32) {
	n := c.t.at(id)
	n.layout = solver.Layout{Order: order}
	for i, child := range n.children {
		c.hide(child, uint32(i))
	}
}

// layoutAbsolute places out-of-flow children against the padding box.
func (c *computer) layoutAbsolute(id solver.NodeID, size floatSize, border, padding floatEdge) {
	n := c.t.at(id)
	box := floatSize{
		Width:  max(0, size.Width-solver.HorizontalSum(border)),
		Height: max(0, size.Height-solver.VerticalSum(border)),
	}
	cb := definite(box)
	for i, child := range n.children {
		cs := &c.t.at(child).style
		if cs.Display == solver.DisplayNone || cs.Position != solver.PositionAbsolute {
			continue
		}
		margin := resolveEdges(cs.Margin, cb.Width)
		left := cs.Inset.Left.Resolve(cb.Width)
		right := cs.Inset.Right.Resolve(cb.Width)
		top := cs.Inset.Top.Resolve(cb.Height)
		bottom := cs.Inset.Bottom.Resolve(cb.Height)

		known := maybeSize{
			Width:  cs.Size.Width.Resolve(cb.Width),
			Height: cs.Size.Height.Resolve(cb.Height),
		}
		if !known.Width.Valid && left.Valid && right.Valid {
			known.Width = solver.Some(max(0, box.Width-left.Value-right.Value-solver.HorizontalSum(margin)))
		}
		if !known.Height.Valid && top.Valid && bottom.Valid {
			known.Height = solver.Some(max(0, box.Height-top.Value-bottom.Value-solver.VerticalSum(margin)))
		}
		sz := c.size(child, known, cb, offered(cb, spaceSize{}))

		var loc solver.Point[float64]
		switch {
		case left.Valid:
			loc.X = border.Left + left.Value + margin.Left
		case right.Valid:
			loc.X = size.Width - border.Right - right.Value - margin.Right - sz.Width
		default:
			loc.X = border.Left + padding.Left + margin.Left
		}
		switch {
		case top.Valid:
			loc.Y = border.Top + top.Value + margin.Top
		case bottom.Valid:
			loc.Y = size.Height - border.Bottom - bottom.Value - margin.Bottom - sz.Height
		default:
			loc.Y = border.Top + padding.Top + margin.Top
		}
		c.place(child, uint32(i), cb.Width, loc, sz, margin)
	}
}
