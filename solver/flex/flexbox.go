package flex

import (
	"github.com/gogpu/moon/solver"
)

// flexItem holds intermediate calculation state for a child.
// It is allocated per call, not stored on nodes.
type flexItem struct {
	id     solver.NodeID
	order  uint32
	margin floatEdge
	align  solver.Align

	basis float64
	main  float64
	cross float64

	minMain float64
	maxMain solver.Maybe
	grow    float64
	shrink  float64
}

// flexLine is the single line of in-flow items of a flex container.
type flexLine struct {
	row   bool
	gap   float64
	items []flexItem
}

func (it *flexItem) marginMain(row bool) float64 {
	if row {
		return solver.HorizontalSum(it.margin)
	}
	return solver.VerticalSum(it.margin)
}

func (it *flexItem) marginCross(row bool) float64 {
	if row {
		return solver.VerticalSum(it.margin)
	}
	return solver.HorizontalSum(it.margin)
}

// used returns the main-axis space taken by the items and gaps.
func (l *flexLine) used() float64 {
	total := l.gap * float64(max(0, len(l.items)-1))
	for i := range l.items {
		total += l.items[i].main + l.items[i].marginMain(l.row)
	}
	return total
}

// extent returns the outer size of the line in container axes.
func (l *flexLine) extent() floatSize {
	main := l.used()
	cross := 0.0
	for i := range l.items {
		cross = max(cross, l.items[i].cross+l.items[i].marginCross(l.row))
	}
	if l.row {
		return floatSize{Width: main, Height: cross}
	}
	return floatSize{Width: cross, Height: main}
}

func axes(s maybeSize, row bool) (main, cross solver.Maybe) {
	if row {
		return s.Width, s.Height
	}
	return s.Height, s.Width
}

func mainCrossSize(main, cross solver.Maybe, row bool) maybeSize {
	if row {
		return maybeSize{Width: main, Height: cross}
	}
	return maybeSize{Width: cross, Height: main}
}

// flexLine resolves the main and cross sizes of every in-flow child of id.
// inner is the container's content box; indefinite axes size items to
// their content.
func (c *computer) flexLine(id solver.NodeID, inner maybeSize, avail spaceSize) flexLine {
	n := c.t.at(id)
	s := &n.style
	row := s.FlexDirection.IsRow()
	innerMain, innerCross := axes(inner, row)
	childAvail := offered(inner, avail)

	gap := s.Gap.Width
	if !row {
		gap = s.Gap.Height
	}
	line := flexLine{row: row, gap: gap.ResolveOr(innerMain, 0)}

	for i, child := range n.children {
		cs := &c.t.at(child).style
		if !inFlow(cs) {
			continue
		}
		it := flexItem{
			id:     child,
			order:  uint32(i),
			margin: resolveEdges(cs.Margin, inner.Width),
			align:  cs.AlignSelf,
			grow:   cs.FlexGrow,
			shrink: cs.FlexShrink,
		}
		if it.align == solver.AlignAuto {
			it.align = s.AlignItems
		}

		mainDim, crossDim := cs.Size.Width, cs.Size.Height
		minDim, maxDim := cs.MinSize.Width, cs.MaxSize.Width
		if !row {
			mainDim, crossDim = crossDim, mainDim
			minDim, maxDim = cs.MinSize.Height, cs.MaxSize.Height
		}

		var stretched solver.Maybe
		if it.align == solver.AlignStretch && crossDim.IsAuto() && innerCross.Valid {
			stretched = solver.Some(max(0, innerCross.Value-it.marginCross(row)))
		}

		basis := cs.FlexBasis.Resolve(innerMain)
		if !basis.Valid {
			basis = mainDim.Resolve(innerMain)
		}
		if !basis.Valid {
			sz := c.size(child, mainCrossSize(solver.None(), stretched, row), inner, childAvail)
			if row {
				basis = solver.Some(sz.Width)
			} else {
				basis = solver.Some(sz.Height)
			}
		}
		it.basis = basis.Value
		it.minMain = minDim.ResolveOr(innerMain, 0)
		it.maxMain = maxDim.Resolve(innerMain)
		it.main = clampSize(it.basis, it.minMain, it.maxMain)
		line.items = append(line.items, it)
	}

	if innerMain.Valid {
		line.distribute(innerMain.Value)
	}

	for i := range line.items {
		it := &line.items[i]
		crossDim := c.t.at(it.id).style.Size.Height
		if !row {
			crossDim = c.t.at(it.id).style.Size.Width
		}
		var known maybeSize
		if it.align == solver.AlignStretch && crossDim.IsAuto() && innerCross.Valid {
			known = mainCrossSize(solver.Some(it.main), solver.Some(max(0, innerCross.Value-it.marginCross(row))), row)
		} else {
			known = mainCrossSize(solver.Some(it.main), solver.None(), row)
		}
		sz := c.size(it.id, known, inner, childAvail)
		if row {
			it.main, it.cross = sz.Width, sz.Height
		} else {
			it.main, it.cross = sz.Height, sz.Width
		}
	}
	return line
}

// distribute grows or shrinks items to fill size along the main axis.
// Shrinking is weighted by each item's base size.
func (l *flexLine) distribute(size float64) {
	free := size - l.used()
	switch {
	case free > 0:
		total := 0.0
		for i := range l.items {
			total += l.items[i].grow
		}
		if total == 0 {
			return
		}
		for i := range l.items {
			it := &l.items[i]
			if it.grow > 0 {
				it.main = clampSize(it.main+free*it.grow/total, it.minMain, it.maxMain)
			}
		}
	case free < 0:
		total := 0.0
		for i := range l.items {
			total += l.items[i].shrink * l.items[i].basis
		}
		if total == 0 {
			return
		}
		for i := range l.items {
			it := &l.items[i]
			if w := it.shrink * it.basis; w > 0 {
				it.main = clampSize(max(0, it.main+free*w/total), it.minMain, it.maxMain)
			}
		}
	}
}

// layoutFlex positions in-flow children along the main axis per
// JustifyContent and on the cross axis per their alignment.
func (c *computer) layoutFlex(id solver.NodeID, inner floatSize, origin solver.Point[float64]) {
	s := &c.t.at(id).style
	line := c.flexLine(id, definite(inner), spaceSize{})
	row := line.row

	innerMain, innerCross := inner.Width, inner.Height
	if !row {
		innerMain, innerCross = innerCross, innerMain
	}
	free := innerMain - line.used()
	pos := justifyOffset(s.JustifyContent, free, len(line.items))
	spacing := justifySpacing(s.JustifyContent, free, len(line.items))

	for i := range line.items {
		it := &line.items[i]
		outerMain := it.main + it.marginMain(row)
		crossPos := alignOffset(it.align, innerCross-it.cross-it.marginCross(row))

		var loc solver.Point[float64]
		switch {
		case row && !s.FlexDirection.IsReverse():
			loc.X = pos + it.margin.Left
		case row:
			loc.X = innerMain - pos - it.margin.Right - it.main
		case !s.FlexDirection.IsReverse():
			loc.Y = pos + it.margin.Top
		default:
			loc.Y = innerMain - pos - it.margin.Bottom - it.main
		}
		var size floatSize
		if row {
			loc.Y = crossPos + it.margin.Top
			size = floatSize{Width: it.main, Height: it.cross}
		} else {
			loc.X = crossPos + it.margin.Left
			size = floatSize{Width: it.cross, Height: it.main}
		}
		loc.X += origin.X
		loc.Y += origin.Y

		c.place(it.id, it.order, solver.Some(inner.Width), loc, size, it.margin)
		pos += outerMain + line.gap + spacing
	}
}

// justifyOffset returns the initial offset for positioning children
// based on the justify mode and available free space.
func justifyOffset(justify solver.Justify, free float64, count int) float64 {
	if free <= 0 || count == 0 {
		return 0
	}
	switch justify {
	case solver.JustifyEnd:
		return free
	case solver.JustifyCenter:
		return free / 2
	case solver.JustifySpaceAround:
		return free / float64(count*2)
	case solver.JustifySpaceEvenly:
		return free / float64(count+1)
	default:
		return 0
	}
}

// justifySpacing returns the extra spacing between children.
func justifySpacing(justify solver.Justify, free float64, count int) float64 {
	if free <= 0 || count == 0 {
		return 0
	}
	switch justify {
	case solver.JustifySpaceBetween:
		if count == 1 {
			return 0
		}
		return free / float64(count-1)
	case solver.JustifySpaceAround:
		return free / float64(count)
	case solver.JustifySpaceEvenly:
		return free / float64(count+1)
	default:
		return 0
	}
}

// alignOffset returns the offset of an item on the cross axis given the
// free cross space around it.
func alignOffset(align solver.Align, free float64) float64 {
	switch align {
	case solver.AlignEnd:
		return free
	case solver.AlignCenter:
		return free / 2
	default:
		return 0
	}
}

// blockContent stacks in-flow children vertically.
func (c *computer) blockContent(id solver.NodeID, inner maybeSize, avail spaceSize) floatSize {
	var out floatSize
	for _, b := range c.blockItems(id, inner, avail) {
		out.Width = max(out.Width, b.size.Width+solver.HorizontalSum(b.margin))
		out.Height += b.size.Height + solver.VerticalSum(b.margin)
	}
	return out
}

type blockItem struct {
	id     solver.NodeID
	order  uint32
	margin floatEdge
	size   floatSize
}

func (c *computer) blockItems(id solver.NodeID, inner maybeSize, avail spaceSize) []blockItem {
	n := c.t.at(id)
	childAvail := offered(inner, avail)
	var items []blockItem
	for i, child := range n.children {
		cs := &c.t.at(child).style
		if !inFlow(cs) {
			continue
		}
		b := blockItem{id: child, order: uint32(i), margin: resolveEdges(cs.Margin, inner.Width)}
		var known maybeSize
		if cs.Size.Width.IsAuto() && inner.Width.Valid {
			known.Width = solver.Some(max(0, inner.Width.Value-solver.HorizontalSum(b.margin)))
		}
		b.size = c.size(child, known, inner, childAvail)
		items = append(items, b)
	}
	return items
}

func (c *computer) layoutBlock(id solver.NodeID, inner floatSize, origin solver.Point[float64]) {
	y := origin.Y
	for _, b := range c.blockItems(id, definite(inner), spaceSize{}) {
		loc := solver.Point[float64]{X: origin.X + b.margin.Left, Y: y + b.margin.Top}
		c.place(b.id, b.order, solver.Some(inner.Width), loc, b.size, b.margin)
		y += b.size.Height + solver.VerticalSum(b.margin)
	}
}
