package flex

import (
	"github.com/gogpu/moon/solver"
)

// gridCell is one auto-placed grid item.
type gridCell struct {
	id       solver.NodeID
	order    uint32
	row, col int
	margin   floatEdge
}

// gridTracks is a sized grid: column widths, row heights and the items
// placed on it.
type gridTracks struct {
	cols, rows     []float64
	colGap, rowGap float64
	cells          []gridCell
}

func sum(v []float64) float64 {
	total := 0.0
	for _, x := range v {
		total += x
	}
	return total
}

func (g *gridTracks) width() float64 {
	return sum(g.cols) + g.colGap*float64(max(0, len(g.cols)-1))
}

func (g *gridTracks) height() float64 {
	return sum(g.rows) + g.rowGap*float64(max(0, len(g.rows)-1))
}

// offset returns the start of track i.
func offset(tracks []float64, gap float64, i int) float64 {
	return sum(tracks[:i]) + gap*float64(i)
}

// rowTrack returns the sizing function of row r: explicit rows first, then
// the auto-row pattern repeated.
func rowTrack(s *solver.Style, r int) solver.Track {
	if r < len(s.GridTemplateRows) {
		return s.GridTemplateRows[r]
	}
	if k := len(s.GridAutoRows); k > 0 {
		return s.GridAutoRows[(r-len(s.GridTemplateRows))%k]
	}
	return solver.Track{Unit: solver.TrackAuto}
}

// grid places in-flow children row-major and sizes every track. On an
// indefinite axis flexible tracks size like auto tracks.
func (c *computer) grid(id solver.NodeID, inner maybeSize, avail spaceSize) gridTracks {
	n := c.t.at(id)
	s := &n.style
	childAvail := offered(inner, avail)

	cols := s.GridTemplateColumns
	if len(cols) == 0 {
		cols = s.GridAutoColumns
	}
	if len(cols) == 0 {
		cols = []solver.Track{{Unit: solver.TrackAuto}}
	}
	g := gridTracks{
		cols:   make([]float64, len(cols)),
		colGap: s.Gap.Width.ResolveOr(inner.Width, 0),
		rowGap: s.Gap.Height.ResolveOr(inner.Height, 0),
	}

	for i, child := range n.children {
		cs := &c.t.at(child).style
		if !inFlow(cs) {
			continue
		}
		k := len(g.cells)
		g.cells = append(g.cells, gridCell{
			id:     child,
			order:  uint32(i),
			row:    k / len(cols),
			col:    k % len(cols),
			margin: resolveEdges(cs.Margin, inner.Width),
		})
	}
	nrows := 0
	if len(g.cells) > 0 {
		nrows = g.cells[len(g.cells)-1].row + 1
	}
	g.rows = make([]float64, nrows)

	c.sizeTracks(g.cols, func(i int) solver.Track { return cols[i] }, inner.Width, g.colGap, func(i int) float64 {
		w := 0.0
		for _, cell := range g.cells {
			if cell.col == i {
				sz := c.size(cell.id, maybeSize{}, inner, childAvail)
				w = max(w, sz.Width+solver.HorizontalSum(cell.margin))
			}
		}
		return w
	})

	c.sizeTracks(g.rows, func(i int) solver.Track { return rowTrack(s, i) }, inner.Height, g.rowGap, func(i int) float64 {
		h := 0.0
		for _, cell := range g.cells {
			if cell.row == i {
				sz := c.size(cell.id, c.cellKnown(cell, g.cols[cell.col], solver.None()), inner, childAvail)
				h = max(h, sz.Height+solver.VerticalSum(cell.margin))
			}
		}
		return h
	})
	return g
}

// sizeTracks fills out with the size of each track. content reports the
// auto size of track i.
func (c *computer) sizeTracks(out []float64, track func(int) solver.Track, size solver.Maybe, gap float64, content func(int) float64) {
	fixed, frTotal := 0.0, 0.0
	for i := range out {
		t := track(i)
		switch {
		case t.Unit == solver.TrackLength:
			out[i] = t.Value
		case t.Unit == solver.TrackPercent && size.Valid:
			out[i] = t.Value * size.Value
		case t.Unit == solver.TrackFr && size.Valid:
			frTotal += t.Value
			continue
		default:
			out[i] = content(i)
		}
		fixed += out[i]
	}
	if frTotal == 0 {
		return
	}
	unit := max(0, size.Value-fixed-gap*float64(max(0, len(out)-1))) / frTotal
	for i := range out {
		if t := track(i); t.Unit == solver.TrackFr {
			out[i] = t.Value * unit
		}
	}
}

// cellKnown returns the sizes a grid item stretches to inside its cell.
func (c *computer) cellKnown(cell gridCell, colWidth float64, rowHeight solver.Maybe) maybeSize {
	cs := &c.t.at(cell.id).style
	var known maybeSize
	if cs.Size.Width.IsAuto() {
		known.Width = solver.Some(max(0, colWidth-solver.HorizontalSum(cell.margin)))
	}
	if cs.Size.Height.IsAuto() && rowHeight.Valid {
		known.Height = solver.Some(max(0, rowHeight.Value-solver.VerticalSum(cell.margin)))
	}
	return known
}

func (c *computer) layoutGrid(id solver.NodeID, inner floatSize, origin solver.Point[float64]) {
	cb := definite(inner)
	g := c.grid(id, cb, spaceSize{})
	for _, cell := range g.cells {
		known := c.cellKnown(cell, g.cols[cell.col], solver.Some(g.rows[cell.row]))
		sz := c.size(cell.id, known, cb, offered(cb, spaceSize{}))
		loc := solver.Point[float64]{
			X: origin.X + offset(g.cols, g.colGap, cell.col) + cell.margin.Left,
			Y: origin.Y + offset(g.rows, g.rowGap, cell.row) + cell.margin.Top,
		}
		c.place(cell.id, cell.order, cb.Width, loc, sz, cell.margin)
	}
}
