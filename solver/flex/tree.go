// Package flex is a small reference implementation of [solver.Tree].
//
// It supports single-line flexbox (no wrapping), a row-major auto-placed
// grid, vertical block flow and absolutely positioned children. It is meant
// for tests, tools and simple hosts; production hosts plug in a complete
// solver behind the same interface.
package flex

import (
	"fmt"

	"github.com/gogpu/moon/solver"
)

// node is one arena slot.
type node struct {
	generation uint32
	live       bool

	style    solver.Style
	ctx      any
	hasCtx   bool
	children []solver.NodeID
	parent   solver.NodeID
	attached bool

	layout solver.Layout
}

// Tree is an arena of layout nodes addressed by generational handles.
// Freed slots are reused; their generation is bumped so old handles are
// rejected with [solver.ErrInvalidNode].
//
// Tree is not safe for concurrent use.
type Tree struct {
	nodes    []node
	free     []uint32
	count    int
	rounding bool
}

// Option configures a Tree.
type Option func(*options)

type options struct {
	rounding bool
	capacity int
}

// WithRounding snaps computed layouts to whole pixels.
func WithRounding(enabled bool) Option {
	return func(o *options) {
		o.rounding = enabled
	}
}

// WithCapacity preallocates room for n nodes.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

var _ solver.Tree = (*Tree)(nil)

// New creates an empty Tree.
func New(opts ...Option) *Tree {
	o := options{rounding: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree{
		nodes:    make([]node, 0, o.capacity),
		rounding: o.rounding,
	}
}

func (t *Tree) get(id solver.NodeID) (*node, error) {
	i := int(id.Index())
	if i >= len(t.nodes) {
		return nil, fmt.Errorf("%w: %v", solver.ErrInvalidNode, id)
	}
	n := &t.nodes[i]
	if !n.live || n.generation != id.Generation() {
		return nil, fmt.Errorf("%w: %v", solver.ErrInvalidNode, id)
	}
	return n, nil
}

// at returns the slot of a handle already known to be valid.
func (t *Tree) at(id solver.NodeID) *node {
	return &t.nodes[id.Index()]
}

func (t *Tree) alloc(style solver.Style, ctx any, hasCtx bool) solver.NodeID {
	var idx uint32
	if k := len(t.free); k > 0 {
		idx = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		idx = uint32(len(t.nodes))
		t.nodes = append(t.nodes, node{})
	}
	n := &t.nodes[idx]
	n.live = true
	n.style = style
	n.ctx = ctx
	n.hasCtx = hasCtx
	n.children = nil
	n.attached = false
	n.layout = solver.Layout{}
	t.count++
	return solver.NewNodeID(idx, n.generation)
}

// NewLeaf implements solver.Tree.
func (t *Tree) NewLeaf(style solver.Style) (solver.NodeID, error) {
	return t.alloc(style, nil, false), nil
}

// NewLeafWithContext implements solver.Tree.
func (t *Tree) NewLeafWithContext(style solver.Style, ctx any) (solver.NodeID, error) {
	return t.alloc(style, ctx, ctx != nil), nil
}

// SetStyle implements solver.Tree.
func (t *Tree) SetStyle(id solver.NodeID, style solver.Style) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.style = style
	return nil
}

// SetContext implements solver.Tree.
func (t *Tree) SetContext(id solver.NodeID, ctx any) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.ctx = ctx
	n.hasCtx = ctx != nil
	return nil
}

// SetChildren implements solver.Tree. A child that belongs to another
// parent is moved.
func (t *Tree) SetChildren(id solver.NodeID, children []solver.NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	for _, c := range children {
		if _, err := t.get(c); err != nil {
			return err
		}
		if t.isAncestorOrSelf(c, id) {
			return fmt.Errorf("%w: %v under %v", solver.ErrCycle, c, id)
		}
	}

	for _, c := range n.children {
		t.at(c).attached = false
	}
	for _, c := range children {
		cn := t.at(c)
		if cn.attached && cn.parent != id {
			t.detach(cn.parent, c)
		}
		cn.parent = id
		cn.attached = true
	}
	n.children = append(n.children[:0:0], children...)
	return nil
}

// isAncestorOrSelf reports whether a is id or one of its ancestors.
func (t *Tree) isAncestorOrSelf(a, id solver.NodeID) bool {
	for cur := id; ; {
		if cur == a {
			return true
		}
		n := t.at(cur)
		if !n.attached {
			return false
		}
		cur = n.parent
	}
}

func (t *Tree) detach(parent, child solver.NodeID) {
	p := t.at(parent)
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

// Children implements solver.Tree.
func (t *Tree) Children(id solver.NodeID) ([]solver.NodeID, error) {
	n, err := t.get(id)
	if err != nil {
		return nil, err
	}
	return append([]solver.NodeID(nil), n.children...), nil
}

// Remove implements solver.Tree.
func (t *Tree) Remove(id solver.NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.attached {
		t.detach(n.parent, id)
	}
	for _, c := range n.children {
		t.at(c).attached = false
	}
	t.release(id.Index())
	return nil
}

func (t *Tree) release(idx uint32) {
	n := &t.nodes[idx]
	n.generation++
	n.live = false
	n.ctx = nil
	n.hasCtx = false
	n.children = nil
	n.attached = false
	t.free = append(t.free, idx)
	t.count--
}

// Layout implements solver.Tree.
func (t *Tree) Layout(id solver.NodeID) (solver.Layout, error) {
	n, err := t.get(id)
	if err != nil {
		return solver.Layout{}, err
	}
	return n.layout, nil
}

// Clear implements solver.Tree. Every outstanding handle becomes stale.
func (t *Tree) Clear() {
	for i := range t.nodes {
		if t.nodes[i].live {
			t.release(uint32(i))
		}
	}
}

// Len implements solver.Tree.
func (t *Tree) Len() int {
	return t.count
}

// ComputeLayout implements solver.Tree.
//
// A root with an auto size shrinks to its content, capped by the definite
// available space.
func (t *Tree) ComputeLayout(root solver.NodeID, avail solver.Size[solver.AvailableSpace], measure solver.MeasureFunc) error {
	n, err := t.get(root)
	if err != nil {
		return err
	}
	c := computer{t: t, measure: measure}
	parent := solver.Size[solver.Maybe]{Width: avail.Width.Maybe(), Height: avail.Height.Maybe()}
	margin := resolveEdges(n.style.Margin, parent.Width)

	size := c.size(root, solver.Size[solver.Maybe]{}, parent, avail)
	if fitted, ok := fitRoot(&n.style, size, avail, margin); ok {
		size = c.size(root, fitted, parent, avail)
	}

	n.layout = solver.Layout{
		Location: solver.Point[float64]{X: margin.Left, Y: margin.Top},
		Size:     size,
		Border:   resolveEdges(n.style.Border, parent.Width),
		Padding:  resolveEdges(n.style.Padding, parent.Width),
		Margin:   margin,
	}
	if n.style.Display == solver.DisplayNone {
		c.hide(root, 0)
		return nil
	}
	c.layout(root, size)
	if t.rounding {
		t.round(root, 0, 0)
	}
	return nil
}

// fitRoot caps auto-sized root axes at the available space. It reports
// false when no axis needed capping.
func fitRoot(s *solver.Style, size solver.Size[float64], avail solver.Size[solver.AvailableSpace], margin solver.Edges[float64]) (solver.Size[solver.Maybe], bool) {
	known := solver.Size[solver.Maybe]{Width: solver.Some(size.Width), Height: solver.Some(size.Height)}
	capped := false
	if s.Size.Width.IsAuto() && avail.Width.IsDefinite() {
		if limit := max(0, avail.Width.Value()-solver.HorizontalSum(margin)); size.Width > limit {
			known.Width = solver.Some(limit)
			known.Height = solver.None()
			capped = true
		}
	}
	if s.Size.Height.IsAuto() && avail.Height.IsDefinite() {
		if limit := max(0, avail.Height.Value()-solver.VerticalSum(margin)); size.Height > limit {
			known.Height = solver.Some(limit)
			capped = true
		}
	}
	return known, capped
}
