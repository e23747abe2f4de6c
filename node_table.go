package moon

import (
	"errors"
	"fmt"

	"github.com/gogpu/moon/solver"
)

// NodeTable keeps the one-to-one mapping between scene nodes and solver
// handles. Every solver call it issues is expected to succeed; a rejection
// panics with an *InvariantError.
type NodeTable struct {
	tree    solver.Tree
	handles map[NodeID]solver.NodeID
	writes  int
}

// measureContext is the solver context of a node with a Measure.
type measureContext struct {
	node    NodeID
	measure Measure
}

// NewNodeTable returns an empty table over tree.
func NewNodeTable(tree solver.Tree) *NodeTable {
	return &NodeTable{tree: tree, handles: make(map[NodeID]solver.NodeID)}
}

// Tree returns the underlying solver.
func (t *NodeTable) Tree() solver.Tree { return t.tree }

// Handle returns the solver handle of node.
func (t *NodeTable) Handle(node NodeID) (solver.NodeID, bool) {
	h, ok := t.handles[node]
	return h, ok
}

// Len returns the number of registered nodes.
func (t *NodeTable) Len() int { return len(t.handles) }

// Writes returns the number of solver mutations issued so far.
func (t *NodeTable) Writes() int { return t.writes }

func contextOf(node NodeID, m Measure) any {
	if m == nil {
		return nil
	}
	return &measureContext{node: node, measure: m}
}

// Upsert registers node or updates its style and measure. The style is
// scaled to physical pixels.
func (t *NodeTable) Upsert(node NodeID, style *Style, scaleFactor float64, m Measure) solver.NodeID {
	s := style.Solver(scaleFactor)
	t.writes++
	if h, ok := t.handles[node]; ok {
		invariant("set style", node, t.tree.SetStyle(h, s))
		invariant("set context", node, t.tree.SetContext(h, contextOf(node, m)))
		return h
	}

	var (
		h   solver.NodeID
		err error
	)
	if m != nil {
		h, err = t.tree.NewLeafWithContext(s, contextOf(node, m))
	} else {
		h, err = t.tree.NewLeaf(s)
	}
	invariant("new leaf", node, err)
	t.handles[node] = h
	return h
}

// SetChildren replaces the solver child list of node.
func (t *NodeTable) SetChildren(node NodeID, children []solver.NodeID) {
	h, ok := t.handles[node]
	if !ok {
		invariant("set children", node, ErrLayoutNotFound)
	}
	t.writes++
	invariant("set children", node, t.tree.SetChildren(h, children))
}

// Remove frees the solver entry of node. Unknown nodes are ignored.
func (t *NodeTable) Remove(node NodeID) {
	h, ok := t.handles[node]
	if !ok {
		return
	}
	delete(t.handles, node)
	t.writes++
	invariant("remove", node, t.tree.Remove(h))
}

// RemoveChildren clears the solver child list of node. Unknown nodes are
// ignored.
func (t *NodeTable) RemoveChildren(node NodeID) {
	if _, ok := t.handles[node]; !ok {
		return
	}
	t.SetChildren(node, nil)
}

// RemoveContext drops the measure of node. Unknown nodes are ignored.
func (t *NodeTable) RemoveContext(node NodeID) {
	h, ok := t.handles[node]
	if !ok {
		return
	}
	t.writes++
	invariant("remove context", node, t.tree.SetContext(h, nil))
}

// Clear drops every registration and empties the solver.
func (t *NodeTable) Clear() {
	t.tree.Clear()
	clear(t.handles)
}

// ComputeLayout lays out the tree under root in a viewport of the given
// physical size.
func (t *NodeTable) ComputeLayout(root NodeID, physicalSize Vec2, measure solver.MeasureFunc) error {
	h, ok := t.handles[root]
	if !ok {
		return fmt.Errorf("%w: root %d", ErrLayoutNotFound, root)
	}
	avail := solver.Size[solver.AvailableSpace]{
		Width:  solver.Definite(physicalSize.X),
		Height: solver.Definite(physicalSize.Y),
	}
	invariant("compute layout", root, t.tree.ComputeLayout(h, avail, measure))
	return nil
}

// Layout returns the layout of node in logical pixels.
func (t *NodeTable) Layout(node NodeID, scaleFactor float64) (solver.Layout, error) {
	h, ok := t.handles[node]
	if !ok {
		return solver.Layout{}, fmt.Errorf("%w: node %d", ErrLayoutNotFound, node)
	}
	l, err := t.tree.Layout(h)
	if err != nil {
		if errors.Is(err, solver.ErrInvalidNode) {
			invariant("layout", node, err)
		}
		return solver.Layout{}, err
	}
	return l.Scale(1 / scaleFactor), nil
}

// layoutSync walks scene trees and pushes changes into a NodeTable.
// scratch is reused across walks; each parent owns the segment past the
// length it saw on entry and truncates it before returning.
type layoutSync struct {
	scene   *Scene
	table   *NodeTable
	scratch []solver.NodeID
	synced  int
}

// visit syncs the subtree of id and returns its handle and whether the
// node itself was written.
func (ls *layoutSync) visit(id NodeID, scaleFactor float64) (solver.NodeID, bool) {
	n := ls.scene.nodes[id]
	h, registered := ls.table.Handle(id)

	styleChanged := n.styleTick > n.synced
	contentChanged := n.content != nil && (n.content.tick > n.synced || n.content.needsMeasure)
	scaleChanged := n.syncedScale != scaleFactor
	changed := !registered || styleChanged || contentChanged || scaleChanged

	switch {
	case !changed:
	case registered && !styleChanged && !scaleChanged && n.content.measure == nil:
		// Only the measure went away.
		ls.table.RemoveContext(id)
		n.content.needsMeasure = false
		n.synced = ls.scene.tick
	default:
		h = ls.table.Upsert(id, &n.style, scaleFactor, n.content.Measure())
		if n.content != nil {
			n.content.needsMeasure = false
		}
		n.synced = ls.scene.tick
		n.syncedScale = scaleFactor
		ls.synced++
	}

	start := len(ls.scratch)
	childChanged := false
	for _, c := range n.children {
		ch, cc := ls.visit(c, scaleFactor)
		ls.scratch = append(ls.scratch, ch)
		childChanged = childChanged || cc
	}
	hierarchy := n.childrenTick > n.childrenSynced
	if childChanged || hierarchy || (!registered && len(n.children) > 0) {
		ls.table.SetChildren(id, ls.scratch[start:])
		n.childrenSynced = ls.scene.tick
	}
	ls.scratch = ls.scratch[:start]
	return h, changed
}
