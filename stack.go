package moon

import (
	"cmp"
	"context"
	"iter"
	"log/slog"
	"math"
	"slices"
)

// Range is a half-open span [Start, End).
type Range struct {
	Start, End int
}

// Len returns End - Start.
func (r Range) Len() int { return r.End - r.Start }

// UiStack is the paint and pick order of one render target, rebuilt every
// frame. Entities are back-to-front: the first entry is drawn first, the
// last is drawn on top and is hit first.
type UiStack struct {
	// Ranges tile [0, len(Entities)) with one span per sibling group, in
	// the order the groups were visited. Entities are appended depth first,
	// so a range gives a group's size and position in visit order, not
	// the positions of its members.
	Ranges   []Range
	Entities []NodeID
	Roots    []NodeID

	z       []float64
	visible bitset
}

func (st *UiStack) reset() {
	st.Ranges = st.Ranges[:0]
	st.Entities = st.Entities[:0]
	st.Roots = st.Roots[:0]
	st.z = st.z[:0]
}

// Len returns the number of stacked nodes.
func (st *UiStack) Len() int { return len(st.Entities) }

// Visible reports whether node is in the target's visible set.
func (st *UiStack) Visible(node NodeID) bool {
	return st.visible.contains(int(node))
}

// BackToFront yields nodes in paint order.
func (st *UiStack) BackToFront() iter.Seq2[int, NodeID] {
	return func(yield func(int, NodeID) bool) {
		for i, id := range st.Entities {
			if !yield(i, id) {
				return
			}
		}
	}
}

// FrontToBack yields nodes in hit-test order: highest global Z first,
// ties broken by the higher NodeID.
func (st *UiStack) FrontToBack() iter.Seq[NodeID] {
	idx := make([]int, len(st.Entities))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		za, ia := frontToBackKey(st.z[a], st.Entities[a])
		zb, ib := frontToBackKey(st.z[b], st.Entities[b])
		return cmp.Or(cmp.Compare(za, zb), cmp.Compare(ia, ib))
	})
	return func(yield func(NodeID) bool) {
		for _, i := range idx {
			if !yield(st.Entities[i]) {
				return
			}
		}
	}
}

func backToFrontKey(z float64, id NodeID) (float64, uint32) {
	return z, uint32(id)
}

func frontToBackKey(z float64, id NodeID) (float64, uint32) {
	return -z, math.MaxUint32 - uint32(id)
}

type stackEntry struct {
	id NodeID
	z  float64
}

// stackBuilder fills one UiStack.
type stackBuilder struct {
	scene  *Scene
	stack  *UiStack
	target TargetID
	depth  int
}

// buildStacks rebuilds the stack of every target with visible nodes.
// Targets whose visible set is empty lose their stack.
func (e *Engine) buildStacks(s *Scene, rep *FrameReport) {
	for _, tid := range s.targetOrder() {
		t := s.targets[tid]
		st, ok := e.stacks[tid]
		if !ok {
			st = &UiStack{}
		}
		st.visible.reset(len(s.nodes))
		for _, id := range t.visible {
			if s.node(id) != nil {
				st.visible.insert(int(id))
			}
		}
		if st.visible.isClear() {
			delete(e.stacks, tid)
			continue
		}
		e.stacks[tid] = st
		st.reset()

		var roots []stackEntry
		st.visible.each(func(i int) {
			if n := s.nodes[i]; !n.hasParent {
				st.Roots = append(st.Roots, NodeID(i))
				roots = append(roots, stackEntry{id: NodeID(i), z: n.transform.Translation.Z})
			}
		})

		b := stackBuilder{scene: s, stack: st, target: tid}
		b.group(roots)
		rep.StackedNodes += st.Len()
		Logger().Debug("moon: stack built", "target", tid, "visible", st.visible.count(), "stacked", st.Len())
	}
}

// group sorts one sibling group back to front, appends it and recurses
// into each member's visible children. Z accumulates down the tree.
func (b *stackBuilder) group(entries []stackEntry) {
	if len(entries) == 0 {
		return
	}
	slices.SortFunc(entries, func(x, y stackEntry) int {
		zx, ix := backToFrontKey(x.z, x.id)
		zy, iy := backToFrontKey(y.z, y.id)
		return cmp.Or(cmp.Compare(zx, zy), cmp.Compare(ix, iy))
	})

	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("moon: stack group", "target", b.target, "depth", b.depth, "nodes", entries)
	}

	st := b.stack
	start := 0
	if k := len(st.Ranges); k > 0 {
		start = st.Ranges[k-1].End
	}
	st.Ranges = append(st.Ranges, Range{Start: start, End: start + len(entries)})

	for _, en := range entries {
		n := b.scene.nodes[en.id]
		n.computed.StackIndex = b.depth
		b.depth++
		st.Entities = append(st.Entities, en.id)
		st.z = append(st.z, en.z)

		var children []stackEntry
		for _, c := range n.children {
			if st.visible.contains(int(c)) {
				children = append(children, stackEntry{id: c, z: en.z + b.scene.nodes[c].transform.Translation.Z})
			}
		}
		b.group(children)
	}
}
