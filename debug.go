package moon

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// DumpTree renders every tree of s with its computed geometry, one line
// per node. Intended for debugging and the moonlayout tool.
func (e *Engine) DumpTree(s *Scene) string {
	root := tp.New()
	root.SetValue(fmt.Sprintf("scene (%d nodes, frame %d)", s.Len(), e.frame))
	for _, id := range s.Roots() {
		dumpNode(s, root, id)
	}
	return root.String()
}

func dumpNode(s *Scene, p tp.Tree, id NodeID) {
	n := s.nodes[id]
	c := &n.computed
	t := c.Global.Translation()
	label := fmt.Sprintf("#%d size=%gx%g center=(%g,%g) stack=%d",
		id, c.Size.X, c.Size.Y, t.X, t.Y, c.StackIndex)
	if r := n.style.ClipRect; r != nil {
		label += " clip=" + r.String()
	}
	if len(n.children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, child := range n.children {
		dumpNode(s, branch, child)
	}
}

// Dump renders the stack in paint order followed by its sibling-group
// ranges. Ranges record group sizes in visit order; they are not indices
// into Entities.
func (st *UiStack) Dump() string {
	root := tp.New()
	root.SetValue(fmt.Sprintf("stack (%d nodes, %d roots)", st.Len(), len(st.Roots)))
	order := root.AddBranch("paint order")
	for i, id := range st.BackToFront() {
		order.AddNode(fmt.Sprintf("%d: #%d z=%g", i, id, st.z[i]))
	}
	groups := root.AddBranch("groups")
	for _, r := range st.Ranges {
		groups.AddNode(fmt.Sprintf("[%d,%d)", r.Start, r.End))
	}
	return root.String()
}
