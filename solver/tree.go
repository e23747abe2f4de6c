package solver

import (
	"errors"
	"fmt"
)

// NodeID is a generational handle to a solver node. The low 32 bits are the
// slot index and the high 32 bits the slot generation, so a handle to a
// removed node never aliases a node that later reuses the slot.
type NodeID uint64

// NewNodeID packs a slot index and generation into a handle.
func NewNodeID(index, generation uint32) NodeID {
	return NodeID(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index.
func (id NodeID) Index() uint32 { return uint32(id) }

// Generation returns the slot generation.
func (id NodeID) Generation() uint32 { return uint32(id >> 32) }

// String implements fmt.Stringer.
func (id NodeID) String() string {
	return fmt.Sprintf("%dv%d", id.Index(), id.Generation())
}

// Errors returned by Tree implementations.
var (
	// ErrInvalidNode is returned for a handle that was never issued or whose
	// node has been removed.
	ErrInvalidNode = errors.New("solver: invalid node handle")

	// ErrCycle is returned when SetChildren would make a node its own ancestor.
	ErrCycle = errors.New("solver: child list creates a cycle")
)

// MeasureFunc reports the intrinsic size of a leaf that carries a
// measurement context.
//
// known holds the dimensions the solver has already fixed; avail is the
// space offered on each axis. ctx is the value passed to NewLeafWithContext
// or SetContext. The returned size is in physical pixels.
type MeasureFunc func(known Size[Maybe], avail Size[AvailableSpace], id NodeID, ctx any, style *Style) Size[float64]

// Tree is a box-layout constraint solver.
//
// Implementations own their nodes. Every method taking a NodeID returns
// ErrInvalidNode (possibly wrapped) for stale or unknown handles.
type Tree interface {
	// NewLeaf creates a node without a measurement context.
	NewLeaf(style Style) (NodeID, error)
	// NewLeafWithContext creates a node whose intrinsic size is reported
	// by the MeasureFunc passed to ComputeLayout.
	NewLeafWithContext(style Style, ctx any) (NodeID, error)
	// SetStyle replaces the style of a node and marks it dirty.
	SetStyle(id NodeID, style Style) error
	// SetContext replaces (or clears, with nil) the measurement context.
	SetContext(id NodeID, ctx any) error
	// SetChildren replaces the ordered child list of a node.
	SetChildren(id NodeID, children []NodeID) error
	// Children returns a copy of the child list.
	Children(id NodeID) ([]NodeID, error)
	// Remove detaches a node from its parent and frees it. Its children are
	// detached but not freed.
	Remove(id NodeID) error
	// ComputeLayout lays out the subtree rooted at root.
	ComputeLayout(root NodeID, avail Size[AvailableSpace], measure MeasureFunc) error
	// Layout returns the last computed layout of a node.
	Layout(id NodeID) (Layout, error)
	// Clear removes every node.
	Clear()
	// Len returns the number of live nodes.
	Len() int
}
