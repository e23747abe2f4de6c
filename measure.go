package moon

import (
	"github.com/gogpu/moon/solver"
	"github.com/gogpu/moon/text"
)

// MeasureArgs are the constraints a measurement runs under, in physical
// pixels.
type MeasureArgs struct {
	Known solver.Size[solver.Maybe]
	Avail solver.Size[solver.AvailableSpace]
	// Buffer is the node's content buffer. It is only looked up when the
	// height is unknown and the available width is definite; it may be nil.
	Buffer *text.Block
}

// A Measure computes the size of a node whose size depends on its content.
//
// Errors wrapping ErrContentCorrupted abort the frame. Any other error is
// reported and the node is measured again on the next frame; the solver
// sees a zero size meanwhile.
type Measure interface {
	Measure(args MeasureArgs, style *solver.Style) (Vec2, error)
}

// FixedMeasure ignores all constraints and always returns Size.
type FixedMeasure struct {
	Size Vec2
}

// Measure implements Measure.
func (m FixedMeasure) Measure(MeasureArgs, *solver.Style) (Vec2, error) {
	return m.Size, nil
}

// MeasureFunc adapts a function to the Measure interface.
type MeasureFunc func(args MeasureArgs, style *solver.Style) (Vec2, error)

// Measure implements Measure.
func (f MeasureFunc) Measure(args MeasureArgs, style *solver.Style) (Vec2, error) {
	return f(args, style)
}

// needsBuffer reports whether a measurement at these constraints reads the
// content buffer.
func needsBuffer(height solver.Maybe, availWidth solver.AvailableSpace) bool {
	return !height.Valid && availWidth.IsDefinite()
}

// ContentSize holds the Measure of a node sized by its content.
type ContentSize struct {
	measure Measure
	tick    uint64
	// needsMeasure re-arms the node after a failed measurement.
	needsMeasure bool
}

// Measure returns the current measure, or nil.
func (c *ContentSize) Measure() Measure {
	if c == nil {
		return nil
	}
	return c.measure
}

// NeedsMeasure reports whether the node is re-armed for the next frame.
func (c *ContentSize) NeedsMeasure() bool {
	return c != nil && c.needsMeasure
}

// ContentBuffers maps nodes to their text content buffers.
type ContentBuffers struct {
	blocks map[NodeID]*text.Block
}

// NewContentBuffers returns an empty table.
func NewContentBuffers() *ContentBuffers {
	return &ContentBuffers{blocks: make(map[NodeID]*text.Block)}
}

// Get returns the buffer of node, or nil.
func (b *ContentBuffers) Get(node NodeID) *text.Block {
	return b.blocks[node]
}

// Ensure returns the buffer of node, creating it if needed.
func (b *ContentBuffers) Ensure(node NodeID) *text.Block {
	blk, ok := b.blocks[node]
	if !ok {
		blk = &text.Block{}
		b.blocks[node] = blk
	}
	return blk
}

// Delete drops the buffer of node.
func (b *ContentBuffers) Delete(node NodeID) {
	delete(b.blocks, node)
}

// Len returns the number of buffers.
func (b *ContentBuffers) Len() int {
	return len(b.blocks)
}
