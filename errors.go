package moon

import (
	"errors"
	"fmt"
)

var (
	// ErrLayoutNotFound is returned when a node has no solver entry yet.
	// Callers skip the node for the current pass.
	ErrLayoutNotFound = errors.New("moon: layout not found")

	// ErrContentCorrupted reports a content buffer that no longer matches
	// the measurement built from it. Measurement providers wrap it to
	// abort the frame.
	ErrContentCorrupted = errors.New("moon: content corrupted")

	// ErrUnknownNode is returned by Scene operations on a node that was
	// never spawned or has been despawned.
	ErrUnknownNode = errors.New("moon: unknown node")

	// ErrUnknownTarget is returned by Scene operations on a missing target.
	ErrUnknownTarget = errors.New("moon: unknown target")
)

// InvariantError reports a broken engine invariant, such as the solver
// rejecting an operation the node table issued. It is raised with panic.
type InvariantError struct {
	Op   string
	Node NodeID
	Err  error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("moon: invariant violated: %s node %d: %v", e.Op, e.Node, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

// MeasureError is a recoverable measurement failure. The node is measured
// again on the next frame.
type MeasureError struct {
	Node NodeID
	Err  error
}

func (e *MeasureError) Error() string {
	return fmt.Sprintf("moon: measure node %d: %v", e.Node, e.Err)
}

func (e *MeasureError) Unwrap() error { return e.Err }

// FatalError aborts a frame. Update returns it after the phase that
// raised it; later phases do not run.
type FatalError struct {
	Phase string
	Node  NodeID
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("moon: fatal in %s phase at node %d: %v", e.Phase, e.Node, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// invariant panics with an *InvariantError when err is non-nil.
func invariant(op string, node NodeID, err error) {
	if err != nil {
		panic(&InvariantError{Op: op, Node: node, Err: err})
	}
}
