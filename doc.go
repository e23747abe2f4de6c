// Package moon is the layout and compositing core of a retained-mode UI.
//
// # Overview
//
// A Scene holds UI nodes: a Style, a local Transform, optional measured
// content and the ComputedNode written back every frame. Render targets
// declare which nodes they show and at what scale. Engine.Update runs one
// frame over the scene and leaves every visible node with its size,
// center, border, padding, clip rectangle, paint-order index and world
// transform.
//
// # Quick Start
//
//	s := moon.NewScene()
//	win := s.AddTarget(moon.TargetInfo{PhysicalSize: moon.V2(800, 600)})
//
//	style := moon.DefaultStyle()
//	style.Layout.FlexDirection = solver.Column
//	root := s.Spawn(style)
//	_ = s.SetVisible(win, root)
//
//	engine := moon.NewEngine()
//	rep, err := engine.Update(ctx, s)
//
// # Frame Phases
//
// Update runs these phases in order:
//   - stacking: visible nodes of each target are sorted into paint order
//   - text measurement: dirty text content is reshaped at the target scale
//   - layout sync: styles, content and hierarchy are mirrored into the solver
//   - solving: every layout root is laid out in physical pixels
//   - geometry: solver output is converted into ComputedNode values
//   - transforms: local transforms are composed into world transforms
//   - clipping: overflow clips are intersected down the tree
//
// # Coordinate System
//
// Solver output is top-left origin with Y down. Computed geometry is
// center-relative and Y-up: a node's translation is the offset of its
// center from its parent's center. Edge arrays run counter-clockwise
// from the left edge; corner arrays run counter-clockwise from
// bottom-left.
//
// # Errors
//
// A failed content measurement is recoverable: the frame finishes, the
// node is retried next frame and Update reports a *MeasureError. Corrupted
// content state aborts the frame with a *FatalError. Broken internal
// invariants panic with an *InvariantError.
//
// # Logging
//
// The package logs through log/slog and is silent by default. Use
// SetLogger to enable output.
package moon
