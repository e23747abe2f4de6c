// Package solver defines the contract between the moon layout engine and a
// box-layout constraint solver.
//
// The engine never inspects how a solver arrives at its answer. It builds a
// tree of solver nodes (one per participating UI node), hands each a [Style]
// expressed in physical pixels plus an optional measurement context, asks for
// a layout against a definite root size and reads back one [Layout] record
// per node.
//
// # Units
//
// Every length that crosses this boundary is in physical pixels. Percentages
// are fractions: Percent(0.5) is 50%.
//
// # Edges
//
// [Edges] stores the four sides of a box by name. The engine converts them to
// its own counter-clockwise arrays (left, bottom, right, top) when deriving
// computed geometry.
//
// A reference implementation lives in the flex sub-package.
package solver
