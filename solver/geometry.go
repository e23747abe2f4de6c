package solver

// Point is a 2D position.
type Point[T any] struct {
	X, Y T
}

// Size is a 2D extent.
type Size[T any] struct {
	Width, Height T
}

// Edges represents values for four sides of a box.
type Edges[T any] struct {
	Left, Right, Top, Bottom T
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll[T any](v T) Edges[T] {
	return Edges[T]{Left: v, Right: v, Top: v, Bottom: v}
}

// EdgeSymmetric creates Edges with vertical (top/bottom) and horizontal (left/right) values.
func EdgeSymmetric[T any](v, h T) Edges[T] {
	return Edges[T]{Left: h, Right: h, Top: v, Bottom: v}
}

// Maybe is an optional float64. The zero value is "not set".
type Maybe struct {
	Value float64
	Valid bool
}

// Some returns a set Maybe.
func Some(v float64) Maybe { return Maybe{Value: v, Valid: true} }

// None returns an unset Maybe.
func None() Maybe { return Maybe{} }

// Or returns the value if set, otherwise def.
func (m Maybe) Or(def float64) float64 {
	if m.Valid {
		return m.Value
	}
	return def
}

// spaceKind identifies the variant of an AvailableSpace.
type spaceKind uint8

const (
	spaceDefinite spaceKind = iota
	spaceMinContent
	spaceMaxContent
)

// AvailableSpace is the space a node may grow into along one axis: either a
// definite amount, or a request to size under a min-content or max-content
// constraint.
type AvailableSpace struct {
	kind  spaceKind
	value float64
}

// Definite returns a definite available space of v pixels.
func Definite(v float64) AvailableSpace {
	return AvailableSpace{kind: spaceDefinite, value: v}
}

// MinContentSpace requests sizing under a min-content constraint.
func MinContentSpace() AvailableSpace { return AvailableSpace{kind: spaceMinContent} }

// MaxContentSpace requests sizing under a max-content constraint.
func MaxContentSpace() AvailableSpace { return AvailableSpace{kind: spaceMaxContent} }

// IsDefinite reports whether the space is a definite amount.
func (a AvailableSpace) IsDefinite() bool { return a.kind == spaceDefinite }

// IsMinContent reports whether the space is a min-content constraint.
func (a AvailableSpace) IsMinContent() bool { return a.kind == spaceMinContent }

// IsMaxContent reports whether the space is a max-content constraint.
func (a AvailableSpace) IsMaxContent() bool { return a.kind == spaceMaxContent }

// Value returns the definite amount, or 0 for content constraints.
func (a AvailableSpace) Value() float64 {
	if a.kind == spaceDefinite {
		return a.value
	}
	return 0
}

// Maybe converts the space into an optional definite value.
func (a AvailableSpace) Maybe() Maybe {
	if a.kind == spaceDefinite {
		return Some(a.value)
	}
	return None()
}

// Sub shrinks a definite space by v, never below zero.
func (a AvailableSpace) Sub(v float64) AvailableSpace {
	if a.kind != spaceDefinite {
		return a
	}
	return Definite(max(0, a.value-v))
}

// Scale multiplies a definite space by factor.
func (a AvailableSpace) Scale(factor float64) AvailableSpace {
	if a.kind != spaceDefinite {
		return a
	}
	return Definite(a.value * factor)
}

// String returns a short description for debugging.
func (a AvailableSpace) String() string {
	switch a.kind {
	case spaceMinContent:
		return "min-content"
	case spaceMaxContent:
		return "max-content"
	default:
		return "definite"
	}
}
