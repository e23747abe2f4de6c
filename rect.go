package moon

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle. In clip space Min is the bottom-left
// corner and Max the top-right. Either side may be infinite.
type Rect struct {
	Min, Max Vec2
}

// RectFromCenterSize returns the rectangle of the given size centered at c.
func RectFromCenterSize(c, size Vec2) Rect {
	half := size.Mul(0.5)
	return Rect{Min: c.Sub(half), Max: c.Add(half)}
}

// InfiniteRect returns a rectangle that clips nothing.
func InfiniteRect() Rect {
	inf := math.Inf(1)
	return Rect{Min: Vec2{-inf, -inf}, Max: Vec2{inf, inf}}
}

// Width returns the extent along X.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the extent along Y.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Size returns the extent of the rectangle.
func (r Rect) Size() Vec2 { return r.Max.Sub(r.Min) }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 { return r.Min.Add(r.Max).Mul(0.5) }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Inflate grows every side by e. A negative e shrinks, collapsing to a
// point rather than inverting.
func (r Rect) Inflate(e float64) Rect {
	out := Rect{
		Min: Vec2{r.Min.X - e, r.Min.Y - e},
		Max: Vec2{r.Max.X + e, r.Max.Y + e},
	}
	return out.normalize()
}

// Intersect returns the overlap of r and o. Disjoint rectangles give an
// empty rectangle.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Min: Vec2{math.Max(r.Min.X, o.Min.X), math.Max(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Min(r.Max.X, o.Max.X), math.Min(r.Max.Y, o.Max.Y)},
	}
	return out.normalize()
}

func (r Rect) normalize() Rect {
	r.Min.X = math.Min(r.Min.X, r.Max.X)
	r.Min.Y = math.Min(r.Min.Y, r.Max.Y)
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("[(%g, %g) - (%g, %g)]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
