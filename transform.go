package moon

// Transform is a node's local transform relative to its parent's center,
// in Y-up space. Layout owns the X and Y of Translation for non-root
// nodes; Rotation, Scale and Z belong to the host.
type Transform struct {
	Translation Vec3
	// Rotation is in radians about Z, counter-clockwise.
	Rotation float64
	Scale    Vec2
}

// IdentityTransform returns a transform that changes nothing.
func IdentityTransform() Transform {
	return Transform{Scale: V2(1, 1)}
}

// FromTranslation returns an identity transform moved to t.
func FromTranslation(t Vec3) Transform {
	tr := IdentityTransform()
	tr.Translation = t
	return tr
}

// Affine returns T·R·S.
func (t Transform) Affine() Matrix {
	return Translate(t.Translation.X, t.Translation.Y).
		Multiply(Rotate(t.Rotation)).
		Multiply(Scale(t.Scale.X, t.Scale.Y))
}

// GlobalTransform is a node's transform in target space. Z accumulates
// along the ancestor chain.
type GlobalTransform struct {
	Affine Matrix
	Z      float64
}

// GlobalIdentity returns the transform of the target origin.
func GlobalIdentity() GlobalTransform {
	return GlobalTransform{Affine: Identity()}
}

// Mul returns the global transform of a child with local transform t.
func (g GlobalTransform) Mul(t Transform) GlobalTransform {
	return GlobalTransform{
		Affine: g.Affine.Multiply(t.Affine()),
		Z:      g.Z + t.Translation.Z,
	}
}

// Translation returns the global position of the node's center.
func (g GlobalTransform) Translation() Vec3 {
	return g.Affine.Translation().Extend(g.Z)
}

// composeTransform moves a child so that its center sits where layout put
// it relative to the parent's center. Only Translation.X and .Y of t are
// written; the cached layout affine on c is updated. It reports whether
// anything changed.
func composeTransform(t *Transform, c *ComputedNode, parentSize Vec2) bool {
	center := c.Location.Add(c.Size.Sub(parentSize).Mul(0.5)).MulVec(flipY)

	cached := c.Affine
	if center == cached.Translation() {
		return false
	}

	base := t.Affine().Multiply(cached.Invert())
	cached = cached.WithTranslation(center)
	final := base.Multiply(cached)

	tr := final.Translation()
	t.Translation.X = tr.X
	t.Translation.Y = tr.Y
	c.Affine = cached
	return true
}
