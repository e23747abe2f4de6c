package moon

// TargetID identifies a render target of a Scene.
type TargetID uint32

// TargetInfo describes a render target: the physical viewport layout
// fills, the logical-to-physical scale factor and the camera zoom.
type TargetInfo struct {
	ScaleFactor  float64
	ZoomFactor   float64
	PhysicalSize Vec2

	changed bool
}

// Changed reports whether the zoom changed in the current frame.
func (t TargetInfo) Changed() bool { return t.changed }

// normalized fills unset factors with 1.
func (t TargetInfo) normalized() TargetInfo {
	if t.ScaleFactor <= 0 {
		t.ScaleFactor = 1
	}
	if t.ZoomFactor <= 0 {
		t.ZoomFactor = 1
	}
	return t
}

type target struct {
	info    TargetInfo
	visible []NodeID
	// seenZoom is the zoom of the previous frame; 0 before the first.
	seenZoom float64
}

// refreshTargets marks targets whose zoom changed since the last frame.
func refreshTargets(s *Scene) {
	for _, t := range s.targets {
		t.info.changed = t.info.ZoomFactor != t.seenZoom
		t.seenZoom = t.info.ZoomFactor
	}
}
