package moon

// propagateClips walks every root top-down and writes the inherited clip
// into Style.ClipRect. Writes are skipped when the value is unchanged.
func (e *Engine) propagateClips(s *Scene, roots []layoutRoot, rep *FrameReport) {
	for _, r := range roots {
		clipNode(s, r.id, nil, rep)
	}
}

func clipNode(s *Scene, id NodeID, inherited *Rect, rep *FrameReport) {
	n := s.nodes[id]
	style := &n.style

	if n.overrideClip {
		inherited = nil
	}
	if style.IsHidden() {
		inherited = &Rect{}
	}

	switch {
	case inherited != nil && !clipEqual(style.ClipRect, inherited):
		r := *inherited
		style.ClipRect = &r
		rep.ClipWrites++
	case inherited == nil && style.ClipRect != nil:
		style.ClipRect = nil
		rep.ClipWrites++
	}

	xv, yv := style.OverflowIsVisible()
	center := n.computed.Global.Translation().Truncate()
	if r, ok := n.computed.ClipRect(center, xv, yv, style.OverflowClipMargin); ok {
		if inherited != nil {
			r = inherited.Intersect(r)
		}
		inherited = &r
	}

	for _, c := range n.children {
		clipNode(s, c, inherited, rep)
	}
}
