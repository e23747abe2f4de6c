package moon

import (
	"errors"
	"math"

	"github.com/gogpu/moon/text"
)

// TextContent is the text of a node. The engine turns it into the node's
// Measure before layout.
type TextContent struct {
	Text  string
	Style text.Style

	needsMeasure bool
}

// NeedsMeasure reports whether a new measure will be built next frame.
func (t *TextContent) NeedsMeasure() bool {
	return t.needsMeasure
}

// NormalizeScaleFactor returns the scale text is shaped at: scaleFactor
// times the rounded inverse zoom, at least scaleFactor and at most
// maxScale.
func NormalizeScaleFactor(scaleFactor, zoomFactor, maxScale float64) float64 {
	if zoomFactor <= 0 {
		zoomFactor = 1
	}
	base := math.Max(scaleFactor*math.Round(1/zoomFactor), scaleFactor)
	return math.Min(base, maxScale)
}

// measureText rebuilds the measure of every text node visible in a
// target whose content or zoom changed. Unknown fonts keep the node armed
// for the next frame. Other shaping failures are fatal.
func (e *Engine) measureText(s *Scene, rep *FrameReport) error {
	done := make(map[NodeID]bool)
	for _, tid := range s.targetOrder() {
		stack, ok := e.stacks[tid]
		if !ok {
			continue
		}
		info := s.targets[tid].info
		applied := NormalizeScaleFactor(info.ScaleFactor, info.ZoomFactor, e.cfg.MaxTextScale)
		zoom := applied / info.ScaleFactor

		for _, id := range stack.Entities {
			n := s.node(id)
			if n == nil || n.text == nil || done[id] {
				continue
			}
			done[id] = true
			tc := n.text
			if info.changed {
				tc.needsMeasure = true
			}
			if !tc.needsMeasure {
				continue
			}

			style := tc.Style
			if style.Size <= 0 {
				style.Size = e.cfg.DefaultFontSize
			}
			mi, err := e.pipeline.CreateMeasure(tc.Text, style, applied, s.buffers.Ensure(id))
			switch {
			case errors.Is(err, text.ErrNoSuchFont):
				Logger().Warn("moon: font not found, retrying next frame", "node", id, "font", style.Font)
				rep.TextRetries++
				continue
			case err != nil:
				return &FatalError{Phase: "text", Node: id, Err: err}
			}

			var m Measure
			if style.Wrap == text.WrapNone {
				m = FixedMeasure{Size: V2(mi.Max.Width, mi.Max.Height).Div(zoom).Ceil()}
			} else {
				m = TextMeasure{Info: mi, ZoomFactor: zoom}
			}
			s.setContent(n, m)
			tc.needsMeasure = false
			rep.TextMeasures++
		}
	}
	return nil
}
