package moon

import (
	"fmt"
	"math"

	"github.com/gogpu/moon/solver"
	"github.com/gogpu/moon/text"
)

// TextMeasure sizes a text node from its MeasureInfo. Info is in text
// units, which are physical pixels times ZoomFactor.
type TextMeasure struct {
	Info       text.MeasureInfo
	ZoomFactor float64
}

// Measure implements Measure.
func (m TextMeasure) Measure(args MeasureArgs, _ *solver.Style) (Vec2, error) {
	zoom := m.ZoomFactor
	if zoom <= 0 {
		zoom = 1
	}
	minSize, maxSize := m.Info.Min, m.Info.Max

	var x float64
	switch w := args.Avail.Width; {
	case args.Known.Width.Valid:
		x = args.Known.Width.Value * zoom
	case w.IsMinContent():
		x = minSize.Width
	case w.IsMaxContent():
		x = maxSize.Width
	default:
		// Min content can exceed max content for soft-wrapped text; max wins.
		x = math.Min(math.Max(w.Value()*zoom, minSize.Width), maxSize.Width)
	}

	size := V2(x, 0)
	switch w := args.Avail.Width; {
	case args.Known.Height.Valid:
		size.Y = args.Known.Height.Value * zoom
	case w.IsMinContent():
		size.Y = minSize.Height
	case w.IsMaxContent():
		size.Y = maxSize.Height
	case args.Buffer == nil:
		Logger().Warn("moon: text measure without content buffer")
		size = Vec2{}
	default:
		got, err := args.Buffer.ComputeSize(m.Info, x)
		if err != nil {
			return Vec2{}, fmt.Errorf("%w: %w", ErrContentCorrupted, err)
		}
		size = V2(got.Width, got.Height)
	}

	return size.Div(zoom).Ceil(), nil
}
