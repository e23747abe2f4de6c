package text

import "math"

// Size is a width and height in pixels.
type Size struct {
	Width, Height float64
}

// word is a shaped segment.
type word struct {
	width float64
	space float64
	hard  bool
}

// Block is the content buffer of one text node: its shaped words plus the
// result of the last line layout. A Block is filled by
// Pipeline.CreateMeasure and queried with ComputeSize during layout.
//
// A Block is not safe for concurrent use.
type Block struct {
	words      []word
	lineHeight float64
	direction  Direction
	generation uint64
	rerender   bool

	hasLast   bool
	lastWidth float64
	lastSize  Size
	lines     int
}

// MeasureInfo is the content-size summary of a Block, in scaled pixels.
type MeasureInfo struct {
	// Min is the size when every break opportunity is taken.
	Min Size
	// Max is the size when only explicit newlines break.
	Max Size

	generation uint64
	words      int
}

// ComputeSize lays the block out in lines no wider than maxWidth and
// returns the resulting size. It fails with ErrInconsistentBlock when the
// block was changed after info was produced.
func (b *Block) ComputeSize(info MeasureInfo, maxWidth float64) (Size, error) {
	if b.generation != info.generation || len(b.words) != info.words {
		return Size{}, ErrInconsistentBlock
	}
	if b.hasLast && b.lastWidth == maxWidth {
		return b.lastSize, nil
	}
	size, lines := b.layout(maxWidth)
	b.hasLast = true
	b.lastWidth = maxWidth
	b.lastSize = size
	b.lines = lines
	return size, nil
}

// Lines returns the number of lines of the last ComputeSize call.
func (b *Block) Lines() int { return b.lines }

// Direction returns the detected base direction of the content.
func (b *Block) Direction() Direction { return b.direction }

// NeedsRerender reports whether the content changed since MarkRendered.
func (b *Block) NeedsRerender() bool { return b.rerender }

// MarkRendered clears the rerender flag.
func (b *Block) MarkRendered() { b.rerender = false }

// Reset drops the shaped content. MeasureInfo values produced before the
// reset no longer match the block.
func (b *Block) Reset() {
	b.words = b.words[:0]
	b.generation++
	b.hasLast = false
	b.rerender = true
}

// layout breaks words greedily into lines of at most maxWidth. Trailing
// whitespace hangs past the line end and never forces a break.
func (b *Block) layout(maxWidth float64) (Size, int) {
	var (
		lines   int
		widest  float64
		lineW   float64
		pending float64
		onLine  bool
		forced  bool
	)
	for _, w := range b.words {
		if lines == 0 {
			lines = 1
		}
		if forced || (onLine && lineW+pending+w.width > maxWidth) {
			widest = max(widest, lineW)
			lines++
			lineW, pending, onLine = 0, 0, false
		}
		forced = w.hard
		if onLine {
			lineW += pending
		}
		lineW += w.width
		pending = w.space
		onLine = true
	}
	widest = max(widest, lineW)
	return Size{Width: math.Ceil(widest), Height: math.Ceil(float64(lines) * b.lineHeight)}, lines
}

// widestWord returns the advance of the longest unbreakable segment.
func (b *Block) widestWord() float64 {
	w := 0.0
	for _, wd := range b.words {
		w = max(w, wd.width)
	}
	return w
}
