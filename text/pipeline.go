package text

import "math"

// DefaultSize is the font size used when a Style leaves Size unset.
const DefaultSize = 16.0

// Style describes how a run of text is set.
type Style struct {
	// Font is a family name registered in the FontSet; empty selects the
	// fallback font.
	Font string
	// Size is the font size in logical pixels.
	Size float64
	// LineHeight is a multiple of Size. Zero uses the font's own metrics.
	LineHeight float64
	Wrap       WrapMode
}

// Pipeline shapes text content into Blocks.
type Pipeline struct {
	fonts  *FontSet
	shaper *Shaper
}

// NewPipeline creates a pipeline over fonts with a shaping cache of
// cacheSize runs.
func NewPipeline(fonts *FontSet, cacheSize int) *Pipeline {
	if fonts == nil {
		fonts = NewFontSet()
	}
	return &Pipeline{fonts: fonts, shaper: NewShaper(cacheSize)}
}

// Fonts returns the font set used for lookups.
func (p *Pipeline) Fonts() *FontSet { return p.fonts }

// Shaper returns the pipeline's shaper.
func (p *Pipeline) Shaper() *Shaper { return p.shaper }

// CreateMeasure shapes content at style.Size*scale pixels into block and
// returns its min-content and max-content sizes. Unknown fonts fail with
// ErrNoSuchFont and leave block untouched.
func (p *Pipeline) CreateMeasure(content string, style Style, scale float64, block *Block) (MeasureInfo, error) {
	src, err := p.fonts.Lookup(style.Font)
	if err != nil {
		return MeasureInfo{}, err
	}
	size := style.Size
	if size <= 0 {
		size = DefaultSize
	}
	size *= scale

	dir := DetectDirection(content)
	words := block.words[:0]
	for _, seg := range segments(content, style.Wrap) {
		words = append(words, word{
			width: p.shaper.Advance(src, seg.text, size, dir),
			space: p.shaper.Advance(src, seg.space, size, dir),
			hard:  seg.hard,
		})
	}

	lineHeight := style.LineHeight * size
	if style.LineHeight <= 0 {
		lineHeight = src.Metrics(size).Height
	}

	block.words = words
	block.lineHeight = lineHeight
	block.direction = dir
	block.generation++
	block.hasLast = false
	block.rerender = true

	info := MeasureInfo{generation: block.generation, words: len(words)}
	info.Min, _ = block.layout(block.widestWord())
	info.Max, _ = block.layout(math.Inf(1))
	return info, nil
}
