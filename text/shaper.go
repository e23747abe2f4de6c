package text

import (
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"

	"github.com/gogpu/moon/internal/cache"
)

// shapeKey identifies a shaped run in the advance cache.
type shapeKey struct {
	source   *FontSource
	text     string
	sizeBits uint64
	dir      Direction
}

// Shaper measures runs with HarfBuzz shaping from go-text/typesetting.
// Run advances are cached by font, text, size and direction.
//
// Shaper is safe for concurrent use. HarfbuzzShaper instances are pooled
// because they carry mutable buffers.
type Shaper struct {
	pool     sync.Pool
	advances *cache.Cache[shapeKey, float64]
}

// NewShaper creates a shaper caching up to cacheSize run advances.
func NewShaper(cacheSize int) *Shaper {
	return &Shaper{
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		advances: cache.New[shapeKey, float64](cacheSize),
	}
}

// Advance returns the horizontal advance of run set in source at size
// pixels.
func (s *Shaper) Advance(source *FontSource, run string, size float64, dir Direction) float64 {
	if run == "" || source == nil || size <= 0 {
		return 0
	}
	key := shapeKey{source: source, text: run, sizeBits: math.Float64bits(size), dir: dir}
	return s.advances.GetOrCreate(key, func() float64 {
		return s.shape(source, run, size, dir)
	})
}

// CacheStats returns the advance cache statistics.
func (s *Shaper) CacheStats() cache.Stats {
	return s.advances.Stats()
}

func (s *Shaper) shape(source *FontSource, run string, size float64, dir Direction) float64 {
	runes := []rune(run)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: mapDirection(dir),
		Face:      gotext.NewFace(source.shaped),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	total := 0.0
	for _, g := range out.Glyphs {
		total += fixedToFloat(g.Advance)
	}
	return total
}

func mapDirection(d Direction) di.Direction {
	if d == DirectionRTL {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
