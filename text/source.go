package text

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontSource is a loaded font file. It holds both the x/image view used for
// vertical metrics and the go-text view used for shaping.
//
// FontSource is safe for concurrent use.
type FontSource struct {
	name   string
	sfnt   *opentype.Font
	shaped *gotext.Font

	mu  sync.Mutex
	buf sfnt.Buffer
}

// NewFontSource parses font data (TTF or OTF).
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, &FontError{Name: "<memory>", Err: err}
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, &FontError{Name: "<memory>", Err: err}
	}

	s := &FontSource{sfnt: f, shaped: face.Font}
	s.name = familyName(f)
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	// #nosec G304 -- font path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}
	s, err := NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("text: %s: %w", path, err)
	}
	return s, nil
}

var (
	defaultOnce   sync.Once
	defaultSource *FontSource
)

// DefaultSource returns the embedded Go Regular font.
func DefaultSource() *FontSource {
	defaultOnce.Do(func() {
		s, err := NewFontSource(goregular.TTF)
		if err != nil {
			panic("text: embedded Go Regular font failed to parse: " + err.Error())
		}
		defaultSource = s
	})
	return defaultSource
}

// Name returns the font family name.
func (s *FontSource) Name() string {
	return s.name
}

// Metrics holds vertical font metrics at a given size, in pixels.
type Metrics struct {
	Ascent  float64
	Descent float64
	// Height is the recommended line height.
	Height float64
}

// Metrics returns the vertical metrics at size pixels per em.
func (s *FontSource) Metrics(size float64) Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.sfnt.Metrics(&s.buf, floatToFixed(size), font.HintingNone)
	if err != nil {
		return Metrics{Ascent: size * 0.8, Descent: size * 0.2, Height: size * 1.2}
	}
	return Metrics{
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
		Height:  fixedToFloat(m.Height),
	}
}

func familyName(f *opentype.Font) string {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}

// floatToFixed converts a float64 size to 26.6 fixed point.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
