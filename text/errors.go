package text

import "errors"

// Sentinel errors for the text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrNoSuchFont is returned when a style names a font that is not
	// registered. Callers typically retry once the font is loaded.
	ErrNoSuchFont = errors.New("text: no such font")

	// ErrInconsistentBlock is returned when a Block no longer matches the
	// MeasureInfo it was created with. The content buffer is corrupted and
	// measurements from it cannot be trusted.
	ErrInconsistentBlock = errors.New("text: inconsistent block state")
)

// FontError reports a font that failed to parse.
type FontError struct {
	Name string
	Err  error
}

func (e *FontError) Error() string {
	return "text: font " + e.Name + ": " + e.Err.Error()
}

func (e *FontError) Unwrap() error { return e.Err }
