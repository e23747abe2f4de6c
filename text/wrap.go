package text

import "strings"

// WrapMode specifies where lines may break.
type WrapMode uint8

const (
	// WrapWord breaks at word boundaries. Words longer than the line
	// overflow. This is the zero value.
	WrapWord WrapMode = iota

	// WrapChar breaks between any two characters.
	WrapChar

	// WrapNone only breaks at explicit newlines.
	WrapNone
)

// String returns the string representation of the wrap mode.
func (m WrapMode) String() string {
	switch m {
	case WrapWord:
		return "Word"
	case WrapChar:
		return "Char"
	case WrapNone:
		return "None"
	default:
		return "Unknown"
	}
}

// breakClass is a simplified UAX #14 line breaking class.
type breakClass uint8

const (
	breakOther breakClass = iota
	breakSpace
	breakOpen
	breakClose
	breakHyphen
	breakIdeographic
)

func classifyRune(r rune) breakClass {
	switch r {
	case ' ', '\t', '​':
		return breakSpace
	case '(', '[', '{', '“', '‘':
		return breakOpen
	case ')', ']', '}', '”', '’', ',', '.', '!', '?', ';', ':':
		return breakClose
	case '-', '‐', '–', '—':
		return breakHyphen
	}
	if isCJKRune(r) {
		return breakIdeographic
	}
	return breakOther
}

// isCJKRune reports whether r is a CJK character that allows breaking on
// either side.
func isCJKRune(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified Ideographs
		(r >= 0x3400 && r <= 0x4DBF) || // CJK Extension A
		(r >= 0x3040 && r <= 0x309F) || // Hiragana
		(r >= 0x30A0 && r <= 0x30FF) || // Katakana
		(r >= 0xAC00 && r <= 0xD7AF) || // Hangul Syllables
		(r >= 0xFF00 && r <= 0xFFEF) // Fullwidth forms
}

// segment is the unit of line breaking: text that stays on one line,
// followed by whitespace that may hang past the end of a line.
type segment struct {
	text  string
	space string
	// hard is set when a newline follows the segment.
	hard bool
}

// breakBefore reports whether a line may break between prev and cur,
// neither of which is whitespace.
func breakBefore(prev, cur breakClass, mode WrapMode) bool {
	if cur == breakClose || prev == breakOpen {
		return false
	}
	switch mode {
	case WrapChar:
		return true
	case WrapNone:
		return false
	}
	return prev == breakHyphen || prev == breakIdeographic || cur == breakIdeographic
}

// segments splits s into breakable segments for mode.
func segments(s string, mode WrapMode) []segment {
	var (
		out         []segment
		word, space strings.Builder
		prev        = breakSpace
	)
	flush := func(hard bool) {
		if word.Len() == 0 && space.Len() == 0 && !hard {
			return
		}
		out = append(out, segment{text: word.String(), space: space.String(), hard: hard})
		word.Reset()
		space.Reset()
	}

	for _, r := range s {
		if r == '\n' {
			flush(true)
			prev = breakSpace
			continue
		}
		if r == '\r' {
			continue
		}
		class := classifyRune(r)
		if class == breakSpace {
			if mode == WrapNone {
				word.WriteRune(r)
			} else {
				space.WriteRune(r)
			}
			prev = class
			continue
		}
		switch {
		case space.Len() > 0:
			flush(false)
		case word.Len() > 0 && breakBefore(prev, class, mode):
			flush(false)
		}
		word.WriteRune(r)
		prev = class
	}
	flush(false)
	return out
}
