package text

import (
	"fmt"
	"sort"
	"sync"
)

// FontSet maps font family names to sources. The empty name resolves to
// the fallback source, which defaults to Go Regular.
//
// FontSet is safe for concurrent use.
type FontSet struct {
	mu       sync.RWMutex
	sources  map[string]*FontSource
	fallback *FontSource
}

// NewFontSet creates a set containing only the fallback font.
func NewFontSet() *FontSet {
	return &FontSet{
		sources:  make(map[string]*FontSource),
		fallback: DefaultSource(),
	}
}

// Register adds a source under name, replacing any previous entry.
func (fs *FontSet) Register(name string, s *FontSource) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.sources[name] = s
}

// LoadFile parses a font file and registers it under its family name.
func (fs *FontSet) LoadFile(path string) (*FontSource, error) {
	s, err := NewFontSourceFromFile(path)
	if err != nil {
		return nil, err
	}
	fs.Register(s.Name(), s)
	return s, nil
}

// SetFallback replaces the source used for the empty name.
func (fs *FontSet) SetFallback(s *FontSource) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.fallback = s
}

// Lookup returns the source registered under name.
func (fs *FontSet) Lookup(name string) (*FontSource, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if name == "" {
		return fs.fallback, nil
	}
	s, ok := fs.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchFont, name)
	}
	return s, nil
}

// Names returns the registered family names in sorted order.
func (fs *FontSet) Names() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	names := make([]string, 0, len(fs.sources))
	for n := range fs.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
