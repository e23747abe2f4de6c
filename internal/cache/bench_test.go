package cache

import (
	"strings"
	"testing"
)

type runKey struct {
	text string
	size uint64
}

// Words of a paragraph reshaped every frame hit the cache.
func BenchmarkGetOrCreate_Hit(b *testing.B) {
	words := strings.Fields("the quick brown fox jumps over the lazy dog again and again")
	c := New[runKey, float64](256)
	for _, w := range words {
		c.Set(runKey{text: w, size: 16}, float64(len(w)))
	}

	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		w := words[i%len(words)]
		c.GetOrCreate(runKey{text: w, size: 16}, func() float64 { return 0 })
	}
}

// A zoom sweep changes the size of every run, so each lookup misses.
func BenchmarkGetOrCreate_ZoomSweep(b *testing.B) {
	c := New[runKey, float64](64)

	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		c.GetOrCreate(runKey{text: "label", size: uint64(i)}, func() float64 { return 1 })
	}
}
