package moon

import "math/bits"

// bitset is a fixed-capacity set of node indices.
type bitset struct {
	words []uint64
}

// reset empties the set and makes room for n indices.
func (b *bitset) reset(n int) {
	need := (n + 63) / 64
	if cap(b.words) < need {
		b.words = make([]uint64, need)
		return
	}
	b.words = b.words[:need]
	clear(b.words)
}

func (b *bitset) insert(i int) {
	if w := i / 64; w < len(b.words) {
		b.words[w] |= 1 << (i % 64)
	}
}

func (b *bitset) contains(i int) bool {
	w := i / 64
	return w < len(b.words) && b.words[w]&(1<<(i%64)) != 0
}

func (b *bitset) isClear() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b *bitset) count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// each calls fn for every member in ascending order.
func (b *bitset) each(fn func(int)) {
	for wi, w := range b.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			fn(wi*64 + tz)
			w &= w - 1
		}
	}
}
