package cpuinfo

import (
	"fmt"
	"strings"
)

// bitVector stores one bit per offset of a feature class, indexed by
// f & FeatureMask.
type bitVector struct {
	words []uint32
}

func newBitVector(bits int) *bitVector {
	return &bitVector{words: make([]uint32, (bits+31)/32)}
}

func (v *bitVector) get(f Feature) bool {
	i := f.Offset()
	if v == nil || i/32 >= len(v.words) {
		return false
	}
	return v.words[i/32]&(1<<(i%32)) != 0
}

func (v *bitVector) set(f Feature) {
	i := f.Offset()
	if i/32 >= len(v.words) {
		return
	}
	v.words[i/32] |= 1 << (i % 32)
}

// hex renders the words most significant first, for debugging dumps.
func (v *bitVector) hex() string {
	parts := make([]string, len(v.words))
	for i, w := range v.words {
		parts[len(v.words)-1-i] = fmt.Sprintf("%08x", w)
	}
	return strings.Join(parts, " ")
}
