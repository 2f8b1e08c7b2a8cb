package insertalign

import (
	"github.com/chmduquesne/rollinghash/buzhash32"
)

// OffsetSeed narrows the insert-aligner's offset search band by indexing
// r1's k-mers by position and, for a given rc2, returning only the offsets
// at which a shared k-mer actually occurs (SPEC_FULL.md §4.2). This is the
// same buzhash32 rolling-hash idiom the teacher uses in muscato_screen.go
// to sketch candidate windows before exact comparison.
type OffsetSeed struct {
	k uint
}

// NewOffsetSeed returns a seed indexer using k-mers of width k.
func NewOffsetSeed(k uint) *OffsetSeed {
	if k == 0 {
		k = 12
	}
	return &OffsetSeed{k: k}
}

// Candidates returns the distinct offsets o such that some k-mer of r1
// ending inside the overlap matches a k-mer of rc2 at the corresponding
// position, i.e. the offsets a shared seed could have produced. An empty
// result means the caller should fall back to the full offset range.
func (s *OffsetSeed) Candidates(r1, rc2 []byte) []int {
	k := int(s.k)
	if len(r1) < k || len(rc2) < k {
		return nil
	}

	index := make(map[uint32][]int, len(r1)-k+1)
	h := buzhash32.New()
	for i := 0; i+k <= len(r1); i++ {
		h.Reset()
		h.Write(r1[i : i+k])
		sum := h.Sum32()
		index[sum] = append(index[sum], i)
	}

	seen := make(map[int]bool)
	var out []int
	h2 := buzhash32.New()
	for j := 0; j+k <= len(rc2); j++ {
		h2.Reset()
		h2.Write(rc2[j : j+k])
		sum := h2.Sum32()
		for _, i := range index[sum] {
			// A k-mer match at r1[i:i+k] == rc2[j:j+k] implies the
			// mate overlap offset o = i - j (r1 index i aligns to
			// rc2 index j under offset o means r1[start1+x] pairs
			// with rc2[start2+x]; for x=i-start1=j-start2, and with
			// start1=max(0,o), start2=max(0,-o), the offset that
			// places these two windows in register is o = i - j).
			o := i - j
			if !seen[o] {
				seen[o] = true
				out = append(out, o)
			}
		}
	}
	return out
}
