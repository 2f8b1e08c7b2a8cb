package align

import (
	"github.com/chmduquesne/rollinghash/buzhash32"
	"github.com/willf/bloom"
)

// SeedScreen is a Bloom-filter-backed k-mer pre-screen: grounded directly on
// the teacher's muscato_screen.go, which sketches read windows into a Bloom
// filter keyed by a buzhash32 rolling hash, then probes target sequences
// against the sketch before any expensive exact comparison. Here the roles
// are reversed: the adapter's own k-mers seed the filter, and a read is
// screened before the aligner commits to the full banded DP (spec.md §4.1 /
// SPEC_FULL.md §4.1).
type SeedScreen struct {
	k      uint
	filter *bloom.BloomFilter
}

// safeSeedWidth returns the largest seed width MayContain can use without
// ever rejecting a match the aligner would otherwise accept. A true match of
// length L with at most e = floor(maxErrorRate*L) errors must, by the
// pigeonhole principle, contain an error-free run of L/(e+1) bases
// somewhere in it; as long as k does not exceed that for every L the
// aligner would accept (L ranges over [minOverlap, m]), that error-free run
// is guaranteed to appear as one of the adapter's own k-mers in the filter.
func safeSeedWidth(m, minOverlap int, maxErrorRate float64) uint {
	if m <= 0 {
		return 0
	}
	if minOverlap < 1 {
		minOverlap = 1
	}
	if minOverlap > m {
		minOverlap = m
	}
	best := m
	for l := minOverlap; l <= m; l++ {
		errs := int(maxErrorRate * float64(l))
		window := l / (errs + 1)
		if window < best {
			best = window
		}
	}
	if best < 1 {
		best = 1
	}
	return uint(best)
}

// NewSeedScreen builds a screen over every k-mer of adapter. k is a
// requested seed width; it is narrowed to safeSeedWidth(len(adapter),
// minOverlap, maxErrorRate) whenever that bound is tighter, so the screen
// can never reject an alignment that still satisfies the configured error
// budget (spec.md §4.1: a seed screen "can only reject, never accept"). k=0
// requests the safe width outright. The result is also clamped to
// len(adapter) when the adapter is shorter than the requested seed width.
func NewSeedScreen(adapter []byte, k uint, minOverlap int, maxErrorRate float64) *SeedScreen {
	safe := safeSeedWidth(len(adapter), minOverlap, maxErrorRate)
	if k == 0 || k > safe {
		k = safe
	}
	if int(k) > len(adapter) {
		k = uint(len(adapter))
	}
	if k == 0 {
		return &SeedScreen{k: 0}
	}
	// Eight bits per adapter base is generous but keeps the false
	// positive rate low for the short adapters this screen targets.
	nbits := uint(len(adapter)) * 8
	if nbits < 64 {
		nbits = 64
	}
	f := bloom.New(nbits, 4)

	h := buzhash32.New()
	for i := 0; i+int(k) <= len(adapter); i++ {
		h.Reset()
		h.Write(adapter[i : i+int(k)])
		f.Add(hashBytes(h.Sum32()))
	}
	return &SeedScreen{k: k, filter: f}
}

// MayContain reports whether any k-mer window of read matches one of the
// adapter's own k-mers. This is the fast-reject hint described in
// SPEC_FULL.md §4.1: a false result proves no match is possible; a true
// result requires the DP to decide.
func (s *SeedScreen) MayContain(adapter, read []byte) bool {
	if s == nil || s.filter == nil || s.k == 0 {
		return true
	}
	if len(read) < int(s.k) {
		return true
	}
	h := buzhash32.New()
	for i := 0; i+int(s.k) <= len(read); i++ {
		h.Reset()
		h.Write(read[i : i+int(s.k)])
		if s.filter.Test(hashBytes(h.Sum32())) {
			return true
		}
	}
	return false
}

func hashBytes(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
