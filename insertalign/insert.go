// Package insertalign implements the paired-end insert aligner of
// spec.md §4.2: it aligns r1 directly against reverse_complement(r2) to
// detect adapter contamination from the overhang beyond the biological
// insert, which is far more sensitive than per-read adapter matching for
// short inserts.
package insertalign

import (
	"github.com/kshedden/trimato/align"
	"github.com/kshedden/trimato/iupac"
	"github.com/kshedden/trimato/seqio"
)

// Options configures one insert-alignment call.
type Options struct {
	MinOverlap             int
	MaxInsertMismatchFrac  float64
	MaxAdapterMismatchFrac float64
	InsertMaxRMP           *float64
	Wildcards              iupac.Policy

	// Seed, if non-nil, narrows the offset search band per
	// SPEC_FULL.md §4.2; nil falls back to scanning the full range,
	// which is cheap for the short reads this subsystem targets.
	Seed *OffsetSeed
}

// Result is the outcome of a successful insert alignment: one trim length
// per mate, and whether overlap mismatches should be corrected in place.
type Result struct {
	Offset int
	Overlap int
	Mismatches int

	// TrimR1/TrimR2 are the number of bases to cut from the 3' end of
	// each mate to remove the detected adapter overhang.
	TrimR1, TrimR2 int

	// CorrectMismatches signals the adapter-cutter stage to replace
	// mismatching bases inside the overlap with the higher-quality base
	// (spec.md §4.2).
	CorrectMismatches bool
}

// Align implements spec.md §4.2's five-step procedure.
func Align(r1, r2 *seqio.Read, a1, a2 []byte, opts Options) (Result, bool) {
	n1, n2 := len(r1.Sequence), len(r2.Sequence)
	if n1 == 0 || n2 == 0 {
		return Result{}, false
	}
	rc2 := seqio.ReverseComplement(r2.Sequence)

	minOverlap := opts.MinOverlap
	if minOverlap <= 0 {
		minOverlap = 1
	}

	candidates := offsetRange(n1, n2)
	if opts.Seed != nil && n1 > 64 && n2 > 64 {
		if hinted := opts.Seed.Candidates(r1.Sequence, rc2); len(hinted) > 0 {
			candidates = hinted
		}
	}

	type scored struct {
		offset, overlap, matches, mismatches int
	}
	var best scored
	haveBest := false

	for _, o := range candidates {
		length := overlapLength(n1, n2, o)
		if length < minOverlap {
			continue
		}
		m, x := countOverlap(r1.Sequence, rc2, o, length, opts.Wildcards)
		if float64(x)/float64(length) > opts.MaxInsertMismatchFrac {
			continue
		}
		if opts.InsertMaxRMP != nil {
			rmp := align.RandomMatchProbability(length, m, iupac.MatchProbability)
			if rmp > *opts.InsertMaxRMP {
				continue
			}
		}
		cand := scored{offset: o, overlap: length, matches: m, mismatches: x}
		if better(cand, best, haveBest) {
			best, haveBest = cand, true
		}
	}
	if !haveBest {
		return Result{}, false
	}

	res := Result{Offset: best.offset, Overlap: best.overlap, Mismatches: best.mismatches}

	// Putative adapter regions (spec.md §4.2 step 4): r1[start1:start1+L]
	// is the part of r1 that aligned against rc2, so anything past it is
	// r1's A1 overhang. rc2[0:start2] is the part of rc2 *before* the
	// aligned window; since rc2 runs from r2's 3' end inward, that prefix
	// is exactly r2's A2 overhang.
	start1 := maxInt(0, best.offset)
	start2 := maxInt(0, -best.offset)
	trimR1 := n1 - start1 - best.overlap
	trimR2 := start2

	if trimR1 > 0 && !validateOverhang(r1.Sequence[n1-trimR1:], a1, opts.MaxAdapterMismatchFrac, opts.Wildcards) {
		return Result{}, false
	}
	if trimR2 > 0 && !validateOverhang(r2.Sequence[n2-trimR2:], a2, opts.MaxAdapterMismatchFrac, opts.Wildcards) {
		return Result{}, false
	}

	res.TrimR1, res.TrimR2 = trimR1, trimR2
	res.CorrectMismatches = best.mismatches > 0
	return res, true
}

func better(c, b struct{ offset, overlap, matches, mismatches int }, bSet bool) bool {
	if !bSet {
		return true
	}
	cs, bs := c.matches-c.mismatches, b.matches-b.mismatches
	if cs != bs {
		return cs > bs
	}
	if c.overlap != b.overlap {
		return c.overlap > b.overlap
	}
	return absInt(c.offset) < absInt(b.offset)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// offsetRange enumerates spec.md §4.2's offset domain o in
// [-(n1-1), n2-1].
func offsetRange(n1, n2 int) []int {
	out := make([]int, 0, n1+n2-1)
	for o := -(n1 - 1); o <= n2-1; o++ {
		out = append(out, o)
	}
	return out
}

// overlapLength computes L(o) = min(n1 - max(0,o), n2 + min(0,o)).
func overlapLength(n1, n2, o int) int {
	a := n1 - maxInt(0, o)
	b := n2 + minInt(0, o)
	return minInt(a, b)
}

// countOverlap compares r1[max(0,o) : max(0,o)+length] against
// rc2[max(0,-o) : max(0,-o)+length], returning (matches, mismatches).
func countOverlap(r1, rc2 []byte, o, length int, wc iupac.Policy) (int, int) {
	start1 := maxInt(0, o)
	start2 := maxInt(0, -o)
	matches, mismatches := 0, 0
	for i := 0; i < length; i++ {
		if wc.Compatible(r1[start1+i], rc2[start2+i]) {
			matches++
		} else {
			mismatches++
		}
	}
	return matches, mismatches
}

// validateOverhang compares a candidate overhang against the declared
// adapter up to maxMismatchFrac (spec.md §4.2 step 5). A zero-length
// adapter or overhang longer than the adapter is compared over the
// shared prefix only.
func validateOverhang(overhang, adapterSeq []byte, maxMismatchFrac float64, wc iupac.Policy) bool {
	n := len(overhang)
	if len(adapterSeq) < n {
		n = len(adapterSeq)
	}
	if n == 0 {
		return true
	}
	mismatches := 0
	for i := 0; i < n; i++ {
		if !wc.Compatible(overhang[i], adapterSeq[i]) {
			mismatches++
		}
	}
	return float64(mismatches)/float64(n) <= maxMismatchFrac
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
