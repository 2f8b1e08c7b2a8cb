// Package filters implements the pair-aware predicate chain of spec.md
// §4.4: each Filter tags a ReadPair with a sink kind, the first whose
// combined predicate is true "owns" the pair.
package filters

import "github.com/kshedden/trimato/seqio"

// Kind identifies a filter for sink routing (spec.md §3/§4.4).
type Kind string

const (
	KindTooShort      Kind = "TooShort"
	KindTooLong       Kind = "TooLong"
	KindNContent      Kind = "NContent"
	KindLowComplexity Kind = "LowComplexity"
	KindTrimmed       Kind = "Trimmed"
	KindUntrimmed     Kind = "Untrimmed"
	KindMergedRead    Kind = "MergedRead"
	KindNoFilter      Kind = "NoFilter"
)

// PairMode selects how a per-mate predicate combines into a pair-level
// verdict (spec.md §4.4).
type PairMode string

const (
	PairAny   PairMode = "any"
	PairBoth  PairMode = "both"
	PairFirst PairMode = "first"
)

// Filter is one predicate stage. Predicate evaluates a single read; combine
// folds the two per-mate verdicts (for single-end input, r2 is nil and the
// r1 verdict is used directly).
type Filter interface {
	Kind() Kind
	Predicate(r *seqio.Read) bool
}

// Combine applies mode to per-mate verdicts v1/v2 (spec.md §4.4). v2 is
// ignored (treated as v1) when there is no second mate.
func Combine(mode PairMode, v1, v2 bool, hasR2 bool) bool {
	if !hasR2 {
		return v1
	}
	switch mode {
	case PairBoth:
		return v1 && v2
	case PairFirst:
		return v1
	default: // PairAny
		return v1 || v2
	}
}

// TooShortFilter matches reads below MinLength.
type TooShortFilter struct{ MinLength int }

func (f *TooShortFilter) Kind() Kind { return KindTooShort }
func (f *TooShortFilter) Predicate(r *seqio.Read) bool {
	return r.Len() < f.MinLength
}

// TooLongFilter matches reads above MaxLength.
type TooLongFilter struct{ MaxLength int }

func (f *TooLongFilter) Kind() Kind { return KindTooLong }
func (f *TooLongFilter) Predicate(r *seqio.Read) bool {
	return r.Len() > f.MaxLength
}

// NContentFilter matches reads whose N-fraction (or raw N count, when
// MaxNIsCount is set) exceeds MaxN.
type NContentFilter struct {
	MaxN        float64
	MaxNIsCount bool
}

func (f *NContentFilter) Kind() Kind { return KindNContent }
func (f *NContentFilter) Predicate(r *seqio.Read) bool {
	if r.Len() == 0 {
		return false
	}
	n := 0
	for _, c := range r.Sequence {
		if c == 'N' || c == 'n' {
			n++
		}
	}
	if f.MaxNIsCount {
		return float64(n) > f.MaxN
	}
	return float64(n)/float64(r.Len()) > f.MaxN
}

// countDistinctDinucs counts the number of distinct dinucleotides (out of
// the 25 possible over {A,T,G,C,other}) present in seq, the same sliding
// tally the teacher used to pick high-entropy Bloom filter seed positions.
// Here it measures read complexity directly: a homopolymer or short tandem
// repeat run visits very few of the 25 bins no matter how long it runs. The
// 25-entry table lives on the stack so Filter instances stay stateless and
// safe to share read-only across workers.
func countDistinctDinucs(seq []byte) int {
	var seen [25]int
	var n, last int
	for i, x := range seq {
		var v int
		switch x {
		case 'A', 'a':
			v = 0
		case 'T', 't':
			v = 1
		case 'G', 'g':
			v = 2
		case 'C', 'c':
			v = 3
		default:
			v = 4
		}
		if i > 0 {
			k := 5*last + v
			if seen[k] == 0 {
				n++
			}
			seen[k]++
		}
		last = v
	}
	return n
}

// LowComplexityFilter matches reads whose sequence is dominated by a small
// number of distinct dinucleotides over at least MinLength bases — the
// signature of homopolymer runs, short tandem repeats, and other
// low-information adapter-dimer-like artifacts a quality/adapter trim alone
// would not catch.
type LowComplexityFilter struct {
	MinLength         int
	MinDistinctDinucs int
}

func (f *LowComplexityFilter) Kind() Kind { return KindLowComplexity }
func (f *LowComplexityFilter) Predicate(r *seqio.Read) bool {
	if r.Len() < f.MinLength {
		return false
	}
	return countDistinctDinucs(r.Sequence) < f.MinDistinctDinucs
}

// TrimmedFilter matches reads any modifier in the chain actually shortened.
type TrimmedFilter struct{}

func (f *TrimmedFilter) Kind() Kind { return KindTrimmed }
func (f *TrimmedFilter) Predicate(r *seqio.Read) bool {
	return r.TrimmedPrefixLen > 0 || r.TrimmedSuffixLen > 0
}

// UntrimmedFilter is the logical negation of TrimmedFilter.
type UntrimmedFilter struct{}

func (f *UntrimmedFilter) Kind() Kind { return KindUntrimmed }
func (f *UntrimmedFilter) Predicate(r *seqio.Read) bool {
	return r.TrimmedPrefixLen == 0 && r.TrimmedSuffixLen == 0
}

// MergedReadFilter names the KindMergedRead sink slot for MergeOverlapping
// products. Read carries no merged bit, so the executor
// (pipeline.processBatch) routes merged pairs to KindMergedRead itself.
type MergedReadFilter struct{}

func (f *MergedReadFilter) Kind() Kind { return KindMergedRead }

// Predicate always reports false here: merged-pair routing is decided
// by the executor before the per-mate chain ever runs (a merged pair has
// no mate structure left to filter), so this filter only exists to occupy
// its sink slot in Formatters.
func (f *MergedReadFilter) Predicate(r *seqio.Read) bool { return false }

// NoFilterFilter is the tautological filter: it always appears last and
// unconditionally matches (spec.md §4.4).
type NoFilterFilter struct{}

func (f *NoFilterFilter) Kind() Kind             { return KindNoFilter }
func (f *NoFilterFilter) Predicate(*seqio.Read) bool { return true }
