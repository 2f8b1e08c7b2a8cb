package filters

import (
	"testing"

	"github.com/kshedden/trimato/seqio"
	"github.com/stretchr/testify/require"
)

func TestTooShortFilter(t *testing.T) {
	f := &TooShortFilter{MinLength: 20}
	require.True(t, f.Predicate(&seqio.Read{Sequence: []byte("ACGT")}))
	require.False(t, f.Predicate(&seqio.Read{Sequence: make([]byte, 20)}))
}

func TestTooLongFilter(t *testing.T) {
	f := &TooLongFilter{MaxLength: 10}
	require.True(t, f.Predicate(&seqio.Read{Sequence: make([]byte, 11)}))
	require.False(t, f.Predicate(&seqio.Read{Sequence: make([]byte, 10)}))
}

func TestNContentFilterFraction(t *testing.T) {
	f := &NContentFilter{MaxN: 0.2}
	require.False(t, f.Predicate(&seqio.Read{Sequence: []byte("ACGTACGTAC")})) // 0 N's
	require.True(t, f.Predicate(&seqio.Read{Sequence: []byte("NNNACGTAC")}))   // 3/9 > 0.2
}

func TestNContentFilterCount(t *testing.T) {
	f := &NContentFilter{MaxN: 2, MaxNIsCount: true}
	require.False(t, f.Predicate(&seqio.Read{Sequence: []byte("NNACGT")})) // exactly 2, not > 2
	require.True(t, f.Predicate(&seqio.Read{Sequence: []byte("NNNACGT")}))
}

func TestLowComplexityFilterHomopolymerRun(t *testing.T) {
	f := &LowComplexityFilter{MinLength: 10, MinDistinctDinucs: 5}
	require.True(t, f.Predicate(&seqio.Read{Sequence: []byte("AAAAAAAAAAAAAAAA")})) // only "AA" dinuc
	require.False(t, f.Predicate(&seqio.Read{Sequence: []byte("ACGTTGCAGTCAACGGTTCCAAGG")}))
}

func TestLowComplexityFilterBelowMinLengthNeverMatches(t *testing.T) {
	f := &LowComplexityFilter{MinLength: 20, MinDistinctDinucs: 5}
	require.False(t, f.Predicate(&seqio.Read{Sequence: []byte("AAAAAAAAAA")}))
}

func TestTrimmedAndUntrimmedFilters(t *testing.T) {
	trimmed := &seqio.Read{TrimmedSuffixLen: 3}
	untrimmed := &seqio.Read{}

	require.True(t, (&TrimmedFilter{}).Predicate(trimmed))
	require.False(t, (&TrimmedFilter{}).Predicate(untrimmed))
	require.False(t, (&UntrimmedFilter{}).Predicate(trimmed))
	require.True(t, (&UntrimmedFilter{}).Predicate(untrimmed))
}

func TestCombineModes(t *testing.T) {
	require.True(t, Combine(PairAny, true, false, true))
	require.False(t, Combine(PairBoth, true, false, true))
	require.True(t, Combine(PairBoth, true, true, true))
	require.True(t, Combine(PairFirst, true, false, true))
	require.False(t, Combine(PairFirst, false, true, true))
}

func TestCombineSingleEndIgnoresMode(t *testing.T) {
	require.True(t, Combine(PairBoth, true, false, false))
	require.False(t, Combine(PairAny, false, true, false))
}

func TestNoFilterAlwaysMatches(t *testing.T) {
	require.True(t, (&NoFilterFilter{}).Predicate(&seqio.Read{}))
}

func TestMergedReadFilterNeverMatchesDirectly(t *testing.T) {
	require.False(t, (&MergedReadFilter{}).Predicate(&seqio.Read{}))
}
