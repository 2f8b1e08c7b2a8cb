package seqio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCutFrontAndBack(t *testing.T) {
	r := &Read{Sequence: []byte("ACGTACGT"), Quality: []byte("IIIIIIII")}
	r.CutFront(2)
	require.Equal(t, "GTACGT", string(r.Sequence))
	require.Equal(t, 2, r.TrimmedPrefixLen)

	r.CutBack(2)
	require.Equal(t, "GTAC", string(r.Sequence))
	require.Equal(t, 2, r.TrimmedSuffixLen)
	require.Equal(t, len(r.Sequence), len(r.Quality))
}

func TestCutFrontClampsToLength(t *testing.T) {
	r := &Read{Sequence: []byte("ACGT")}
	r.CutFront(100)
	require.Equal(t, 0, r.Len())
	require.Equal(t, 4, r.TrimmedPrefixLen)
}

func TestCloneDeepCopies(t *testing.T) {
	r := &Read{Sequence: []byte("ACGT"), Quality: []byte("IIII")}
	c := r.Clone()
	c.Sequence[0] = 'T'
	require.Equal(t, byte('A'), r.Sequence[0])
}

func TestReverseComplement(t *testing.T) {
	require.Equal(t, "ACGT", string(ReverseComplement([]byte("ACGT"))))
	require.Equal(t, "GATC", string(ReverseComplement([]byte("GATC"))))
}

func TestReverseComplementAmbiguityCodes(t *testing.T) {
	// R (A/G) complements to Y (C/T); palindromic codes (S, W) fix.
	require.Equal(t, "Y", string(ReverseComplement([]byte("R"))))
	require.Equal(t, "S", string(ReverseComplement([]byte("S"))))
}

func TestReadPairClone(t *testing.T) {
	p := &ReadPair{R1: &Read{Sequence: []byte("AC")}, R2: &Read{Sequence: []byte("GT")}}
	c := p.Clone()
	c.R1.Sequence[0] = 'T'
	require.Equal(t, byte('A'), p.R1.Sequence[0])
}
