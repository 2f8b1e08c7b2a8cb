package modifiers

import (
	"testing"

	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
	"github.com/stretchr/testify/require"
)

func TestUnconditionalCutterFrontAndBack(t *testing.T) {
	s := stats.New()
	pair := &seqio.ReadPair{R1: &seqio.Read{Sequence: []byte("ACGTACGT"), Quality: []byte("IIIIIIII")}}

	front := NewUnconditionalCutter(2, MateBoth)
	front.ApplyPair(pair, s)
	require.Equal(t, "GTACGT", string(pair.R1.Sequence))

	back := NewUnconditionalCutter(-2, MateBoth)
	back.ApplyPair(pair, s)
	require.Equal(t, "GTAC", string(pair.R1.Sequence))

	require.Equal(t, 2, s.Modifier("UnconditionalCutter").ReadsAffected)
	require.Equal(t, 4, s.Modifier("UnconditionalCutter").BasesRemoved)
}

func TestUnconditionalCutterMateSelector(t *testing.T) {
	s := stats.New()
	pair := &seqio.ReadPair{
		R1: &seqio.Read{Sequence: []byte("ACGT")},
		R2: &seqio.Read{Sequence: []byte("TGCA")},
	}
	c := NewUnconditionalCutter(1, MateR2)
	c.ApplyPair(pair, s)
	require.Equal(t, "ACGT", string(pair.R1.Sequence))
	require.Equal(t, "GCA", string(pair.R2.Sequence))
}

func TestMinCutterEnforcesMinimum(t *testing.T) {
	s := stats.New()
	r := &seqio.Read{Sequence: []byte("ACGTACGTACGT")}
	r.CutFront(1) // already trimmed 1
	pair := &seqio.ReadPair{R1: r}

	mc := NewMinCutter(3, 0, MateR1)
	mc.ApplyPair(pair, s)
	// needed to cut 2 more to reach a total front trim of 3
	require.Equal(t, 3, r.TrimmedPrefixLen)
}

func TestMinCutterNoOpWhenAlreadyMet(t *testing.T) {
	s := stats.New()
	r := &seqio.Read{Sequence: []byte("ACGTACGTACGT")}
	r.CutFront(5)
	pair := &seqio.ReadPair{R1: r}

	mc := NewMinCutter(3, 0, MateR1)
	mc.ApplyPair(pair, s)
	require.Equal(t, 5, r.TrimmedPrefixLen)
}

func TestBisulfitePresetKnown(t *testing.T) {
	r1, r2, err := BisulfitePreset("rrbs")
	require.NoError(t, err)
	require.Equal(t, 0, r1.MinFront)
	require.Equal(t, 2, r1.MinBack)
	require.Equal(t, 0, r2.MinFront)
	require.Equal(t, 2, r2.MinBack)
}

func TestBisulfitePresetUnknown(t *testing.T) {
	_, _, err := BisulfitePreset("not-a-real-preset")
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
