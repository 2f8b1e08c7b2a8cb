package modifiers

import (
	"testing"

	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
	"github.com/stretchr/testify/require"
)

func TestCompilePlanGroupsByLetter(t *testing.T) {
	cut := NewUnconditionalCutter(2, MateBoth)
	qual := NewQualityTrimmer(0, 20, MateBoth)
	plan, err := CompilePlan("CGQA", []Modifier{qual, cut})
	require.NoError(t, err)
	require.Len(t, plan.groups, 4)
	require.Equal(t, byte('C'), plan.groups[0].letter)
	require.Equal(t, []Modifier{cut}, plan.groups[0].modifiers)
	require.Equal(t, byte('Q'), plan.groups[2].letter)
	require.Equal(t, []Modifier{qual}, plan.groups[2].modifiers)
}

func TestCompilePlanDefaultOpOrder(t *testing.T) {
	plan, err := CompilePlan("", nil)
	require.NoError(t, err)
	require.Len(t, plan.groups, len(DefaultOpOrder))
}

func TestCompilePlanRejectsRepeatedLetter(t *testing.T) {
	_, err := CompilePlan("CC", nil)
	require.Error(t, err)
}

func TestCompilePlanAppendsUnreferencedLettersAsTrailing(t *testing.T) {
	n := NewNEndTrimmer(MateBoth) // Group() == GroupOther ('O'), not in "CQ"
	plan, err := CompilePlan("CQ", []Modifier{n})
	require.NoError(t, err)
	require.Len(t, plan.groups, 3) // C, Q, plus a trailing group
	require.Equal(t, []Modifier{n}, plan.groups[2].modifiers)
}

func TestChainAppliesInGroupOrder(t *testing.T) {
	cut := NewUnconditionalCutter(2, MateBoth)
	qual := NewQualityTrimmer(0, 20, MateBoth)
	plan, err := CompilePlan("CQ", []Modifier{cut, qual})
	require.NoError(t, err)

	chain := NewChain(plan, "none", nil)
	pair := &seqio.ReadPair{R1: &seqio.Read{
		Sequence: []byte("ACGTACGTACGT" + "GGGGG"),
		Quality:  []byte("IIIIIIIIIIII" + "#####"),
		QualityBase: 33,
	}}
	s := stats.New()
	chain.Apply(pair, s)
	// Cut removes the first 2 bases, then quality trim removes the
	// low-quality tail.
	require.Equal(t, "GTACGTACGT", string(pair.R1.Sequence))
}

func TestChainPairedModeFirstAppliesOnlyToR1(t *testing.T) {
	cut := NewUnconditionalCutter(2, MateBoth)
	plan, err := CompilePlan("C", []Modifier{cut})
	require.NoError(t, err)
	chain := NewChain(plan, "first", nil)

	pair := &seqio.ReadPair{
		R1: &seqio.Read{Sequence: []byte("ACGTACGT")},
		R2: &seqio.Read{Sequence: []byte("TGCATGCA")},
	}
	s := stats.New()
	chain.Apply(pair, s)
	require.Equal(t, "GTACGT", string(pair.R1.Sequence))
	require.Equal(t, "TGCATGCA", string(pair.R2.Sequence)) // untouched
}
