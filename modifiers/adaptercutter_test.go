package modifiers

import (
	"testing"

	"github.com/kshedden/trimato/adapter"
	"github.com/kshedden/trimato/align"
	"github.com/kshedden/trimato/insertalign"
	"github.com/kshedden/trimato/iupac"
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
	"github.com/stretchr/testify/require"
)

func TestAdapterCutterTrimAction(t *testing.T) {
	a := &adapter.Adapter{
		Name:         "a1",
		Sequence:     "AGATCGGAAGAGC",
		Where:        align.Back,
		MaxErrorRate: 0.1,
		MinOverlap:   3,
	}
	s := stats.New()
	pair := &seqio.ReadPair{R1: &seqio.Read{Sequence: []byte("ACGTACGTACGT" + "AGATCGGAAGAGC")}}

	c := NewAdapterCutter(a, ActionTrim, MateBoth, nil)
	c.ApplyPair(pair, s)

	require.Equal(t, "ACGTACGTACGT", string(pair.R1.Sequence))
	require.Equal(t, 1, s.Adapter("a1").ReadsAffected)
}

func TestAdapterCutterMaskAction(t *testing.T) {
	a := &adapter.Adapter{
		Name:         "a1",
		Sequence:     "AGATCGGAAGAGC",
		Where:        align.Back,
		MaxErrorRate: 0.1,
		MinOverlap:   3,
	}
	s := stats.New()
	original := "ACGTACGTACGT" + "AGATCGGAAGAGC"
	pair := &seqio.ReadPair{R1: &seqio.Read{Sequence: []byte(original)}}

	c := NewAdapterCutter(a, ActionMask, MateBoth, nil)
	c.ApplyPair(pair, s)

	require.Equal(t, len(original), pair.R1.Len())
	require.Equal(t, "ACGTACGTACGT", string(pair.R1.Sequence[:12]))
	for _, b := range pair.R1.Sequence[12:] {
		require.Equal(t, byte('N'), b)
	}
}

func TestAdapterCutterNoMatchIsNoOp(t *testing.T) {
	a := &adapter.Adapter{
		Name:         "a1",
		Sequence:     "AGATCGGAAGAGC",
		Where:        align.Back,
		MaxErrorRate: 0.1,
		MinOverlap:   3,
	}
	s := stats.New()
	pair := &seqio.ReadPair{R1: &seqio.Read{Sequence: []byte("ACGTACGTACGT")}}

	c := NewAdapterCutter(a, ActionTrim, MateBoth, nil)
	c.ApplyPair(pair, s)
	require.Equal(t, "ACGTACGTACGT", string(pair.R1.Sequence))
	require.Equal(t, 0, s.Adapter("a1").ReadsAffected)
}

func TestInsertAdapterCutterTrimsBothMates(t *testing.T) {
	insertSeq := "ACGTACGTACGTACGTACGTACGTACGTACGT"
	adapterSeq := "AGATCGGAAGAGC"

	r1seq := insertSeq + adapterSeq[:10]
	r2seq := string(seqio.ReverseComplement([]byte(insertSeq))) + adapterSeq[:10]

	r1 := &seqio.Read{Name: "p/1", Sequence: []byte(r1seq), Quality: make([]byte, len(r1seq))}
	r2 := &seqio.Read{Name: "p/2", Sequence: []byte(r2seq), Quality: make([]byte, len(r2seq))}
	for i := range r1.Quality {
		r1.Quality[i] = 'I'
	}
	for i := range r2.Quality {
		r2.Quality[i] = 'I'
	}
	r1.QualityBase, r2.QualityBase = 33, 33

	pair := &seqio.ReadPair{R1: r1, R2: r2}
	s := stats.New()

	opts := insertalign.Options{
		MinOverlap:             20,
		MaxInsertMismatchFrac:  0.2,
		MaxAdapterMismatchFrac: 0.3,
		Wildcards:              iupac.Policy{},
	}
	c := NewInsertAdapterCutter(opts, []byte(adapterSeq), []byte(adapterSeq), ActionTrim, nil)
	c.ApplyPair(pair, s)

	require.Equal(t, len(insertSeq), pair.R1.Len())
	require.Equal(t, len(insertSeq), pair.R2.Len())
}

func TestInsertAdapterCutterNoMatchLeavesReadsUntouched(t *testing.T) {
	r1 := &seqio.Read{Name: "p/1", Sequence: []byte("ACGT")}
	r2 := &seqio.Read{Name: "p/2", Sequence: []byte("ACGT")}
	pair := &seqio.ReadPair{R1: r1, R2: r2}
	s := stats.New()

	opts := insertalign.Options{MinOverlap: 50, MaxInsertMismatchFrac: 0.2, MaxAdapterMismatchFrac: 0.3}
	c := NewInsertAdapterCutter(opts, nil, nil, ActionTrim, nil)
	c.ApplyPair(pair, s)
	require.Equal(t, 4, pair.R1.Len())
	require.Equal(t, 4, pair.R2.Len())
}
