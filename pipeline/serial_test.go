package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kshedden/trimato/filters"
	"github.com/kshedden/trimato/modifiers"
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/sinks"
	"github.com/stretchr/testify/require"
)

const fourReadFastq = "" +
	"@r1\nACGTACGTAC\n+\nIIIIIIIIII\n" +
	"@r2\nAC\n+\nII\n" +
	"@r3\nACGTACGTACGTACGT\n+\nIIIIIIIIIIIIIIII\n" +
	"@r4\nACGTACGTAC\n+\nIIIIIIIIII\n"

func buildParams(t *testing.T, dir string, batchSize, numWorkers int, preserveOrder bool) *Params {
	t.Helper()
	r1 := seqio.NewFastqReader(strings.NewReader(fourReadFastq), 33)
	reader := seqio.NewBatchReader(r1, nil, false, batchSize)

	newChain := func() *modifiers.Chain {
		plan, err := modifiers.CompilePlan("", nil)
		require.NoError(t, err)
		return modifiers.NewChain(plan, "none", nil)
	}
	fchain := filters.NewChain([]filters.Filter{&filters.TooShortFilter{MinLength: 5}}, filters.PairAny, false)

	mainSink := sinks.NewSink("main", filepath.Join(dir, "main.fastq"), sinks.FormatFastq, false)
	shortSink := sinks.NewSink("short", filepath.Join(dir, "short.fastq"), sinks.FormatFastq, false)
	formatters := sinks.NewFormatters(
		map[filters.Kind]sinks.SinkPair{filters.KindTooShort: {R1: shortSink}},
		sinks.SinkPair{R1: mainSink},
	)

	return &Params{
		Reader:          reader,
		NewChain:        newChain,
		FilterChain:     fchain,
		Formatters:      formatters,
		BatchSize:       batchSize,
		NumWorkers:      numWorkers,
		ReadQueueSize:   4,
		ResultQueueSize: 4,
		PreserveOrder:   preserveOrder,
	}
}

func TestRunSerialRoutesAndCountsReads(t *testing.T) {
	dir := t.TempDir()
	p := buildParams(t, dir, 2, 1, false)

	summary, err := RunSerial(p)
	require.NoError(t, err)
	require.Equal(t, 4, summary.TotalPairs)
	require.Equal(t, 1, summary.FilterCounts[string(filters.KindTooShort)])
	require.Equal(t, 3, summary.FilterCounts[string(filters.KindNoFilter)])

	main, err := os.ReadFile(filepath.Join(dir, "main.fastq"))
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(string(main), "@"))

	short, err := os.ReadFile(filepath.Join(dir, "short.fastq"))
	require.NoError(t, err)
	require.Contains(t, string(short), "@r2")
}

func TestRunSerialEmptyInputProducesZeroSummary(t *testing.T) {
	dir := t.TempDir()
	r1 := seqio.NewFastqReader(strings.NewReader(""), 33)
	reader := seqio.NewBatchReader(r1, nil, false, 2)
	newChain := func() *modifiers.Chain {
		plan, _ := modifiers.CompilePlan("", nil)
		return modifiers.NewChain(plan, "none", nil)
	}
	fchain := filters.NewChain(nil, filters.PairAny, false)
	mainSink := sinks.NewSink("main", filepath.Join(dir, "main.fastq"), sinks.FormatFastq, false)
	formatters := sinks.NewFormatters(nil, sinks.SinkPair{R1: mainSink})

	p := &Params{Reader: reader, NewChain: newChain, FilterChain: fchain, Formatters: formatters, BatchSize: 2}
	summary, err := RunSerial(p)
	require.NoError(t, err)
	require.Equal(t, 0, summary.TotalPairs)
}
