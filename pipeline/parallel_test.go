package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kshedden/trimato/filters"
	"github.com/stretchr/testify/require"
)

// TestRunParallelPreserveOrderMatchesSerial is the Go-level analogue of
// spec.md §8 scenario 6: parallel output with preserve_order must be
// byte-identical to the serial run given the same input and batch size.
func TestRunParallelPreserveOrderMatchesSerial(t *testing.T) {
	serialDir := t.TempDir()
	serialParams := buildParams(t, serialDir, 1, 1, false)
	serialSummary, err := RunSerial(serialParams)
	require.NoError(t, err)

	parallelDir := t.TempDir()
	parallelParams := buildParams(t, parallelDir, 1, 4, true)
	parallelSummary, err := RunParallel(parallelParams)
	require.NoError(t, err)

	require.Equal(t, serialSummary.TotalPairs, parallelSummary.TotalPairs)
	require.Equal(t, serialSummary.FilterCounts, parallelSummary.FilterCounts)

	for _, name := range []string{"main.fastq", "short.fastq"} {
		want, err := os.ReadFile(filepath.Join(serialDir, name))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(parallelDir, name))
		require.NoError(t, err)
		require.Equal(t, string(want), string(got))
	}
}

func TestRunParallelSingleWorkerMatchesSerialCounts(t *testing.T) {
	dir := t.TempDir()
	p := buildParams(t, dir, 2, 1, false)

	summary, err := RunParallel(p)
	require.NoError(t, err)
	require.Equal(t, 4, summary.TotalPairs)
	require.Equal(t, 1, summary.FilterCounts[string(filters.KindTooShort)])
}

func TestRunParallelMultiWorkerUnorderedStillCountsEverything(t *testing.T) {
	dir := t.TempDir()
	p := buildParams(t, dir, 1, 4, false)

	summary, err := RunParallel(p)
	require.NoError(t, err)
	require.Equal(t, 4, summary.TotalPairs)
	require.Equal(t, 3, summary.FilterCounts[string(filters.KindNoFilter)])
}
