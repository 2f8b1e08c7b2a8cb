package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeIsAdditive(t *testing.T) {
	a := New()
	a.TotalReads = 10
	a.TotalPairs = 5
	a.Modifier("QualityTrimmer").Record(3)
	a.RecordFilter("TooShort")

	b := New()
	b.TotalReads = 7
	b.TotalPairs = 2
	b.Modifier("QualityTrimmer").Record(4)
	b.RecordFilter("TooShort")
	b.RecordFilter("NoFilter")

	a.Merge(b)

	require.Equal(t, 17, a.TotalReads)
	require.Equal(t, 7, a.TotalPairs)
	require.Equal(t, 2, a.Modifier("QualityTrimmer").ReadsAffected)
	require.Equal(t, 7, a.Modifier("QualityTrimmer").BasesRemoved)
	require.Equal(t, 2, a.FilterCounts["TooShort"])
	require.Equal(t, 1, a.FilterCounts["NoFilter"])
}

func TestAdapterHistogramAccumulates(t *testing.T) {
	s := New()
	bucket := s.Adapter("a1")
	bucket.RecordAdapterMatch(10, 1, 10)
	bucket.RecordAdapterMatch(12, 0, 12)

	require.Equal(t, 2, bucket.ReadsAffected)
	require.Equal(t, 22, bucket.BasesRemoved)
	require.Equal(t, 1, bucket.MatchLengthHistogram[10])
	require.Equal(t, 1, bucket.MatchLengthHistogram[12])
	require.Equal(t, 1, bucket.ErrorHistogram[0])
	require.Equal(t, 1, bucket.ErrorHistogram[1])
}

func TestPositionHistogramMergeGrowsToLongerLength(t *testing.T) {
	a := New()
	a.RecordPosition([]byte("ACG"), []byte("III"))

	b := New()
	b.RecordPosition([]byte("ACGTA"), []byte("IIIII"))

	a.Merge(b)
	require.Len(t, a.PositionHistogram.BaseCounts, 5)
	require.Equal(t, 2, a.PositionHistogram.BaseCounts[0]['A'])
}

func TestMergeDoesNotDoubleCountSelf(t *testing.T) {
	s := New()
	s.Modifier("X").Record(5)
	other := New()
	s.Merge(other)
	require.Equal(t, 5, s.Modifier("X").BasesRemoved)
}
