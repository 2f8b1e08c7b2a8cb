package align

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomMatchProbabilityMonotonic(t *testing.T) {
	// More required matches out of the same length should only lower (or
	// keep equal) the probability of seeing that many by chance.
	p1 := RandomMatchProbability(20, 10, 0.25)
	p2 := RandomMatchProbability(20, 18, 0.25)
	require.GreaterOrEqual(t, p1, p2)
}

func TestRandomMatchProbabilityBounds(t *testing.T) {
	p := RandomMatchProbability(20, 20, 0.25)
	require.GreaterOrEqual(t, p, 0.0)
	require.LessOrEqual(t, p, 1.0)
}

func TestRandomMatchProbabilityZeroLength(t *testing.T) {
	require.Equal(t, 1.0, RandomMatchProbability(0, 0, 0.25))
}

func TestRandomMatchProbabilityMoreThanLength(t *testing.T) {
	require.Equal(t, 0.0, RandomMatchProbability(10, 11, 0.25))
}

func TestAlignRejectsHighRMP(t *testing.T) {
	// A short, weak match that technically meets the error rate but has
	// a high chance of occurring randomly should be rejected by max_rmp.
	adapter := []byte("AAA")
	read := []byte("ACGTACGTACGTAAA")
	maxRMP := 0.0001

	opts := Options{Where: Back, MaxErrorRate: 0.5, MinOverlap: 1, MaxRMP: &maxRMP}
	_, ok := Align(adapter, read, opts)
	require.False(t, ok)
}
