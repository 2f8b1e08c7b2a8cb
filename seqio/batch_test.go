package seqio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchLen(t *testing.T) {
	rb := &ReadBatch{Reads: []*Read{{}, {}, {}}}
	require.Equal(t, 3, rb.Len())

	pb := &PairBatch{Pairs: []*ReadPair{{}, {}}}
	require.Equal(t, 2, pb.Len())
}
