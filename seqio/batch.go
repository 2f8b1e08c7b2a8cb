package seqio

// ReadBatch is a fixed-size ordered array of single-end reads carrying a
// monotonically increasing index, per spec.md §3's Batch definition.
type ReadBatch struct {
	BatchIndex int
	Reads      []*Read
}

// PairBatch is the paired-end analogue of ReadBatch.
type PairBatch struct {
	BatchIndex int
	Pairs      []*ReadPair
}

// Len reports the number of records carried by the batch.
func (b *ReadBatch) Len() int { return len(b.Reads) }

// Len reports the number of records carried by the batch.
func (b *PairBatch) Len() int { return len(b.Pairs) }
