package modifiers

import (
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
)

// NEndTrimmer removes contiguous N-runs at both ends of a read
// (spec.md §4.3).
type NEndTrimmer struct {
	mate Mate
}

func NewNEndTrimmer(mate Mate) *NEndTrimmer { return &NEndTrimmer{mate: mate} }

func (n *NEndTrimmer) Kind() string { return "NEndTrimmer" }
func (n *NEndTrimmer) Group() byte  { return GroupOther }
func (n *NEndTrimmer) Mate() Mate   { return n.mate }

func (n *NEndTrimmer) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	bucket := s.Modifier(n.Kind())
	if n.mate != MateR2 && pair.R1 != nil {
		n.applyOne(pair.R1, bucket)
	}
	if n.mate != MateR1 && pair.R2 != nil {
		n.applyOne(pair.R2, bucket)
	}
}

func (n *NEndTrimmer) applyOne(r *seqio.Read, bucket *stats.ModifierStats) {
	before := r.Len()
	seq := r.Sequence

	front := 0
	for front < len(seq) && (seq[front] == 'N' || seq[front] == 'n') {
		front++
	}
	r.CutFront(front)

	seq = r.Sequence
	back := 0
	for back < len(seq) && (seq[len(seq)-1-back] == 'N' || seq[len(seq)-1-back] == 'n') {
		back++
	}
	r.CutBack(back)

	if removed := before - r.Len(); removed > 0 {
		bucket.Record(removed)
	}
}
