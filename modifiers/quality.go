package modifiers

import (
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
)

// QualityTrimmer implements the "BWA algorithm" of spec.md §4.3: trim from
// front/back while the running sum of (cutoff - q) stays non-negative.
type QualityTrimmer struct {
	CutoffFront, CutoffBack int
	mate                    Mate
	// nextseq, if true, treats 'G' as quality 0 (spec.md's
	// NextseqQualityTrimmer).
	nextseq bool
}

func NewQualityTrimmer(cutoffFront, cutoffBack int, mate Mate) *QualityTrimmer {
	return &QualityTrimmer{CutoffFront: cutoffFront, CutoffBack: cutoffBack, mate: mate}
}

func NewNextseqQualityTrimmer(cutoff int, mate Mate) *QualityTrimmer {
	return &QualityTrimmer{CutoffFront: 0, CutoffBack: cutoff, mate: mate, nextseq: true}
}

func (q *QualityTrimmer) Kind() string {
	if q.nextseq {
		return "NextseqQualityTrimmer"
	}
	return "QualityTrimmer"
}

func (q *QualityTrimmer) Group() byte {
	if q.nextseq {
		return GroupNextSeq
	}
	return GroupQuality
}

func (q *QualityTrimmer) Mate() Mate { return q.mate }

func (q *QualityTrimmer) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	bucket := s.Modifier(q.Kind())
	if q.mate != MateR2 && pair.R1 != nil {
		q.applyOne(pair.R1, bucket)
	}
	if q.mate != MateR1 && pair.R2 != nil {
		q.applyOne(pair.R2, bucket)
	}
}

func (q *QualityTrimmer) applyOne(r *seqio.Read, bucket *stats.ModifierStats) {
	if len(r.Quality) == 0 {
		return
	}
	before := r.Len()

	if q.CutoffBack > 0 || q.nextseq {
		cut := q.trimEnd(r, true)
		r.CutBack(cut)
	}
	if q.CutoffFront > 0 {
		cut := q.trimEnd(r, false)
		r.CutFront(cut)
	}

	if removed := before - r.Len(); removed > 0 {
		bucket.Record(removed)
	}
}

// trimEnd computes how many bases to remove from the given end using the
// running-sum algorithm. fromBack=true walks from the read's 3' end toward
// the 5' end.
func (q *QualityTrimmer) trimEnd(r *seqio.Read, fromBack bool) int {
	n := r.Len()
	if n == 0 {
		return 0
	}
	cutoff := q.CutoffBack
	if !fromBack {
		cutoff = q.CutoffFront
	}

	var sum, maxSum int
	maxIdx := -1 // index (from the scanned end) of best cut point
	for i := 0; i < n; i++ {
		var idx int
		if fromBack {
			idx = n - 1 - i
		} else {
			idx = i
		}
		qv := int(r.Quality[idx]) - r.QualityBase
		if q.nextseq && r.Sequence[idx] == 'G' {
			qv = 0
		}
		sum += cutoff - qv
		if sum < 0 {
			break
		}
		if sum >= maxSum {
			maxSum = sum
			maxIdx = i
		}
	}
	return maxIdx + 1
}

// ZeroCapper clamps any quality value below a floor up to that floor; a
// no-op unless Colorspace is enabled (SPEC_FULL.md §4.3's colorspace note:
// full colorspace transcoding is out of scope, but the modifier still
// occupies its pipeline slot).
type ZeroCapper struct {
	Colorspace bool
	Floor      byte
	mate       Mate
}

func NewZeroCapper(colorspace bool, floor byte, mate Mate) *ZeroCapper {
	return &ZeroCapper{Colorspace: colorspace, Floor: floor, mate: mate}
}

func (z *ZeroCapper) Kind() string { return "ZeroCapper" }
func (z *ZeroCapper) Group() byte  { return GroupOther }
func (z *ZeroCapper) Mate() Mate   { return z.mate }

func (z *ZeroCapper) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	if !z.Colorspace {
		return
	}
	bucket := s.Modifier(z.Kind())
	if z.mate != MateR2 && pair.R1 != nil {
		z.applyOne(pair.R1, bucket)
	}
	if z.mate != MateR1 && pair.R2 != nil {
		z.applyOne(pair.R2, bucket)
	}
}

func (z *ZeroCapper) applyOne(r *seqio.Read, bucket *stats.ModifierStats) {
	changed := 0
	for i, q := range r.Quality {
		if q < z.Floor {
			r.Quality[i] = z.Floor
			changed++
		}
	}
	if changed > 0 {
		bucket.Record(0)
	}
}
