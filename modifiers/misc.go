package modifiers

import (
	"fmt"
	"strings"

	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
)

// PrefixSuffixAdder prepends/appends fixed strings to a read's name
// (spec.md §4.3).
type PrefixSuffixAdder struct {
	Prefix, Suffix string
	mate           Mate
}

func NewPrefixSuffixAdder(prefix, suffix string, mate Mate) *PrefixSuffixAdder {
	return &PrefixSuffixAdder{Prefix: prefix, Suffix: suffix, mate: mate}
}

func (p *PrefixSuffixAdder) Kind() string { return "PrefixSuffixAdder" }
func (p *PrefixSuffixAdder) Group() byte  { return GroupOther }
func (p *PrefixSuffixAdder) Mate() Mate   { return p.mate }

func (p *PrefixSuffixAdder) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	bucket := s.Modifier(p.Kind())
	if p.mate != MateR2 && pair.R1 != nil {
		pair.R1.Name = p.Prefix + pair.R1.Name + p.Suffix
		bucket.Record(0)
	}
	if p.mate != MateR1 && pair.R2 != nil {
		pair.R2.Name = p.Prefix + pair.R2.Name + p.Suffix
		bucket.Record(0)
	}
}

// LengthTagModifier rewrites a "length=" tag embedded in the read name (a
// holdover from 454/SFF-derived FASTQ, spec.md §4.3) to match the read's
// current length after trimming.
type LengthTagModifier struct {
	Tag  string // e.g. "length="
	mate Mate
}

func NewLengthTagModifier(tag string, mate Mate) *LengthTagModifier {
	return &LengthTagModifier{Tag: tag, mate: mate}
}

func (l *LengthTagModifier) Kind() string { return "LengthTagModifier" }
func (l *LengthTagModifier) Group() byte  { return GroupOther }
func (l *LengthTagModifier) Mate() Mate   { return l.mate }

func (l *LengthTagModifier) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	bucket := s.Modifier(l.Kind())
	if l.mate != MateR2 && pair.R1 != nil {
		l.applyOne(pair.R1, bucket)
	}
	if l.mate != MateR1 && pair.R2 != nil {
		l.applyOne(pair.R2, bucket)
	}
}

func (l *LengthTagModifier) applyOne(r *seqio.Read, bucket *stats.ModifierStats) {
	idx := strings.Index(r.Name, l.Tag)
	if idx < 0 {
		return
	}
	rest := r.Name[idx+len(l.Tag):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return
	}
	r.Name = r.Name[:idx+len(l.Tag)] + fmt.Sprintf("%d", r.Len()) + rest[end:]
	bucket.Record(0)
}

// SuffixRemover strips a fixed suffix from a read's name, if present
// (spec.md §4.3).
type SuffixRemover struct {
	Suffix string
	mate   Mate
}

func NewSuffixRemover(suffix string, mate Mate) *SuffixRemover {
	return &SuffixRemover{Suffix: suffix, mate: mate}
}

func (sr *SuffixRemover) Kind() string { return "SuffixRemover" }
func (sr *SuffixRemover) Group() byte  { return GroupOther }
func (sr *SuffixRemover) Mate() Mate   { return sr.mate }

func (sr *SuffixRemover) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	bucket := s.Modifier(sr.Kind())
	if sr.mate != MateR2 && pair.R1 != nil {
		if strings.HasSuffix(pair.R1.Name, sr.Suffix) {
			pair.R1.Name = strings.TrimSuffix(pair.R1.Name, sr.Suffix)
			bucket.Record(0)
		}
	}
	if sr.mate != MateR1 && pair.R2 != nil {
		if strings.HasSuffix(pair.R2.Name, sr.Suffix) {
			pair.R2.Name = strings.TrimSuffix(pair.R2.Name, sr.Suffix)
			bucket.Record(0)
		}
	}
}

// DoubleEncoder is the pipeline slot for colorspace double encoding. Full
// colorspace support is a Non-goal (spec.md §1); this modifier never changes
// a read. With Colorspace set it only registers its stats bucket.
type DoubleEncoder struct {
	Colorspace bool
	mate       Mate
}

func NewDoubleEncoder(colorspace bool, mate Mate) *DoubleEncoder {
	return &DoubleEncoder{Colorspace: colorspace, mate: mate}
}

func (d *DoubleEncoder) Kind() string { return "DoubleEncoder" }
func (d *DoubleEncoder) Group() byte  { return GroupOther }
func (d *DoubleEncoder) Mate() Mate   { return d.mate }

func (d *DoubleEncoder) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	if !d.Colorspace {
		return
	}
	// Deliberately not implemented beyond the no-op slot: see the type doc.
	_ = s.Modifier(d.Kind())
}

// PrimerTrimmer removes a single leading primer base, the colorspace
// convention where the first base of a CSFASTA read encodes the adapter
// dinucleotide transition rather than real sequence (spec.md §4.3).
type PrimerTrimmer struct {
	Colorspace bool
	mate       Mate
}

func NewPrimerTrimmer(colorspace bool, mate Mate) *PrimerTrimmer {
	return &PrimerTrimmer{Colorspace: colorspace, mate: mate}
}

func (p *PrimerTrimmer) Kind() string { return "PrimerTrimmer" }
func (p *PrimerTrimmer) Group() byte  { return GroupOther }
func (p *PrimerTrimmer) Mate() Mate   { return p.mate }

func (p *PrimerTrimmer) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	if !p.Colorspace {
		return
	}
	bucket := s.Modifier(p.Kind())
	if p.mate != MateR2 && pair.R1 != nil && pair.R1.Len() > 0 {
		pair.R1.CutFront(1)
		bucket.Record(1)
	}
	if p.mate != MateR1 && pair.R2 != nil && pair.R2.Len() > 0 {
		pair.R2.CutFront(1)
		bucket.Record(1)
	}
}

// MergeOverlapping merges two overlapping mates into a single consensus
// read when their 3' ends overlap beyond a configured threshold
// (spec.md §4.3/§6). It reuses the same overlap-scoring idea as the insert
// aligner but does not itself depend on the insertalign package: merging
// only needs the chosen offset and mismatch count, which the executor
// supplies after running an insert alignment.
type MergeOverlapping struct {
	MinOverlap    int
	MaxMismatches int
}

func NewMergeOverlapping(minOverlap, maxMismatches int) *MergeOverlapping {
	return &MergeOverlapping{MinOverlap: minOverlap, MaxMismatches: maxMismatches}
}

func (m *MergeOverlapping) Kind() string { return "MergeOverlapping" }
func (m *MergeOverlapping) Group() byte  { return GroupOther }
func (m *MergeOverlapping) Mate() Mate   { return MateBoth }

// ApplyPair is a no-op here: merging is driven explicitly by the executor
// via Merge, since it needs the insert-alignment offset the plain
// Modifier interface has no way to carry.
func (m *MergeOverlapping) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {}

// Merge attempts to merge pair.R1 and (reverse-complemented) pair.R2 into a
// single consensus read, treating the last overlap bases of r1 and the first
// overlap bases of rc2 as the shared region. The offset argument is not
// used. It returns the merged read and true on success.
func (m *MergeOverlapping) Merge(pair *seqio.ReadPair, offset, overlap, mismatches int, bucket *stats.ModifierStats) (*seqio.Read, bool) {
	if overlap < m.MinOverlap || mismatches > m.MaxMismatches {
		return nil, false
	}
	r1 := pair.R1
	rc2 := seqio.ReverseComplement(pair.R2.Sequence)
	qual2 := reverseBytes(pair.R2.Quality)

	mergedLen := r1.Len() + len(rc2) - overlap
	if mergedLen <= 0 {
		return nil, false
	}
	seq := make([]byte, mergedLen)
	qual := make([]byte, mergedLen)

	copy(seq, r1.Sequence)
	if len(r1.Quality) > 0 {
		copy(qual, r1.Quality)
	}
	copy(seq[r1.Len():], rc2[overlap:])
	if len(qual2) > 0 {
		copy(qual[r1.Len():], qual2[overlap:])
	}
	for i := 0; i < overlap; i++ {
		p1 := r1.Len() - overlap + i
		p2 := i
		if p1 < 0 || p1 >= r1.Len() || p2 >= len(rc2) {
			continue
		}
		if len(r1.Quality) > 0 && len(qual2) > 0 && qual2[p2] > r1.Quality[p1] {
			seq[p1] = rc2[p2]
			qual[p1] = qual2[p2]
		}
	}

	if bucket != nil {
		bucket.Record(pair.R1.Len() + pair.R2.Len() - mergedLen)
	}
	return &seqio.Read{Name: r1.Name, Sequence: seq, Quality: qual, QualityBase: r1.QualityBase}, true
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
