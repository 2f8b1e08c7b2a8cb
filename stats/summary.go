// Package stats implements the additively-mergeable Summary record of
// spec.md §3: per-worker statistics are accumulated independently and
// folded together at shutdown (spec.md §4.6/§5).
package stats

// ModifierStats accumulates the effect of one modifier kind across all
// reads it touched.
type ModifierStats struct {
	ReadsAffected int
	BasesRemoved  int

	// MatchLengthHistogram/ErrorHistogram are populated by adapter
	// cutters only (spec.md §4.3 stats contract).
	MatchLengthHistogram map[int]int
	ErrorHistogram       map[int]int
}

func newModifierStats() *ModifierStats {
	return &ModifierStats{
		MatchLengthHistogram: make(map[int]int),
		ErrorHistogram:       make(map[int]int),
	}
}

// RecordAdapterMatch adds one adapter match observation.
func (m *ModifierStats) RecordAdapterMatch(length, errs, basesRemoved int) {
	m.ReadsAffected++
	m.BasesRemoved += basesRemoved
	m.MatchLengthHistogram[length]++
	m.ErrorHistogram[errs]++
}

// Record adds one non-adapter modifier application.
func (m *ModifierStats) Record(basesRemoved int) {
	m.ReadsAffected++
	m.BasesRemoved += basesRemoved
}

func (m *ModifierStats) merge(o *ModifierStats) {
	m.ReadsAffected += o.ReadsAffected
	m.BasesRemoved += o.BasesRemoved
	for k, v := range o.MatchLengthHistogram {
		m.MatchLengthHistogram[k] += v
	}
	for k, v := range o.ErrorHistogram {
		m.ErrorHistogram[k] += v
	}
}

// PositionHistogram accumulates per-position base/quality counts.
type PositionHistogram struct {
	BaseCounts    []map[byte]int
	QualitySum    []int64
	QualityCount  []int64
}

func newPositionHistogram() *PositionHistogram {
	return &PositionHistogram{}
}

func (p *PositionHistogram) record(seq, qual []byte) {
	for len(p.BaseCounts) < len(seq) {
		p.BaseCounts = append(p.BaseCounts, make(map[byte]int))
		p.QualitySum = append(p.QualitySum, 0)
		p.QualityCount = append(p.QualityCount, 0)
	}
	for i, b := range seq {
		p.BaseCounts[i][b]++
	}
	for i, q := range qual {
		p.QualitySum[i] += int64(q)
		p.QualityCount[i]++
	}
}

func (p *PositionHistogram) merge(o *PositionHistogram) {
	for len(p.BaseCounts) < len(o.BaseCounts) {
		p.BaseCounts = append(p.BaseCounts, make(map[byte]int))
		p.QualitySum = append(p.QualitySum, 0)
		p.QualityCount = append(p.QualityCount, 0)
	}
	for i, m := range o.BaseCounts {
		for k, v := range m {
			p.BaseCounts[i][k] += v
		}
	}
	for i, v := range o.QualitySum {
		p.QualitySum[i] += v
	}
	for i, v := range o.QualityCount {
		p.QualityCount[i] += v
	}
}

// Summary is the nested, additively-mergeable record of spec.md §3.
type Summary struct {
	TotalReads int
	TotalPairs int

	ModifierStats map[string]*ModifierStats
	FilterCounts  map[string]int

	AdapterHistograms map[string]*ModifierStats
	PositionHistogram *PositionHistogram
}

// New returns an empty, ready-to-accumulate Summary.
func New() *Summary {
	return &Summary{
		ModifierStats:     make(map[string]*ModifierStats),
		FilterCounts:      make(map[string]int),
		AdapterHistograms: make(map[string]*ModifierStats),
		PositionHistogram: newPositionHistogram(),
	}
}

// Modifier returns (creating if necessary) the stats bucket for a named
// modifier kind.
func (s *Summary) Modifier(name string) *ModifierStats {
	m, ok := s.ModifierStats[name]
	if !ok {
		m = newModifierStats()
		s.ModifierStats[name] = m
	}
	return m
}

// Adapter returns (creating if necessary) the per-adapter match histogram
// bucket.
func (s *Summary) Adapter(name string) *ModifierStats {
	m, ok := s.AdapterHistograms[name]
	if !ok {
		m = newModifierStats()
		s.AdapterHistograms[name] = m
	}
	return m
}

// RecordFilter increments the count of reads/pairs sent to sink kind.
func (s *Summary) RecordFilter(kind string) {
	s.FilterCounts[kind]++
}

// RecordPosition folds one read's sequence/quality into the per-position
// histogram.
func (s *Summary) RecordPosition(seq, qual []byte) {
	s.PositionHistogram.record(seq, qual)
}

// Merge folds other into s in place (spec.md §8: Summary additivity).
func (s *Summary) Merge(other *Summary) {
	s.TotalReads += other.TotalReads
	s.TotalPairs += other.TotalPairs
	for name, m := range other.ModifierStats {
		s.Modifier(name).merge(m)
	}
	for kind, n := range other.FilterCounts {
		s.FilterCounts[kind] += n
	}
	for name, m := range other.AdapterHistograms {
		s.Adapter(name).merge(m)
	}
	s.PositionHistogram.merge(other.PositionHistogram)
}
