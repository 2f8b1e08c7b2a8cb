package modifiers

import (
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
)

// UnconditionalCutter removes a signed length from every read: positive
// cuts from the front, negative from the back (spec.md §4.3).
type UnconditionalCutter struct {
	Length int
	mate   Mate
}

func NewUnconditionalCutter(length int, mate Mate) *UnconditionalCutter {
	return &UnconditionalCutter{Length: length, mate: mate}
}

func (c *UnconditionalCutter) Kind() string { return "UnconditionalCutter" }
func (c *UnconditionalCutter) Group() byte  { return GroupCut }
func (c *UnconditionalCutter) Mate() Mate   { return c.mate }

func (c *UnconditionalCutter) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	bucket := s.Modifier(c.Kind())
	if c.mate != MateR2 && pair.R1 != nil {
		cutOne(pair.R1, c.Length, bucket)
	}
	if c.mate != MateR1 && pair.R2 != nil {
		cutOne(pair.R2, c.Length, bucket)
	}
}

func cutOne(r *seqio.Read, length int, bucket *stats.ModifierStats) {
	if length == 0 {
		return
	}
	before := r.Len()
	if length > 0 {
		r.CutFront(length)
	} else {
		r.CutBack(-length)
	}
	if removed := before - r.Len(); removed > 0 {
		bucket.Record(removed)
	}
}

// MinCutter enforces a lower bound on how much is trimmed from a read: it
// never trims less than the configured minimum, used for bisulfite
// pre-trimming presets (spec.md §4.3/§6).
type MinCutter struct {
	MinFront, MinBack int
	mate              Mate
}

func NewMinCutter(minFront, minBack int, mate Mate) *MinCutter {
	return &MinCutter{MinFront: minFront, MinBack: minBack, mate: mate}
}

func (c *MinCutter) Kind() string { return "MinCutter" }
func (c *MinCutter) Group() byte  { return GroupCut }
func (c *MinCutter) Mate() Mate   { return c.mate }

func (c *MinCutter) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	bucket := s.Modifier(c.Kind())
	if c.mate != MateR2 && pair.R1 != nil {
		c.applyOne(pair.R1, bucket)
	}
	if c.mate != MateR1 && pair.R2 != nil {
		c.applyOne(pair.R2, bucket)
	}
}

func (c *MinCutter) applyOne(r *seqio.Read, bucket *stats.ModifierStats) {
	before := r.Len()
	if c.MinFront > r.TrimmedPrefixLen {
		r.CutFront(c.MinFront - r.TrimmedPrefixLen)
	}
	if c.MinBack > r.TrimmedSuffixLen {
		r.CutBack(c.MinBack - r.TrimmedSuffixLen)
	}
	if removed := before - r.Len(); removed > 0 {
		bucket.Record(removed)
	}
}

// bisulfitePresets resolves spec.md §6's named presets into a MinCutter pair
// (r1, r2), following original_source/atropos/commands.py's preset
// dispatch (RRBSTrimmer / NonDirectionalBisulfiteTrimmer / SwiftBisulfiteTrimmer
// / the epignome+truseq TruSeq preset). Values reflect the commonly
// documented cutadapt/atropos bisulfite trimming conventions.
var bisulfitePresets = map[string][2][2]int{
	// name: {{r1 front, r1 back}, {r2 front, r2 back}}
	"rrbs":                    {{0, 2}, {0, 2}},
	"non-directional":         {{5, 2}, {5, 2}},
	"non-directional-rrbs":    {{5, 2}, {5, 2}},
	"epignome":                {{8, 8}, {8, 8}},
	"truseq":                  {{8, 8}, {8, 8}},
	"swift":                   {{0, 0}, {0, 10}},
}

// BisulfitePreset resolves a bisulfite preset name into per-mate MinCutters
// (spec.md §6). An unknown preset name is a configuration error.
func BisulfitePreset(name string) (r1, r2 *MinCutter, err error) {
	vals, ok := bisulfitePresets[name]
	if !ok {
		return nil, nil, &ConfigError{Msg: "unknown bisulfite preset " + name}
	}
	return NewMinCutter(vals[0][0], vals[0][1], MateR1),
		NewMinCutter(vals[1][0], vals[1][1], MateR2),
		nil
}

// ConfigError reports a configuration-time error (spec.md §7).
type ConfigError struct{ Msg string }

func (e *ConfigError) Error() string { return "config error: " + e.Msg }
