package filters

import (
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
)

// Chain is the ordered, compiled filter list of spec.md §4.4. NoFilter is
// always appended implicitly so the chain is total.
type Chain struct {
	filters        []Filter
	mode           PairMode
	discardTrimmed bool
}

// NewChain builds a Chain from the configured filters (in evaluation
// order); NoFilterFilter is appended automatically.
func NewChain(fs []Filter, mode PairMode, discardTrimmed bool) *Chain {
	all := make([]Filter, 0, len(fs)+1)
	all = append(all, fs...)
	all = append(all, &NoFilterFilter{})
	if mode == "" {
		mode = PairAny
	}
	return &Chain{filters: all, mode: mode, discardTrimmed: discardTrimmed}
}

// Classify evaluates the chain against pair and returns the owning Kind
// and whether the pair should be discarded silently (spec.md §4.4:
// "A pair owned by TrimmedFilter with discard_trimmed set is dropped
// silently").
func (c *Chain) Classify(pair *seqio.ReadPair, s *stats.Summary) (Kind, bool) {
	hasR2 := pair.R2 != nil
	for _, f := range c.filters {
		v1 := f.Predicate(pair.R1)
		var v2 bool
		if hasR2 {
			v2 = f.Predicate(pair.R2)
		}
		if Combine(c.mode, v1, v2, hasR2) {
			s.RecordFilter(string(f.Kind()))
			discard := f.Kind() == KindTrimmed && c.discardTrimmed
			return f.Kind(), discard
		}
	}
	// Unreachable: NoFilterFilter always matches.
	s.RecordFilter(string(KindNoFilter))
	return KindNoFilter, false
}
