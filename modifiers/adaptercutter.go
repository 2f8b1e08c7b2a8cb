package modifiers

import (
	"log"

	"github.com/kshedden/trimato/adapter"
	"github.com/kshedden/trimato/align"
	"github.com/kshedden/trimato/insertalign"
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
)

// Action is one of the four outcomes spec.md §4.3 allows once an adapter
// match is located.
type Action int

const (
	ActionTrim Action = iota
	ActionMask
	ActionLowercase
	ActionNone
)

func maskRange(r *seqio.Read, start, stop int, action Action) {
	switch action {
	case ActionMask:
		for i := start; i < stop && i < len(r.Sequence); i++ {
			r.Sequence[i] = 'N'
		}
	case ActionLowercase:
		for i := start; i < stop && i < len(r.Sequence); i++ {
			c := r.Sequence[i]
			if c >= 'A' && c <= 'Z' {
				r.Sequence[i] = c - 'A' + 'a'
			}
		}
	}
}

// AdapterCutter locates a single (possibly linked) adapter via align.Align
// and applies the configured Action (spec.md §4.3).
type AdapterCutter struct {
	Adapter *adapter.Adapter
	Action  Action
	mate    Mate
	logger  *log.Logger
}

func NewAdapterCutter(a *adapter.Adapter, action Action, mate Mate, logger *log.Logger) *AdapterCutter {
	return &AdapterCutter{Adapter: a, Action: action, mate: mate, logger: logger}
}

func (c *AdapterCutter) Kind() string { return "AdapterCutter:" + c.Adapter.Name }
func (c *AdapterCutter) Group() byte  { return GroupAdapter }
func (c *AdapterCutter) Mate() Mate   { return c.mate }

func (c *AdapterCutter) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	bucket := s.Modifier(c.Kind())
	adapterBucket := s.Adapter(c.Adapter.Name)
	if c.mate != MateR2 && pair.R1 != nil {
		c.applyOne(pair.R1, bucket, adapterBucket)
	}
	if c.mate != MateR1 && pair.R2 != nil {
		c.applyOne(pair.R2, bucket, adapterBucket)
	}
}

func (c *AdapterCutter) applyOne(r *seqio.Read, bucket, adapterBucket *stats.ModifierStats) {
	if c.Adapter.Linked {
		res, ok := c.Adapter.MatchLinked(r.Sequence)
		if !ok {
			return
		}
		before := r.Len()
		// Back first, so Front's read-offsets (computed against the
		// original sequence) remain valid. Each match is applied with its
		// own sub-adapter's placement.
		if res.BackOK {
			bm := res.BackMatch
			if res.FrontOK {
				// BackMatch was found in the remainder after the front match.
				bm.Rstart += res.FrontMatch.Rstop
				bm.Rstop += res.FrontMatch.Rstop
			}
			back := *c
			back.Adapter = c.Adapter.Back
			back.applyMatch(r, bm, adapterBucket)
		}
		if res.FrontOK {
			front := *c
			front.Adapter = c.Adapter.Front
			front.applyMatch(r, res.FrontMatch, adapterBucket)
		}
		if removed := before - r.Len(); removed != 0 || c.Action == ActionNone {
			bucket.Record(removed)
			if c.logger != nil {
				c.logger.Printf("adapter %s: linked match front=%v back=%v", c.Adapter.Name, res.FrontOK, res.BackOK)
			}
		}
		return
	}

	m, ok := c.Adapter.Match(r.Sequence)
	if !ok {
		return
	}
	before := r.Len()
	c.applyMatch(r, m, adapterBucket)
	bucket.Record(before - r.Len())
}

// applyMatch performs the trim/mask/lowercase/none action for a single
// align.Match against r, and records the adapter-specific histograms
// (spec.md §4.3: "for adapter cutters, a per-adapter match-length histogram
// and an error-count histogram").
func (c *AdapterCutter) applyMatch(r *seqio.Read, m align.Match, adapterBucket *stats.ModifierStats) {
	removed := 0
	switch c.Action {
	case ActionTrim:
		switch c.Adapter.Where {
		case align.Back, align.Suffix:
			before := r.Len()
			r.CutBack(r.Len() - m.Rstart)
			removed = before - r.Len()
		default:
			before := r.Len()
			r.CutFront(m.Rstop)
			removed = before - r.Len()
		}
	case ActionMask, ActionLowercase:
		maskRange(r, m.Rstart, m.Rstop, c.Action)
	case ActionNone:
	}
	adapterBucket.RecordAdapterMatch(m.Length(), m.Errors, removed)
}

// InsertAdapterCutter locates adapter contamination in a read pair via the
// insert aligner (spec.md §4.2) instead of independently per mate, and
// trims (or masks) the detected overhangs symmetrically.
type InsertAdapterCutter struct {
	Options        insertalign.Options
	AdapterR1      []byte
	AdapterR2      []byte
	Action         Action
	logger         *log.Logger
}

func NewInsertAdapterCutter(opts insertalign.Options, a1, a2 []byte, action Action, logger *log.Logger) *InsertAdapterCutter {
	return &InsertAdapterCutter{Options: opts, AdapterR1: a1, AdapterR2: a2, Action: action, logger: logger}
}

func (c *InsertAdapterCutter) Kind() string { return "InsertAdapterCutter" }
func (c *InsertAdapterCutter) Group() byte  { return GroupAdapter }
func (c *InsertAdapterCutter) Mate() Mate   { return MateBoth }

func (c *InsertAdapterCutter) ApplyPair(pair *seqio.ReadPair, s *stats.Summary) {
	if pair.R1 == nil || pair.R2 == nil {
		return
	}
	res, ok := insertalign.Align(pair.R1, pair.R2, c.AdapterR1, c.AdapterR2, c.Options)
	if !ok {
		return
	}
	bucket := s.Modifier(c.Kind())
	adapterBucket := s.Adapter("insert")

	if res.CorrectMismatches {
		c.correctOverlap(pair, res)
	}

	removed := 0
	switch c.Action {
	case ActionTrim:
		if res.TrimR1 > 0 {
			before := pair.R1.Len()
			pair.R1.CutBack(res.TrimR1)
			removed += before - pair.R1.Len()
		}
		if res.TrimR2 > 0 {
			before := pair.R2.Len()
			pair.R2.CutBack(res.TrimR2)
			removed += before - pair.R2.Len()
		}
	case ActionMask, ActionLowercase:
		if res.TrimR1 > 0 {
			maskRange(pair.R1, pair.R1.Len()-res.TrimR1, pair.R1.Len(), c.Action)
		}
		if res.TrimR2 > 0 {
			maskRange(pair.R2, pair.R2.Len()-res.TrimR2, pair.R2.Len(), c.Action)
		}
	case ActionNone:
	}

	bucket.Record(removed)
	adapterBucket.RecordAdapterMatch(res.Overlap, res.Mismatches, removed)
	if c.logger != nil && (res.TrimR1 > 0 || res.TrimR2 > 0) {
		c.logger.Printf("insert align: offset=%d overlap=%d trimR1=%d trimR2=%d", res.Offset, res.Overlap, res.TrimR1, res.TrimR2)
	}
}

// correctOverlap replaces mismatching bases within the shared insert region
// with the higher-quality base from either mate (spec.md §4.2).
func (c *InsertAdapterCutter) correctOverlap(pair *seqio.ReadPair, res insertalign.Result) {
	r1 := pair.R1
	n1, n2 := r1.Len(), pair.R2.Len()
	rc2 := seqio.ReverseComplement(pair.R2.Sequence)
	qual2 := reverseBytes(pair.R2.Quality)

	start1 := res.Offset
	if start1 < 0 {
		start1 = 0
	}
	start2 := 0
	if res.Offset < 0 {
		start2 = -res.Offset
	}
	length := res.Overlap
	for i := 0; i < length; i++ {
		p1 := start1 + i
		p2 := start2 + i
		if p1 >= n1 || p2 >= len(rc2) {
			break
		}
		if r1.Sequence[p1] == rc2[p2] {
			continue
		}
		if len(r1.Quality) == 0 || len(qual2) == 0 {
			continue
		}
		mapPos2 := n2 - 1 - p2
		if mapPos2 < 0 || mapPos2 >= n2 {
			continue
		}
		if qual2[p2] > r1.Quality[p1] {
			r1.Sequence[p1] = rc2[p2]
			r1.Quality[p1] = qual2[p2]
		} else {
			pair.R2.Sequence[mapPos2] = seqio.ReverseComplement([]byte{r1.Sequence[p1]})[0]
			pair.R2.Quality[mapPos2] = r1.Quality[p1]
		}
	}
}
