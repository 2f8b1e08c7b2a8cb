// Package pipeline implements the two executor modes of spec.md §4.6: a
// single-threaded Serial fallback and a bounded-channel Parallel pipeline,
// grounded directly on the teacher's muscato_confirm.go reader/worker-pool
// (the searchpairs/limit semaphore idiom, generalized from a single result
// channel to an ordered ResultBatch stream).
package pipeline

import (
	"log"

	"github.com/kshedden/trimato/filters"
	"github.com/kshedden/trimato/modifiers"
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/sinks"
	"github.com/kshedden/trimato/stats"
)

// Params aggregates everything one executor run needs: the reader, the
// (already-compiled) modifier chain and filter chain, the sink routing
// table, and a logger. One Params value is shared read-only across
// workers; each worker clones the mutable pieces it needs per-worker
// copies of (spec.md §5: "Modifier instances: per-worker copies").
type Params struct {
	Reader       *seqio.BatchReader
	NewChain     func() *modifiers.Chain
	FilterChain  *filters.Chain
	Formatters   *sinks.Formatters
	Logger       *log.Logger

	BatchSize       int
	ReadQueueSize   int
	ResultQueueSize int
	NumWorkers      int
	PreserveOrder   bool
	ProcessTimeout  int // seconds; 0 disables
	WriterProcess   bool

	// Merger, if set, attempts read-pair merging (spec.md §4.3's
	// MergeOverlapping) before the filter chain runs; a merged pair is
	// routed to filters.KindMergedRead as a synthetic single-end read,
	// skipping the rest of the filter chain (it has no mate structure
	// left to filter).
	Merger func(pair *seqio.ReadPair, s *stats.Summary) (*seqio.Read, bool)
}

// writeItem is one pair tagged with its routing decision, the unit a
// worker hands to the writer (spec.md §4.6's per_sink_buffers, flattened to
// per-pair granularity since trimato's sinks are themselves buffered).
type writeItem struct {
	kind    filters.Kind
	pair    *seqio.ReadPair
	discard bool
}

// ResultBatch is a worker's output for one input batch: the routed pairs
// plus that worker's stats delta for this batch (spec.md §4.6).
type ResultBatch struct {
	BatchIndex int
	Items      []writeItem
	Stats      *stats.Summary
}

// processBatch runs the modifier chain then the filter chain over every
// pair in batch, using chain/fchain (a worker's private copies) and
// returns the routed ResultBatch plus that worker's incremental Summary.
func processBatch(batch *seqio.PairBatch, chain *modifiers.Chain, fchain *filters.Chain, merger func(*seqio.ReadPair, *stats.Summary) (*seqio.Read, bool)) *ResultBatch {
	s := stats.New()
	items := make([]writeItem, 0, batch.Len())
	for _, pair := range batch.Pairs {
		chain.Apply(pair, s)
		s.TotalPairs++
		if pair.R2 == nil {
			s.TotalReads++
		} else {
			s.TotalReads += 2
		}

		if merger != nil && pair.R2 != nil {
			if merged, ok := merger(pair, s); ok {
				s.RecordFilter(string(filters.KindMergedRead))
				items = append(items, writeItem{kind: filters.KindMergedRead, pair: &seqio.ReadPair{R1: merged}})
				continue
			}
		}

		kind, discard := fchain.Classify(pair, s)
		items = append(items, writeItem{kind: kind, pair: pair, discard: discard})
	}
	return &ResultBatch{BatchIndex: batch.BatchIndex, Items: items, Stats: s}
}

// sinkFlush finalizes every sink reachable from p.Formatters.
func sinkFlush(p *Params) error {
	return sinks.Writers(p.Formatters)
}

// writeBatch routes every item in rb through Formatters, writing R1 (and,
// for non-interleaved paired output, R2) to the appropriate Sink.
func writeBatch(rb *ResultBatch, f *sinks.Formatters) error {
	for _, it := range rb.Items {
		if it.discard {
			continue
		}
		sp, ok := f.Route(it.kind)
		if !ok {
			continue
		}
		if err := sp.R1.Write("", it.pair.R1); err != nil {
			return err
		}
		if it.pair.R2 != nil {
			r2Sink := sp.R2
			if r2Sink == nil {
				r2Sink = sp.R1 // interleaved: both mates share one sink
			}
			if err := r2Sink.Write("", it.pair.R2); err != nil {
				return err
			}
		}
	}
	return nil
}
