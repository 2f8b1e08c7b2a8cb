package pipeline

import (
	"io"

	"github.com/kshedden/trimato/stats"
)

// RunSerial implements spec.md §4.6's "Serial" mode: pull a batch, run the
// modifier/filter/format chain, write, repeat. Single thread, no queues.
func RunSerial(p *Params) (*stats.Summary, error) {
	chain := p.NewChain()
	summary := stats.New()

	for {
		batch, err := p.Reader.NextPairBatch()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, &Error{Kind: ErrInputFormat, Stage: "reader", Err: err}
		}
		rb := processBatch(batch, chain, p.FilterChain, p.Merger)
		summary.Merge(rb.Stats)
		if err := writeBatch(rb, p.Formatters); err != nil {
			return summary, &Error{Kind: ErrWorker, Stage: "writer", Err: err}
		}
	}

	if err := sinkFlush(p); err != nil {
		return summary, &Error{Kind: ErrWorker, Stage: "writer-finalize", Err: err}
	}
	return summary, nil
}
