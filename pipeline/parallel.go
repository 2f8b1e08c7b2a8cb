package pipeline

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang-collections/go-datastructures/queue"
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
)

// priorityItem adapts a *ResultBatch to go-datastructures/queue.Item so the
// writer can hold out-of-order arrivals in a min-heap keyed by BatchIndex
// (spec.md §4.6: "writer maintains a min-heap keyed by batch_index").
type priorityItem struct{ rb *ResultBatch }

func (p priorityItem) Compare(other queue.Item) int {
	o := other.(priorityItem)
	switch {
	case p.rb.BatchIndex < o.rb.BatchIndex:
		return -1
	case p.rb.BatchIndex > o.rb.BatchIndex:
		return 1
	default:
		return 0
	}
}

// abortFlag is the shared cancellation signal of spec.md §5: any stage may
// set it; every stage polls it between queue operations.
type abortFlag struct {
	mu  sync.Mutex
	set bool
	err error
}

func (a *abortFlag) trigger(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.set {
		a.set = true
		a.err = err
	}
}

func (a *abortFlag) isSet() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.set
}

func (a *abortFlag) cause() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// RunParallel implements spec.md §4.6's "Parallel" directed pipeline:
//
//	reader -> [read_queue] -> worker(1..n) -> [result_queue] -> writer
//
// grounded on the teacher's muscato_confirm.go semaphore-channel pattern
// (limit := make(chan bool, concurrency)), generalized from a single flat
// result channel to an ordered ResultBatch stream.
func RunParallel(p *Params) (*stats.Summary, error) {
	n := p.NumWorkers
	if n <= 0 {
		n = 1
	}
	readQueue := make(chan *seqio.PairBatch, queueSize(p.ReadQueueSize))
	resultQueue := make(chan *ResultBatch, queueSize(p.ResultQueueSize))
	abort := &abortFlag{}

	var wg sync.WaitGroup
	wg.Add(1)
	go runReader(p, readQueue, abort, &wg)

	var workerWG sync.WaitGroup
	for i := 0; i < n; i++ {
		workerWG.Add(1)
		go runWorker(p, readQueue, resultQueue, abort, &workerWG)
	}
	go func() {
		workerWG.Wait()
		close(resultQueue)
	}()

	summary, werr := runWriter(p, resultQueue, abort)

	wg.Wait()

	if abort.isSet() {
		if cause := abort.cause(); cause != nil {
			if perr, ok := cause.(*Error); ok {
				return summary, perr
			}
			return summary, &Error{Kind: ErrWorker, Stage: "pipeline", Err: cause}
		}
	}
	if werr != nil {
		return summary, werr
	}

	if err := sinkFlush(p); err != nil {
		return summary, &Error{Kind: ErrWorker, Stage: "writer-finalize", Err: err}
	}
	return summary, nil
}

func queueSize(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func runReader(p *Params, readQueue chan<- *seqio.PairBatch, abort *abortFlag, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(readQueue)
	for {
		if abort.isSet() {
			return
		}
		batch, err := p.Reader.NextPairBatch()
		if err == io.EOF {
			return
		}
		if err != nil {
			abort.trigger(&Error{Kind: ErrInputFormat, Stage: "reader", Err: err})
			return
		}
		select {
		case readQueue <- batch:
		case <-timeoutChan(p.ProcessTimeout):
			abort.trigger(&Error{Kind: ErrStall, Stage: "reader", Err: fmt.Errorf("timed out writing to read_queue")})
			return
		}
	}
}

func runWorker(p *Params, readQueue <-chan *seqio.PairBatch, resultQueue chan<- *ResultBatch, abort *abortFlag, wg *sync.WaitGroup) {
	defer wg.Done()
	chain := p.NewChain()
	for batch := range readQueue {
		if abort.isSet() {
			return
		}
		rb := func() (out *ResultBatch) {
			defer func() {
				if r := recover(); r != nil {
					abort.trigger(&Error{Kind: ErrWorker, Stage: "worker", Err: fmt.Errorf("panic: %v", r)})
					out = nil
				}
			}()
			return processBatch(batch, chain, p.FilterChain, p.Merger)
		}()
		if rb == nil {
			return
		}
		select {
		case resultQueue <- rb:
		case <-timeoutChan(p.ProcessTimeout):
			abort.trigger(&Error{Kind: ErrStall, Stage: "worker", Err: fmt.Errorf("timed out writing to result_queue")})
			return
		}
	}
}

func runWriter(p *Params, resultQueue <-chan *ResultBatch, abort *abortFlag) (*stats.Summary, error) {
	summary := stats.New()

	if !p.PreserveOrder {
		for rb := range resultQueue {
			summary.Merge(rb.Stats)
			if err := writeBatch(rb, p.Formatters); err != nil {
				abort.trigger(&Error{Kind: ErrWorker, Stage: "writer", Err: err})
				drain(resultQueue)
				return summary, &Error{Kind: ErrWorker, Stage: "writer", Err: err}
			}
		}
		return summary, nil
	}

	pq := queue.NewPriorityQueue(int(queueSizeHint(p)), false)
	next := 0
	for rb := range resultQueue {
		if err := pq.Put(priorityItem{rb: rb}); err != nil {
			return summary, &Error{Kind: ErrWorker, Stage: "writer", Err: err}
		}
		for !pq.Empty() {
			got, err := pq.Get(1)
			if err != nil || len(got) == 0 {
				break
			}
			head := got[0].(priorityItem).rb
			if head.BatchIndex != next {
				// Not yet our turn: put it back and wait for more arrivals.
				if perr := pq.Put(priorityItem{rb: head}); perr != nil {
					return summary, &Error{Kind: ErrWorker, Stage: "writer", Err: perr}
				}
				break
			}
			summary.Merge(head.Stats)
			if err := writeBatch(head, p.Formatters); err != nil {
				abort.trigger(&Error{Kind: ErrWorker, Stage: "writer", Err: err})
				drain(resultQueue)
				return summary, &Error{Kind: ErrWorker, Stage: "writer", Err: err}
			}
			next++
		}
	}
	return summary, nil
}

func queueSizeHint(p *Params) int {
	if p.ResultQueueSize > 0 {
		return p.ResultQueueSize
	}
	return 16
}

func drain(resultQueue <-chan *ResultBatch) {
	for range resultQueue {
	}
}

func timeoutChan(seconds int) <-chan time.Time {
	if seconds <= 0 {
		return nil
	}
	return time.After(time.Duration(seconds) * time.Second)
}
