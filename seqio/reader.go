package seqio

import (
	"fmt"
	"io"
	"strings"
)

// RecordReader is satisfied by FastqReader and FastaReader.
type RecordReader interface {
	Next() (*Read, error)
	Peek() (*Read, error)
}

// PairedMode mirrors spec.md §6's paired-mode config field.
type PairedMode int

const (
	PairedNone PairedMode = iota
	PairedFirst
	PairedBoth
)

// BatchReader turns one or two RecordReaders into a stream of PairBatches
// (or ReadBatches, for single-end) tagged with a monotonically increasing
// BatchIndex, per spec.md §3/§4.6. Interleaved input is supported by setting
// r2 to nil and Interleaved to true.
type BatchReader struct {
	r1, r2      RecordReader
	Interleaved bool
	BatchSize   int

	nextIndex int
}

// NewBatchReader constructs a reader over r1 (and optionally r2, for
// parallel-file paired input). batchSize is the number of reads/pairs per
// batch handed to a single worker.
func NewBatchReader(r1, r2 RecordReader, interleaved bool, batchSize int) *BatchReader {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &BatchReader{r1: r1, r2: r2, Interleaved: interleaved, BatchSize: batchSize}
}

// matePrefix returns the mate-agnostic prefix of a read name (spec.md §3
// ReadPair invariant): everything before the first space when the name has
// one (Illumina " 1:..."/" 2:..." comments), otherwise the name with a
// trailing /1 or /2 removed. ".1"/".2" suffixes are kept.
func matePrefix(name string) string {
	if i := strings.IndexByte(name, ' '); i >= 0 {
		head := name[:i]
		return head
	}
	n := len(name)
	if n >= 2 && name[n-2] == '/' && (name[n-1] == '1' || name[n-1] == '2') {
		return name[:n-2]
	}
	return name
}

func checkMates(r1, r2 *Read) error {
	if matePrefix(r1.Name) != matePrefix(r2.Name) {
		return fmt.Errorf("seqio: mate name mismatch: %q vs %q", r1.Name, r2.Name)
	}
	return nil
}

// NextPairBatch reads up to BatchSize pairs. It returns io.EOF only when no
// pairs at all were read; a short final batch is returned with a nil error
// followed by io.EOF on the next call. With neither an r2 reader nor
// interleaving, each pair carries R1 only (single-end input).
func (br *BatchReader) NextPairBatch() (*PairBatch, error) {
	pairs := make([]*ReadPair, 0, br.BatchSize)
	for i := 0; i < br.BatchSize; i++ {
		r1, err := br.r1.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var r2 *Read
		if br.Interleaved {
			r2, err = br.r1.Next()
			if err != nil {
				if err == io.EOF {
					return nil, fmt.Errorf("seqio: interleaved input ended on an odd record (mate for %q missing)", r1.Name)
				}
				return nil, err
			}
		} else if br.r2 != nil {
			r2, err = br.r2.Next()
			if err != nil {
				if err == io.EOF {
					return nil, fmt.Errorf("seqio: r2 file ended before r1 (missing mate for %q)", r1.Name)
				}
				return nil, err
			}
		}
		if r2 != nil {
			if err := checkMates(r1, r2); err != nil {
				return nil, err
			}
		}
		pairs = append(pairs, &ReadPair{R1: r1, R2: r2})
	}
	if len(pairs) == 0 {
		return nil, io.EOF
	}
	b := &PairBatch{BatchIndex: br.nextIndex, Pairs: pairs}
	br.nextIndex++
	return b, nil
}

// NextReadBatch reads up to BatchSize single-end reads.
func (br *BatchReader) NextReadBatch() (*ReadBatch, error) {
	reads := make([]*Read, 0, br.BatchSize)
	for i := 0; i < br.BatchSize; i++ {
		r, err := br.r1.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		reads = append(reads, r)
	}
	if len(reads) == 0 {
		return nil, io.EOF
	}
	b := &ReadBatch{BatchIndex: br.nextIndex, Reads: reads}
	br.nextIndex++
	return b, nil
}
