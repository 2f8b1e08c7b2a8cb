package seqio

import (
	"bufio"
	"fmt"
	"io"
)

// FastqReader streams 4-line FASTQ records, grounded directly on the
// teacher's utils.ReadInSeq.Next loop (scan 4 lines, dispatch on j%4),
// generalized to also capture quality and the second header, and to support
// a single-record lookahead (spec.md §9's "peek ahead ... readers must
// support single-record peek without consumption").
type FastqReader struct {
	scanner     *bufio.Scanner
	qualityBase int
	lineNum     int

	peeked    *Read
	peekedErr error
	havePeek  bool
}

// NewFastqReader wraps r (already decompressed) as a FASTQ record stream.
// qualityBase is 33 or 64, per spec.md §3.
func NewFastqReader(r io.Reader, qualityBase int) *FastqReader {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)
	return &FastqReader{scanner: scanner, qualityBase: qualityBase}
}

// Next returns the next record, advancing past any previously peeked
// record. io.EOF is returned (with a nil Read) once the stream is
// exhausted; any other error indicates a malformed record (spec.md §7
// Input format error).
func (fr *FastqReader) Next() (*Read, error) {
	if fr.havePeek {
		fr.havePeek = false
		return fr.peeked, fr.peekedErr
	}
	return fr.next()
}

// Peek returns the next record without consuming it; a subsequent Next or
// Peek returns the identical record.
func (fr *FastqReader) Peek() (*Read, error) {
	if !fr.havePeek {
		fr.peeked, fr.peekedErr = fr.next()
		fr.havePeek = true
	}
	return fr.peeked, fr.peekedErr
}

func (fr *FastqReader) next() (*Read, error) {
	lines := make([]string, 0, 4)
	for j := 0; j < 4; j++ {
		if !fr.scanner.Scan() {
			if err := fr.scanner.Err(); err != nil {
				return nil, fmt.Errorf("seqio: fastq read at line %d: %w", fr.lineNum, err)
			}
			if j == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("seqio: fastq: truncated record at line %d", fr.lineNum)
		}
		fr.lineNum++
		lines = append(lines, fr.scanner.Text())
	}

	if len(lines[0]) == 0 || lines[0][0] != '@' {
		return nil, fmt.Errorf("seqio: fastq: expected '@' header at line %d, got %q", fr.lineNum-3, lines[0])
	}
	if len(lines[2]) == 0 || lines[2][0] != '+' {
		return nil, fmt.Errorf("seqio: fastq: expected '+' separator at line %d, got %q", fr.lineNum-1, lines[2])
	}
	seq := []byte(lines[1])
	qual := []byte(lines[3])
	if len(qual) != len(seq) {
		return nil, fmt.Errorf("seqio: fastq: sequence/quality length mismatch at record ending line %d (%d != %d)", fr.lineNum, len(seq), len(qual))
	}

	return &Read{
		Name:         lines[0][1:],
		Sequence:     seq,
		Quality:      qual,
		SecondHeader: lines[2][1:],
		QualityBase:  fr.qualityBase,
	}, nil
}

// FastqWriter serializes Reads back to 4-line FASTQ records.
type FastqWriter struct {
	w *bufio.Writer
}

// NewFastqWriter wraps w (already the chosen compressor, or a raw sink) with
// buffering, per spec.md §4.5 ("Writers buffer output").
func NewFastqWriter(w io.Writer) *FastqWriter {
	return &FastqWriter{w: bufio.NewWriterSize(w, 64*1024)}
}

// Write appends one FASTQ record.
func (fw *FastqWriter) Write(r *Read) error {
	if _, err := fw.w.WriteString("@"); err != nil {
		return err
	}
	if _, err := fw.w.WriteString(r.Name); err != nil {
		return err
	}
	if _, err := fw.w.WriteString("\n"); err != nil {
		return err
	}
	if _, err := fw.w.Write(r.Sequence); err != nil {
		return err
	}
	if _, err := fw.w.WriteString("\n+"); err != nil {
		return err
	}
	if _, err := fw.w.WriteString(r.SecondHeader); err != nil {
		return err
	}
	if _, err := fw.w.WriteString("\n"); err != nil {
		return err
	}
	if len(r.Quality) > 0 {
		if _, err := fw.w.Write(r.Quality); err != nil {
			return err
		}
	} else {
		// No qualities: emit a synthetic max-quality line so the
		// record stays well-formed (FASTA input run in FASTQ mode).
		for i := 0; i < len(r.Sequence); i++ {
			if err := fw.w.WriteByte('I'); err != nil {
				return err
			}
		}
	}
	return fw.w.WriteByte('\n')
}

// Flush flushes the buffered writer; callers must call this (or Close, if
// the underlying writer is a Compressor) before the process exits.
func (fw *FastqWriter) Flush() error { return fw.w.Flush() }
