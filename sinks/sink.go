// Package sinks implements the formatter/writer routing of spec.md §4.5:
// each filters.Kind maps to a named output destination, materialized lazily
// (or eagerly, for force_create entries) and writing through the seqio
// compression backends.
package sinks

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/kshedden/trimato/filters"
	"github.com/kshedden/trimato/seqio"
)

// Format selects the on-disk record format.
type Format int

const (
	FormatFastq Format = iota
	FormatFasta
)

// recordWriter is satisfied by seqio.FastqWriter and seqio.FastaWriter.
type recordWriter interface {
	Write(r *seqio.Read) error
	Flush() error
}

// Sink is a named output destination: a path template (spec.md §4.5's
// multiplexed "{name}" substitution), the reserved "-" for stdout, and the
// record format to write in.
type Sink struct {
	Name         string
	PathTemplate string
	Format       Format
	Interleaved  bool

	mu        sync.Mutex
	opened    map[string]*openSink
	stdoutW   recordWriter
	closer    io.Closer
}

type openSink struct {
	compressor seqio.Compressor
	writer     recordWriter
	closer     io.Closer
}

// NewSink constructs a Sink. A pathTemplate containing no "{name}"
// placeholder writes every read to the same underlying file.
func NewSink(name, pathTemplate string, format Format, interleaved bool) *Sink {
	return &Sink{Name: name, PathTemplate: pathTemplate, Format: format, Interleaved: interleaved, opened: make(map[string]*openSink)}
}

// resolvePath expands "{name}" in the template with variable (spec.md
// §4.5's multiplexed adapter-name substitution); an empty variable uses a
// reserved "unknown" branch.
func (s *Sink) resolvePath(variable string) string {
	if !strings.Contains(s.PathTemplate, "{name}") {
		return s.PathTemplate
	}
	if variable == "" {
		variable = "unknown"
	}
	return strings.ReplaceAll(s.PathTemplate, "{name}", variable)
}

// Open materializes (or returns the already-open) destination for
// variable, creating the file lazily on first write unless it was already
// force-created.
func (s *Sink) open(variable string) (*openSink, error) {
	path := s.resolvePath(variable)

	s.mu.Lock()
	defer s.mu.Unlock()
	if os, ok := s.opened[path]; ok {
		return os, nil
	}
	o, err := s.openPath(path)
	if err != nil {
		return nil, err
	}
	s.opened[path] = o
	return o, nil
}

func (s *Sink) openPath(path string) (*openSink, error) {
	if path == "-" {
		return s.wrap(nopCloseWriter{os.Stdout})
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sinks: creating %q: %w", path, err)
	}
	return s.wrap(f)
}

func (s *Sink) wrap(w io.WriteCloser) (*openSink, error) {
	codec := seqio.CodecNone
	if f, ok := w.(*os.File); ok {
		codec = seqio.CodecForPath(f.Name())
	}
	comp, err := seqio.Compress(codec, w)
	if err != nil {
		w.Close()
		return nil, err
	}
	bw := bufio.NewWriterSize(comp, 64*1024)
	var rw recordWriter
	if s.Format == FormatFasta {
		rw = seqio.NewFastaWriter(bw)
	} else {
		rw = seqio.NewFastqWriter(bw)
	}
	return &openSink{compressor: comp, writer: rw, closer: multiCloser{bw, comp, w}}, nil
}

// Write emits r through the sink path selected by variable (the empty
// string for non-multiplexed sinks).
func (s *Sink) Write(variable string, r *seqio.Read) error {
	o, err := s.open(variable)
	if err != nil {
		return err
	}
	return o.writer.Write(r)
}

// ForceCreate eagerly opens the sink for the given variable, so zero-match
// runs still produce an empty output file (spec.md §4.5).
func (s *Sink) ForceCreate(variable string) error {
	_, err := s.open(variable)
	return err
}

// Flush flushes and closes every file opened under this sink.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, o := range s.opened {
		if err := o.writer.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := o.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type nopCloseWriter struct{ io.Writer }

func (nopCloseWriter) Close() error { return nil }

type multiCloser []io.Writer

func (m multiCloser) Close() error {
	var firstErr error
	for i := 0; i < len(m); i++ {
		if bw, ok := m[i].(*bufio.Writer); ok {
			if err := bw.Flush(); err != nil && firstErr == nil {
				firstErr = err
			}
			continue
		}
		if c, ok := m[i].(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// SinkPair is the pair of Sinks a FilterKind routes to: R2 is nil for
// single-end or interleaved output (both mates go through R1 in sequence).
type SinkPair struct {
	R1, R2 *Sink
}

// Formatters is the FilterKind -> Sink mapping of spec.md §4.5.
type Formatters struct {
	byKind      map[filters.Kind]SinkPair
	defaultSink SinkPair // used when a Kind has no explicit entry
}

// NewFormatters builds a routing table. def, if non-zero, catches any Kind
// not present in byKind (typically the NoFilter "keep" sink).
func NewFormatters(byKind map[filters.Kind]SinkPair, def SinkPair) *Formatters {
	return &Formatters{byKind: byKind, defaultSink: def}
}

// Route returns the SinkPair that owns kind, or ok=false if the pair
// should be dropped (no sink configured and no default).
func (f *Formatters) Route(kind filters.Kind) (SinkPair, bool) {
	if sp, ok := f.byKind[kind]; ok {
		return sp, true
	}
	if f.defaultSink.R1 != nil {
		return f.defaultSink, true
	}
	return SinkPair{}, false
}

// Writers finalizes every distinct Sink reachable from a Formatters table,
// flushing and closing all opened files (spec.md §4.5: "upon finalization
// they flush and close all opened sinks").
func Writers(f *Formatters) error {
	seen := make(map[*Sink]bool)
	var firstErr error
	flush := func(s *Sink) {
		if s == nil || seen[s] {
			return
		}
		seen[s] = true
		if err := s.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, sp := range f.byKind {
		flush(sp.R1)
		flush(sp.R2)
	}
	flush(f.defaultSink.R1)
	flush(f.defaultSink.R2)
	return firstErr
}
