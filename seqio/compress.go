package seqio

import (
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
)

// Codec names a compression backend, selected either by file extension or
// by sniffing magic bytes (spec.md §6: "compressed inputs are detected by
// magic bytes"). Backend choice per codec is recorded in DESIGN.md.
type Codec int

const (
	CodecNone Codec = iota
	CodecGzip
	CodecBzip2
	CodecXz
	CodecSnappy
)

var magic = []struct {
	codec Codec
	bytes []byte
}{
	{CodecGzip, []byte{0x1f, 0x8b}},
	{CodecBzip2, []byte("BZh")},
	{CodecXz, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{CodecSnappy, []byte{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50}},
}

// SniffCodec peeks at the front of r (via a *bufio.Reader so nothing is
// consumed irrecoverably) and returns the detected codec alongside a reader
// positioned at the start of the stream.
func SniffCodec(r io.Reader) (Codec, *bufio.Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	const maxMagic = 8
	head, err := br.Peek(maxMagic)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return CodecNone, br, fmt.Errorf("seqio: sniffing codec: %w", err)
	}
	for _, m := range magic {
		if len(head) >= len(m.bytes) && string(head[:len(m.bytes)]) == string(m.bytes) {
			return m.codec, br, nil
		}
	}
	return CodecNone, br, nil
}

// CodecForPath infers a codec purely from a path's extension, used when
// choosing an output backend (there is nothing to sniff before the first
// byte is written).
func CodecForPath(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CodecGzip
	case strings.HasSuffix(path, ".bz2"):
		return CodecBzip2
	case strings.HasSuffix(path, ".xz"):
		return CodecXz
	case strings.HasSuffix(path, ".sz"):
		return CodecSnappy
	default:
		return CodecNone
	}
}

// Decompress wraps r with the appropriate streaming decompressor for codec.
func Decompress(codec Codec, r io.Reader) (io.Reader, error) {
	switch codec {
	case CodecNone:
		return r, nil
	case CodecGzip:
		return pgzip.NewReader(r)
	case CodecBzip2:
		return bzip2.NewReader(r), nil
	case CodecXz:
		return xz.NewReader(r)
	case CodecSnappy:
		return snappy.NewReader(r), nil
	default:
		return nil, fmt.Errorf("seqio: unknown codec %d", codec)
	}
}

// Compressor is a write-side compressor that must be closed to flush its
// trailer; Writers (sinks package) track these for finalization.
type Compressor interface {
	io.WriteCloser
}

// Compress wraps w with the appropriate streaming compressor for codec.
// Bzip2 has no ecosystem encoder in the retrieved pack (see DESIGN.md) and
// is rejected here as a configuration error rather than silently falling
// back to an uncompressed stream.
func Compress(codec Codec, w io.Writer) (Compressor, error) {
	switch codec {
	case CodecNone:
		return nopCompressor{w}, nil
	case CodecGzip:
		return pgzip.NewWriter(w), nil
	case CodecBzip2:
		return nil, fmt.Errorf("seqio: bzip2 output is not supported (no ecosystem bzip2 encoder)")
	case CodecXz:
		return xz.NewWriter(w)
	case CodecSnappy:
		return snappy.NewBufferedWriter(w), nil
	default:
		return nil, fmt.Errorf("seqio: unknown codec %d", codec)
	}
}

type nopCompressor struct{ io.Writer }

func (nopCompressor) Close() error { return nil }
