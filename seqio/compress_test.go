package seqio

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecForPath(t *testing.T) {
	require.Equal(t, CodecGzip, CodecForPath("reads.fastq.gz"))
	require.Equal(t, CodecBzip2, CodecForPath("reads.fastq.bz2"))
	require.Equal(t, CodecXz, CodecForPath("reads.fastq.xz"))
	require.Equal(t, CodecSnappy, CodecForPath("reads.fastq.sz"))
	require.Equal(t, CodecNone, CodecForPath("reads.fastq"))
}

func TestGzipRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := Compress(CodecGzip, &buf)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	codec, br, err := SniffCodec(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, CodecGzip, codec)

	r, err := Decompress(codec, br)
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(out))
}

func TestSnappyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := Compress(CodecSnappy, &buf)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello snappy"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := Decompress(CodecSnappy, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello snappy", string(out))
}

func TestBzip2OutputRejected(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compress(CodecBzip2, &buf)
	require.Error(t, err)
}

func TestSniffCodecNoMagic(t *testing.T) {
	codec, _, err := SniffCodec(bytes.NewReader([]byte("@read1\nACGT\n")))
	require.NoError(t, err)
	require.Equal(t, CodecNone, codec)
}

func TestSniffCodecShortInput(t *testing.T) {
	codec, _, err := SniffCodec(bytes.NewReader([]byte("@r")))
	require.NoError(t, err)
	require.Equal(t, CodecNone, codec)
}
