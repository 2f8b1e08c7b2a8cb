package seqio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFastaReaderReadsRecord(t *testing.T) {
	data := ">read1\nACGTACGT\nACGT\n>read2\nTTTT\n"
	fr := NewFastaReader(strings.NewReader(data), nil)

	r1, err := fr.Next()
	require.NoError(t, err)
	require.Equal(t, "read1", r1.Name)
	require.Equal(t, "ACGTACGTACGT", string(r1.Sequence)) // wrapped lines concatenated

	r2, err := fr.Next()
	require.NoError(t, err)
	require.Equal(t, "read2", r2.Name)
	require.Equal(t, "TTTT", string(r2.Sequence))

	_, err = fr.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestFastaReaderWithQualFile(t *testing.T) {
	fasta := ">read1\nACGT\n"
	qual := ">read1\n40 40 40 40\n"
	fr := NewFastaReader(strings.NewReader(fasta), strings.NewReader(qual))

	r, err := fr.Next()
	require.NoError(t, err)
	require.Equal(t, []byte{40 + 33, 40 + 33, 40 + 33, 40 + 33}, r.Quality)
	require.Equal(t, 33, r.QualityBase)
}

func TestFastaReaderMissingHeaderErrors(t *testing.T) {
	fr := NewFastaReader(strings.NewReader("ACGT\n"), nil)
	_, err := fr.Next()
	require.Error(t, err)
}

func TestFastaWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewFastaWriter(&buf)
	require.NoError(t, w.Write(&Read{Name: "read1", Sequence: []byte("ACGT")}))
	require.NoError(t, w.Flush())
	require.Equal(t, ">read1\nACGT\n", buf.String())
}
