package wordvec

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/wordvec/chunk"
	"github.com/hupe1980/wordvec/internal/testutil"
	"github.com/hupe1980/wordvec/metadata"
	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/vocab"
)

func assertSameEmbeddings(t *testing.T, expected, actual *Embeddings, words ...string) {
	t.Helper()

	require.Equal(t, expected.Words(), actual.Words())
	require.Equal(t, expected.Dims(), actual.Dims())

	for _, w := range append(expected.Words(), words...) {
		want, ok := expected.Embedding(w)
		require.True(t, ok, w)
		got, ok := actual.Embedding(w)
		require.True(t, ok, w)
		assert.Equal(t, want, got, w)
	}
}

func TestContainer_RoundTrip(t *testing.T) {
	e := buildEmbeddings(t, 3,
		[]string{"berlin", "paris", "london"},
		[][]float32{{1, 2, 3}, {4, 5, 6}, {0, 0, 1}},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteEmbeddings(&buf, e))

	read, err := ReadEmbeddings(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assertSameEmbeddings(t, e, read)
	assert.IsType(t, &vocab.Simple{}, read.Vocab())
	assert.Nil(t, read.Norms())
	assert.Nil(t, read.Metadata())
	assert.False(t, read.IsNormalized())
}

func TestContainer_SubwordWithMetadataAndNorms(t *testing.T) {
	e := subwordEmbeddings(t, WithNormalize(true))
	e.SetMetadata(metadata.Metadata{
		"name":  "buckets",
		"epoch": int64(5),
	})

	var buf bytes.Buffer
	require.NoError(t, WriteEmbeddings(&buf, e))

	// A non-seekable stream exercises the forward-only reader.
	read, err := ReadEmbeddings(bytes.NewBuffer(buf.Bytes()))
	require.NoError(t, err)

	assertSameEmbeddings(t, e, read, "hallo", "wereld")
	assert.IsType(t, &vocab.Subword{}, read.Vocab())
	assert.Equal(t, e.Norms(), read.Norms())
	assert.True(t, read.IsNormalized())
	assert.Equal(t, "buckets", read.Metadata()["name"])
	assert.Equal(t, int64(5), read.Metadata()["epoch"])
}

func TestContainer_RandomRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(99)
	dir := t.TempDir()

	for trial := range 16 {
		n, dims := 1+rng.Intn(40), 1+rng.Intn(16)
		e := buildEmbeddings(t, dims, rng.Words(n), rng.GaussianVectors(n, dims),
			WithNormalize(rng.Intn(2) == 1))
		md := metadata.Metadata(rng.Table(2))
		e.SetMetadata(md)

		var buf bytes.Buffer
		require.NoError(t, WriteEmbeddings(&buf, e))

		read, err := ReadEmbeddings(bytes.NewBuffer(buf.Bytes()))
		require.NoError(t, err, "trial %d", trial)
		assertSameEmbeddings(t, e, read)
		assert.Equal(t, e.Norms(), read.Norms(), "trial %d", trial)
		assert.Equal(t, md, read.Metadata(), "trial %d", trial)

		path := filepath.Join(dir, "random.r2v")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
		mapped, err := ReadFile(path, FormatRust2VecMmap)
		require.NoError(t, err, "trial %d", trial)
		assertSameEmbeddings(t, e, mapped)
		require.NoError(t, mapped.Close())
	}
}

func TestContainer_Mmap(t *testing.T) {
	e := subwordEmbeddings(t, WithNormalize(true))
	e.SetMetadata(metadata.Metadata{"name": "mapped"})

	path := filepath.Join(t.TempDir(), "embeddings.r2v")
	require.NoError(t, WriteFile(path, FormatRust2Vec, e))

	mapped, err := ReadFile(path, FormatRust2VecMmap)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, mapped.Close()) })

	assert.IsType(t, &storage.MmapArray{}, mapped.Storage())
	assertSameEmbeddings(t, e, mapped, "hallo")
	assert.Equal(t, e.Norms(), mapped.Norms())
	assert.Equal(t, "mapped", mapped.Metadata()["name"])

	for i := range storage.Rows(e.Storage()) {
		want, err := e.Storage().Row(i)
		require.NoError(t, err)
		got, err := mapped.Storage().Row(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "row %d", i)
	}

	_, err = mapped.Normalize()
	assert.ErrorIs(t, err, ErrMutationOnReadOnlyStorage)

	results, err := mapped.SimilarWord("hallo", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"welt"}, words(results))
}

func TestContainer_MmapNeedsFile(t *testing.T) {
	_, err := Read(bytes.NewReader(nil), FormatRust2VecMmap)
	assert.ErrorIs(t, err, ErrUnsupportedFeature)
}

// writeContainer writes a preamble listing ids followed by the chunks
// produced by body.
func writeContainer(t *testing.T, ids []chunk.Identifier, body func(*chunk.Writer)) []byte {
	t.Helper()

	var buf bytes.Buffer
	cw, err := chunk.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, cw.WriteHeader(chunk.Header{Identifiers: ids}))
	body(cw)
	return buf.Bytes()
}

func TestContainer_Errors(t *testing.T) {
	v, err := vocab.NewSimple([]string{"a", "b"})
	require.NoError(t, err)
	s, err := storage.NewArrayFromData([]float32{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	t.Run("DuplicateChunk", func(t *testing.T) {
		data := writeContainer(t,
			[]chunk.Identifier{chunk.IdentifierVocabSimple, chunk.IdentifierVocabSimple},
			func(cw *chunk.Writer) {
				require.NoError(t, cw.WriteVocab(v))
				require.NoError(t, cw.WriteVocab(v))
			})

		_, err := ReadEmbeddings(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrDuplicateChunk)
	})

	t.Run("MissingStorage", func(t *testing.T) {
		data := writeContainer(t,
			[]chunk.Identifier{chunk.IdentifierVocabSimple},
			func(cw *chunk.Writer) {
				require.NoError(t, cw.WriteVocab(v))
			})

		_, err := ReadEmbeddings(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrMissingChunk)
	})

	t.Run("QuantizedStorage", func(t *testing.T) {
		data := writeContainer(t,
			[]chunk.Identifier{chunk.IdentifierVocabSimple, chunk.IdentifierStorageQuantized},
			func(cw *chunk.Writer) {
				require.NoError(t, cw.WriteVocab(v))
			})

		_, err := ReadEmbeddings(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrUnsupportedFeature)
	})

	t.Run("RowCountMismatch", func(t *testing.T) {
		other, err := vocab.NewSimple([]string{"a", "b", "c"})
		require.NoError(t, err)

		data := writeContainer(t,
			[]chunk.Identifier{chunk.IdentifierVocabSimple, chunk.IdentifierStorageDense},
			func(cw *chunk.Writer) {
				require.NoError(t, cw.WriteVocab(other))
				require.NoError(t, cw.WriteStorage(s))
			})

		_, err = ReadEmbeddings(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrRowCountMismatch)
	})

	t.Run("InvalidMagic", func(t *testing.T) {
		_, err := ReadEmbeddings(bytes.NewReader([]byte("FiFu\x01\x00\x00\x00\x00\x00\x00\x00")))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("Truncated", func(t *testing.T) {
		e, err := New(v, s)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, WriteEmbeddings(&buf, e))

		data := buf.Bytes()
		_, err = ReadEmbeddings(bytes.NewReader(data[:len(data)-3]))
		assert.ErrorIs(t, err, ErrTruncatedData)
	})
}

func TestContainer_MmapClosesOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.r2v")
	v, err := vocab.NewSimple([]string{"a"})
	require.NoError(t, err)

	data := writeContainer(t,
		[]chunk.Identifier{chunk.IdentifierVocabSimple},
		func(cw *chunk.Writer) {
			require.NoError(t, cw.WriteVocab(v))
		})
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = ReadFile(path, FormatRust2VecMmap)
	assert.ErrorIs(t, err, ErrMissingChunk)
}

func TestContainer_LoadMetrics(t *testing.T) {
	e := buildEmbeddings(t, 2, []string{"a"}, [][]float32{{1, 0}})

	var buf bytes.Buffer
	require.NoError(t, WriteEmbeddings(&buf, e))

	metrics := &BasicMetricsCollector{}
	_, err := ReadEmbeddings(bytes.NewReader(buf.Bytes()), WithMetricsCollector(metrics))
	require.NoError(t, err)
	_, err = ReadEmbeddings(bytes.NewReader(buf.Bytes()[:8]), WithMetricsCollector(metrics))
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)
}
