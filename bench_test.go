package wordvec_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/wordvec"
	"github.com/hupe1980/wordvec/internal/testutil"
	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/subword"
	"github.com/hupe1980/wordvec/vocab"
)

const (
	benchWords = 20000
	benchDims  = 100
)

func benchEmbeddings(b *testing.B, opts ...wordvec.Option) (*wordvec.Embeddings, []string) {
	b.Helper()

	rng := testutil.NewRNG(4711)
	words := rng.Words(benchWords)

	builder := wordvec.NewBuilder(benchDims)
	for i, vec := range rng.ClusteredVectors(benchWords, benchDims, 100, 0.3) {
		if err := builder.Push(words[i], vec); err != nil {
			b.Fatal(err)
		}
	}

	e, err := builder.Build(opts...)
	if err != nil {
		b.Fatal(err)
	}
	return e, words
}

func BenchmarkSimilarWord(b *testing.B) {
	for _, normalize := range []bool{false, true} {
		name := "Raw"
		if normalize {
			name = "Normalized"
		}

		b.Run(name, func(b *testing.B) {
			e, words := benchEmbeddings(b, wordvec.WithNormalize(normalize))

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := e.SimilarWord(words[i%len(words)], 10); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSimilarBatch(b *testing.B) {
	e, words := benchEmbeddings(b, wordvec.WithNormalize(true), wordvec.WithParallelism(8))
	queries := words[:64]
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.SimilarBatch(ctx, queries, 10); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEmbeddingSubword(b *testing.B) {
	rng := testutil.NewRNG(4711)
	words := rng.Words(1000)

	indexer, err := subword.NewBucketIndexer(3, 6, 16)
	if err != nil {
		b.Fatal(err)
	}
	v, err := vocab.NewSubword(words[:500], indexer)
	if err != nil {
		b.Fatal(err)
	}
	data := testutil.Flatten(rng.GaussianVectors(v.TotalRows(), benchDims))
	s, err := storage.NewArrayFromData(data, v.TotalRows(), benchDims)
	if err != nil {
		b.Fatal(err)
	}

	unknown := words[500:]
	for _, bc := range []struct {
		name      string
		cacheSize int
	}{
		{"NoCache", 0},
		{"Cache", 1024},
	} {
		b.Run(bc.name, func(b *testing.B) {
			e, err := wordvec.New(v, s, wordvec.WithCache(bc.cacheSize))
			if err != nil {
				b.Fatal(err)
			}

			dst := make([]float32, benchDims)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if !e.EmbeddingInto(unknown[i%len(unknown)], dst) {
					b.Fatal("unresolved word")
				}
			}
		})
	}
}

func BenchmarkLoad(b *testing.B) {
	e, _ := benchEmbeddings(b, wordvec.WithNormalize(true))

	var buf bytes.Buffer
	if err := wordvec.WriteEmbeddings(&buf, e); err != nil {
		b.Fatal(err)
	}
	path := filepath.Join(b.TempDir(), "bench.r2v")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		b.Fatal(err)
	}

	b.Run("Read", func(b *testing.B) {
		b.SetBytes(int64(buf.Len()))
		for i := 0; i < b.N; i++ {
			if _, err := wordvec.ReadEmbeddings(bytes.NewReader(buf.Bytes())); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Mmap", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			mapped, err := wordvec.ReadFile(path, wordvec.FormatRust2VecMmap)
			if err != nil {
				b.Fatal(err)
			}
			_ = mapped.Close()
		}
	})
}
