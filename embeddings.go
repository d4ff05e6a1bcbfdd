package wordvec

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/viterin/vek/vek32"

	"github.com/hupe1980/wordvec/metadata"
	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/vocab"
)

// Embeddings composes a vocabulary and an embedding matrix.
//
// Queries are safe for concurrent use. Normalize mutates the matrix and must
// not run concurrently with any other method.
type Embeddings struct {
	vocab      vocab.Vocab
	storage    storage.Storage
	norms      []float32
	metadata   metadata.Metadata
	normalized bool

	logger      *Logger
	metrics     MetricsCollector
	parallelism int
	cache       *lru.Cache[string, []float32]
}

// New creates embeddings from a vocabulary and a matrix with one row per
// vocabulary row.
func New(v vocab.Vocab, s storage.Storage, opts ...Option) (*Embeddings, error) {
	if v == nil || s == nil {
		return nil, errors.New("wordvec: nil vocabulary or storage")
	}

	rows := storage.Rows(s)
	if rows != v.TotalRows() {
		return nil, fmt.Errorf("%w: vocabulary has %d rows, storage %d", ErrRowCountMismatch, v.TotalRows(), rows)
	}

	o := applyOptions(opts)
	if o.norms != nil && len(o.norms) != rows {
		return nil, fmt.Errorf("%w: %d norms for %d rows", ErrRowCountMismatch, len(o.norms), rows)
	}

	e := &Embeddings{
		vocab:       v,
		storage:     s,
		norms:       o.norms,
		metadata:    o.metadata,
		normalized:  o.norms != nil,
		logger:      o.logger,
		metrics:     o.metricsCollector,
		parallelism: o.parallelism,
	}

	if _, ok := v.(*vocab.Subword); ok && o.cacheSize > 0 {
		cache, err := lru.New[string, []float32](o.cacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}

	if o.normalize {
		if _, err := e.Normalize(); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Vocab returns the vocabulary.
func (e *Embeddings) Vocab() vocab.Vocab { return e.vocab }

// Storage returns the embedding matrix.
func (e *Embeddings) Storage() storage.Storage { return e.storage }

// Norms returns the norms the rows had before normalization, or nil.
func (e *Embeddings) Norms() []float32 { return e.norms }

// Metadata returns the metadata document, or nil.
func (e *Embeddings) Metadata() metadata.Metadata { return e.metadata }

// SetMetadata replaces the metadata document.
func (e *Embeddings) SetMetadata(md metadata.Metadata) { e.metadata = md }

// IsNormalized reports whether all rows are known to have unit length.
func (e *Embeddings) IsNormalized() bool { return e.normalized }

// Dims returns the embedding dimensionality.
func (e *Embeddings) Dims() int { return storage.Dims(e.storage) }

// Len returns the number of words in the vocabulary.
func (e *Embeddings) Len() int { return e.vocab.Len() }

// Words returns the vocabulary words in row order.
func (e *Embeddings) Words() []string { return e.vocab.Words() }

// Embedding returns a copy of the embedding of word.
//
// Words outside of a subword vocabulary are embedded as the sum of their
// n-gram bucket rows.
func (e *Embeddings) Embedding(word string) ([]float32, bool) {
	dst := make([]float32, e.Dims())
	if !e.EmbeddingInto(word, dst) {
		return nil, false
	}
	return dst, true
}

// EmbeddingInto writes the embedding of word into dst, which must have
// length Dims. It reports false when the word cannot be resolved.
func (e *Embeddings) EmbeddingInto(word string, dst []float32) bool {
	if len(dst) != e.Dims() {
		return false
	}

	indices, ok := e.vocab.WordIndices(word)
	if !ok {
		return false
	}

	switch idx := indices.(type) {
	case vocab.SingleIndex:
		row, err := e.storage.Row(int(idx))
		if err != nil {
			return false
		}
		copy(dst, row)
		return true
	case vocab.MultiIndex:
		if e.cache != nil {
			if cached, ok := e.cache.Get(word); ok {
				copy(dst, cached)
				return true
			}
		}

		clear(dst)
		for _, i := range idx {
			row, err := e.storage.Row(i)
			if err != nil {
				return false
			}
			vek32.Add_Inplace(dst, row)
		}

		if e.cache != nil {
			e.cache.Add(word, slices.Clone(dst))
		}
		return true
	default:
		return false
	}
}

// EmbeddingWithNorm returns the embedding of word together with the norm it
// had before normalization.
func (e *Embeddings) EmbeddingWithNorm(word string) ([]float32, float32, bool) {
	vec, ok := e.Embedding(word)
	if !ok {
		return nil, 0, false
	}

	if e.norms != nil {
		if idx, ok := e.vocab.WordIndex(word); ok {
			return vec, e.norms[idx], true
		}
	}
	return vec, vek32.Norm(vec), true
}

// Normalize scales every row to unit length in place and returns the norms
// the rows had before. Rows of zero length are left unchanged and report a
// norm of zero. Mapped storage cannot be normalized.
func (e *Embeddings) Normalize() ([]float32, error) {
	arr, ok := e.storage.Mutable()
	if !ok {
		return nil, ErrMutationOnReadOnlyStorage
	}
	if e.normalized && e.norms != nil {
		return e.norms, nil
	}

	e.norms = arr.NormalizeRows()
	e.normalized = true
	if e.cache != nil {
		e.cache.Purge()
	}
	return e.norms, nil
}

// All iterates over the vocabulary words and their rows. The yielded slices
// alias the matrix and must not be modified.
func (e *Embeddings) All() iter.Seq2[string, []float32] {
	return func(yield func(string, []float32) bool) {
		for i, w := range e.vocab.Words() {
			row, err := e.storage.Row(i)
			if err != nil {
				return
			}
			if !yield(w, row) {
				return
			}
		}
	}
}

// Close releases the storage if it holds a memory mapping.
func (e *Embeddings) Close() error {
	if c, ok := e.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
