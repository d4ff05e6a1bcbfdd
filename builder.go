package wordvec

import (
	"fmt"

	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/vocab"
)

// Builder accumulates words and their vectors into embeddings with a
// simple vocabulary.
//
// Example:
//
//	b := wordvec.NewBuilder(3)
//	_ = b.Push("berlin", []float32{0.1, 0.2, 0.3})
//	_ = b.Push("paris", []float32{0.2, 0.1, 0.3})
//	e, err := b.Build(wordvec.WithNormalize(true))
type Builder struct {
	dims  int
	words []string
	seen  map[string]struct{}
	data  []float32
}

// NewBuilder creates a builder for vectors of length dims.
func NewBuilder(dims int) *Builder {
	return &Builder{
		dims: dims,
		seen: make(map[string]struct{}),
	}
}

// Dims returns the vector length.
func (b *Builder) Dims() int { return b.dims }

// Len returns the number of words pushed so far.
func (b *Builder) Len() int { return len(b.words) }

// Push appends a word and its vector. The vector is copied.
func (b *Builder) Push(word string, vec []float32) error {
	if len(vec) != b.dims {
		return &ErrDimensionMismatch{Expected: b.dims, Actual: len(vec)}
	}
	if _, ok := b.seen[word]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateWord, word)
	}

	b.seen[word] = struct{}{}
	b.words = append(b.words, word)
	b.data = append(b.data, vec...)
	return nil
}

// Build creates the embeddings. The builder must not be used afterwards.
func (b *Builder) Build(opts ...Option) (*Embeddings, error) {
	if b.dims <= 0 {
		return nil, fmt.Errorf("wordvec: invalid dimension %d", b.dims)
	}

	v, err := vocab.NewSimple(b.words)
	if err != nil {
		return nil, err
	}

	s, err := storage.NewArrayFromData(b.data, len(b.words), b.dims)
	if err != nil {
		return nil, err
	}

	return New(v, s, opts...)
}
