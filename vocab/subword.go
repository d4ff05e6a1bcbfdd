package vocab

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/wordvec/subword"
)

// ErrTooManyBuckets is returned when the bucket rows cannot be addressed.
var ErrTooManyBuckets = errors.New("vocab: bucket count exceeds addressable rows")

// Subword is a vocabulary that resolves unknown words through n-gram buckets.
//
// Rows [0, Len()) hold the words; rows [Len(), Len()+BucketCount()) hold
// the bucket embeddings.
type Subword struct {
	words   []string
	indices map[string]int
	indexer subword.Indexer
}

// NewSubword creates a subword vocabulary.
func NewSubword(words []string, indexer subword.Indexer) (*Subword, error) {
	if indexer == nil {
		return nil, errors.New("vocab: nil subword indexer")
	}
	if indexer.BucketCount() > uint64(math.MaxInt-len(words)) {
		return nil, fmt.Errorf("%w: %d buckets", ErrTooManyBuckets, indexer.BucketCount())
	}

	indices, err := index(words)
	if err != nil {
		return nil, err
	}

	return &Subword{words: words, indices: indices, indexer: indexer}, nil
}

// Indexer returns the n-gram indexer.
func (v *Subword) Indexer() subword.Indexer { return v.indexer }

// WordIndices implements Vocab. Known words yield a SingleIndex; all other
// words yield the bucket rows of their bracketed n-grams.
func (v *Subword) WordIndices(word string) (Indices, bool) {
	if idx, ok := v.indices[word]; ok {
		return SingleIndex(idx), true
	}

	indices := v.SubwordIndices(word)
	if len(indices) == 0 {
		return nil, false
	}
	return MultiIndex(indices), true
}

// SubwordIndices returns the bucket rows of the n-grams of the bracketed word,
// regardless of whether the word is in the vocabulary.
func (v *Subword) SubwordIndices(word string) []int {
	buckets := v.indexer.Indices(subword.Bracket(word))

	offset := len(v.words)
	indices := make([]int, len(buckets))
	for i, b := range buckets {
		indices[i] = int(b) + offset
	}
	return indices
}

// WordIndex implements Vocab.
func (v *Subword) WordIndex(word string) (int, bool) {
	idx, ok := v.indices[word]
	return idx, ok
}

// Words implements Vocab.
func (v *Subword) Words() []string { return v.words }

// Len implements Vocab.
func (v *Subword) Len() int { return len(v.words) }

// TotalRows implements Vocab.
func (v *Subword) TotalRows() int {
	return len(v.words) + int(v.indexer.BucketCount())
}
