package subword

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrInvalidNgramRange is returned when minN is zero or larger than maxN.
	ErrInvalidNgramRange = errors.New("subword: invalid n-gram range")

	// ErrInvalidBucketExponent is returned when the bucket exponent exceeds 64.
	ErrInvalidBucketExponent = errors.New("subword: bucket exponent must be in [0, 64]")
)

// ValidateRange checks the n-gram length bounds.
func ValidateRange(minN, maxN int) error {
	if minN <= 0 {
		return fmt.Errorf("%w: minimum length must be positive, got %d", ErrInvalidNgramRange, minN)
	}
	if minN > maxN {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidNgramRange, minN, maxN)
	}
	return nil
}

// NGrams iterates over the n-grams of a sequence.
//
// The returned slices alias the input sequence and must not be modified.
type NGrams[T any] struct {
	minN  int
	maxN  int
	seq   []T
	ngram []T
}

// NewNGrams creates an iterator over the n-grams of seq with lengths in [minN, maxN].
func NewNGrams[T any](seq []T, minN, maxN int) (*NGrams[T], error) {
	if err := ValidateRange(minN, maxN); err != nil {
		return nil, err
	}
	return &NGrams[T]{
		minN:  minN,
		maxN:  maxN,
		seq:   seq,
		ngram: seq[:min(maxN, len(seq))],
	}, nil
}

// Next returns the next n-gram. The second result is false once the
// iterator is exhausted.
func (g *NGrams[T]) Next() ([]T, bool) {
	if len(g.ngram) < g.minN {
		if len(g.seq) <= g.minN {
			return nil, false
		}

		g.seq = g.seq[1:]
		g.ngram = g.seq[:min(g.maxN, len(g.seq))]
	}

	ngram := g.ngram
	g.ngram = g.ngram[:len(g.ngram)-1]

	return ngram, true
}

// All returns the remaining n-grams as an iterator.
func (g *NGrams[T]) All() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for {
			ngram, ok := g.Next()
			if !ok || !yield(ngram) {
				return
			}
		}
	}
}

// Count returns the number of n-grams with lengths in [minN, maxN] of a
// sequence of length n.
func Count(n, minN, maxN int) int {
	total := 0
	for l := minN; l <= min(maxN, n); l++ {
		total += n - l + 1
	}
	return total
}
