// Package vocab maps words to rows of an embedding matrix.
//
// Two vocabularies are provided. Simple only knows its words. Subword
// falls back to hashed n-gram buckets for unknown words, so every word
// resolves to at least one row.
package vocab

import (
	"errors"
	"fmt"
)

// ErrDuplicateWord is returned when a vocabulary is built with a repeated word.
var ErrDuplicateWord = errors.New("vocab: duplicate word")

// Indices is the result of a vocabulary lookup: either a SingleIndex or a
// MultiIndex.
type Indices interface {
	indices()
}

// SingleIndex is the row of a word that is in the vocabulary.
type SingleIndex int

// MultiIndex are the bucket rows of an unknown word. Rows may repeat.
type MultiIndex []int

func (SingleIndex) indices() {}
func (MultiIndex) indices()  {}

// Vocab is a vocabulary.
type Vocab interface {
	// WordIndices resolves word to one or more matrix rows.
	WordIndices(word string) (Indices, bool)

	// WordIndex returns the row of word if it is in the vocabulary.
	WordIndex(word string) (int, bool)

	// Words returns the words in row order.
	Words() []string

	// Len returns the number of words.
	Len() int

	// TotalRows returns the number of matrix rows the vocabulary addresses.
	TotalRows() int
}

// index builds the word → row lookup and rejects duplicates.
func index(words []string) (map[string]int, error) {
	indices := make(map[string]int, len(words))
	for i, w := range words {
		if prev, ok := indices[w]; ok {
			return nil, fmt.Errorf("%w: %q at rows %d and %d", ErrDuplicateWord, w, prev, i)
		}
		indices[w] = i
	}
	return indices, nil
}

// Simple is a vocabulary of exact words.
type Simple struct {
	words   []string
	indices map[string]int
}

// NewSimple creates a vocabulary whose rows follow the order of words.
func NewSimple(words []string) (*Simple, error) {
	indices, err := index(words)
	if err != nil {
		return nil, err
	}
	return &Simple{words: words, indices: indices}, nil
}

// WordIndices implements Vocab.
func (v *Simple) WordIndices(word string) (Indices, bool) {
	idx, ok := v.indices[word]
	if !ok {
		return nil, false
	}
	return SingleIndex(idx), true
}

// WordIndex implements Vocab.
func (v *Simple) WordIndex(word string) (int, bool) {
	idx, ok := v.indices[word]
	return idx, ok
}

// Words implements Vocab.
func (v *Simple) Words() []string { return v.words }

// Len implements Vocab.
func (v *Simple) Len() int { return len(v.words) }

// TotalRows implements Vocab.
func (v *Simple) TotalRows() int { return len(v.words) }
