package subword

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

const (
	// BeginOfWord is prepended to a word before n-gram extraction.
	BeginOfWord = '<'
	// EndOfWord is appended to a word before n-gram extraction.
	EndOfWord = '>'

	// MaxBucketExp is the largest supported bucket exponent.
	MaxBucketExp = 64
)

// Bracket surrounds word with the begin- and end-of-word markers.
func Bracket(word string) string {
	return string(BeginOfWord) + word + string(EndOfWord)
}

// Subword is an n-gram together with its bucket.
type Subword struct {
	NGram  string
	Bucket uint64
}

// Indexer maps the n-grams of a string to buckets.
type Indexer interface {
	// Indices returns one bucket per n-gram of s. Duplicates are kept.
	Indices(s string) []uint64

	// Subwords returns every n-gram of s with its bucket.
	Subwords(s string) []Subword

	// BucketCount returns the number of buckets.
	BucketCount() uint64

	// MinN returns the minimum n-gram length.
	MinN() int

	// MaxN returns the maximum n-gram length.
	MaxN() int
}

// BucketIndexer hashes n-grams with FNV-1a 64 into 2^bucketExp buckets.
//
// The hash of an n-gram folds in its length in code points (as a little-endian
// uint64) followed by each code point (as a little-endian uint32).
type BucketIndexer struct {
	minN      int
	maxN      int
	bucketExp uint
	mask      uint64
}

// NewBucketIndexer creates a BucketIndexer.
func NewBucketIndexer(minN, maxN int, bucketExp uint) (*BucketIndexer, error) {
	if err := ValidateRange(minN, maxN); err != nil {
		return nil, err
	}
	if bucketExp > MaxBucketExp {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketExponent, bucketExp)
	}

	mask := ^uint64(0)
	if bucketExp < MaxBucketExp {
		mask = (uint64(1) << bucketExp) - 1
	}

	return &BucketIndexer{
		minN:      minN,
		maxN:      maxN,
		bucketExp: bucketExp,
		mask:      mask,
	}, nil
}

// MinN implements Indexer.
func (b *BucketIndexer) MinN() int { return b.minN }

// MaxN implements Indexer.
func (b *BucketIndexer) MaxN() int { return b.maxN }

// BucketExp returns the bucket exponent.
func (b *BucketIndexer) BucketExp() uint { return b.bucketExp }

// BucketCount implements Indexer. With an exponent of 64 the count saturates
// at the largest uint64.
func (b *BucketIndexer) BucketCount() uint64 {
	if b.bucketExp == MaxBucketExp {
		return ^uint64(0)
	}
	return uint64(1) << b.bucketExp
}

// Indices implements Indexer.
func (b *BucketIndexer) Indices(s string) []uint64 {
	runes := []rune(s)
	ngrams, _ := NewNGrams(runes, b.minN, b.maxN)

	indices := make([]uint64, 0, Count(len(runes), b.minN, b.maxN))
	for ngram := range ngrams.All() {
		indices = append(indices, b.hash(ngram))
	}
	return indices
}

// Subwords implements Indexer.
func (b *BucketIndexer) Subwords(s string) []Subword {
	runes := []rune(s)
	ngrams, _ := NewNGrams(runes, b.minN, b.maxN)

	subwords := make([]Subword, 0, Count(len(runes), b.minN, b.maxN))
	for ngram := range ngrams.All() {
		subwords = append(subwords, Subword{NGram: string(ngram), Bucket: b.hash(ngram)})
	}
	return subwords
}

func (b *BucketIndexer) hash(ngram []rune) uint64 {
	var buf [8]byte

	h := fnv.New64a()
	binary.LittleEndian.PutUint64(buf[:], uint64(len(ngram)))
	_, _ = h.Write(buf[:8])
	for _, r := range ngram {
		binary.LittleEndian.PutUint32(buf[:], uint32(r))
		_, _ = h.Write(buf[:4])
	}

	return h.Sum64() & b.mask
}
