package subword

import (
	"errors"
	"unicode/utf8"
)

// ErrInvalidBucketCount is returned when a fastText indexer has no buckets.
var ErrInvalidBucketCount = errors.New("subword: bucket count must be positive")

const (
	fastTextOffset32 = 2166136261
	fastTextPrime32  = 16777619
)

// FastTextIndexer reproduces the n-gram bucketing of fastText models.
type FastTextIndexer struct {
	minN     int
	maxN     int
	nBuckets uint64
}

// NewFastTextIndexer creates a FastTextIndexer with nBuckets buckets.
func NewFastTextIndexer(minN, maxN int, nBuckets uint64) (*FastTextIndexer, error) {
	if err := ValidateRange(minN, maxN); err != nil {
		return nil, err
	}
	if nBuckets == 0 {
		return nil, ErrInvalidBucketCount
	}
	return &FastTextIndexer{minN: minN, maxN: maxN, nBuckets: nBuckets}, nil
}

// MinN implements Indexer.
func (f *FastTextIndexer) MinN() int { return f.minN }

// MaxN implements Indexer.
func (f *FastTextIndexer) MaxN() int { return f.maxN }

// BucketCount implements Indexer.
func (f *FastTextIndexer) BucketCount() uint64 { return f.nBuckets }

// Indices implements Indexer.
func (f *FastTextIndexer) Indices(s string) []uint64 {
	runes := []rune(s)
	ngrams, _ := NewNGrams(runes, f.minN, f.maxN)

	indices := make([]uint64, 0, Count(len(runes), f.minN, f.maxN))
	for ngram := range ngrams.All() {
		indices = append(indices, uint64(fastTextHash(ngram))%f.nBuckets)
	}
	return indices
}

// Subwords implements Indexer.
func (f *FastTextIndexer) Subwords(s string) []Subword {
	runes := []rune(s)
	ngrams, _ := NewNGrams(runes, f.minN, f.maxN)

	subwords := make([]Subword, 0, Count(len(runes), f.minN, f.maxN))
	for ngram := range ngrams.All() {
		subwords = append(subwords, Subword{
			NGram:  string(ngram),
			Bucket: uint64(fastTextHash(ngram)) % f.nBuckets,
		})
	}
	return subwords
}

// fastTextHash is FNV-1a 32 over the UTF-8 encoding, with every byte
// sign-extended before it is folded in (fastText hashes signed chars).
func fastTextHash(ngram []rune) uint32 {
	var buf [utf8.UTFMax]byte

	h := uint32(fastTextOffset32)
	for _, r := range ngram {
		n := utf8.EncodeRune(buf[:], r)
		for _, b := range buf[:n] {
			h ^= uint32(int32(int8(b)))
			h *= fastTextPrime32
		}
	}
	return h
}
