// Package subword generates character n-grams and maps them to embedding buckets.
//
// # N-grams
//
// NGrams iterates over every contiguous subsequence of a rune slice whose
// length lies in [minN, maxN]. For each start position the longest window is
// produced first. Callers must only rely on completeness, not on order.
//
// # Indexers
//
// An Indexer hashes the n-grams of a (bracketed) word to bucket indices:
//
//   - BucketIndexer: FNV-1a 64 over the n-gram length and its code points,
//     masked to 2^bucketExp buckets.
//   - FastTextIndexer: the fastText FNV-1a 32 hash over UTF-8 bytes, modulo
//     the bucket count.
//
// Bucket assignments are a compatibility surface: persisted embedding
// matrices are only meaningful with the exact same hashing.
package subword
