// Package wordvec loads, stores and queries word embeddings.
//
// Embeddings combine a vocabulary with an embedding matrix. The matrix is
// either owned by the process or memory-mapped from a file, and the
// vocabulary either knows its words only or falls back to hashed subword
// n-grams, so the same query API serves all combinations.
//
// # Quick Start
//
//	e, err := wordvec.ReadFile("vectors.r2v", wordvec.FormatRust2Vec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Close()
//
//	results, _ := e.SimilarWord("berlin", 10)
//	analogies, _ := e.Analogy("paris", "france", "berlin", 10)
//
// # Formats
//
//	rust2vec       chunked container, read into memory
//	rust2vec_mmap  chunked container, matrix mapped from the file
//	word2vec       binary word2vec
//	text           one word and its vector per line
//	textdims       text with a "<words> <dims>" header
//	fasttext       fastText binary model (read only)
//
// Files ending in .zst or .lz4 are transparently (de)compressed, except for
// rust2vec_mmap.
//
// # Concurrency
//
// All queries may run concurrently. Normalize mutates the matrix in place
// and must not overlap with any other call.
package wordvec
