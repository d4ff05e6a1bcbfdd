// Package testutil provides helpers for wordvec tests and benchmarks.
//
// It generates reproducible vocabularies and vectors and computes exact
// cosine neighbors to check similarity queries against.
//
//	rng := testutil.NewRNG(4711)
//	words := rng.Words(1000)
//	vecs := rng.GaussianVectors(1000, 64)
//	want := testutil.BruteForceSimilar(words, vecs, vecs[0], 10)
package testutil
