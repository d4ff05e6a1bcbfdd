package wordvec

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/viterin/vek/vek32"

	"github.com/hupe1980/wordvec/internal/topk"
)

// WordSimilarity is a query result.
type WordSimilarity struct {
	Word       string  `json:"word"`
	Similarity float32 `json:"similarity"`
}

// rankBefore orders results by descending similarity, then ascending word.
func rankBefore(a, b WordSimilarity) bool {
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	return a.Word < b.Word
}

// Similar returns the k vocabulary words most similar to query by cosine
// similarity.
func (e *Embeddings) Similar(query []float32, k int) ([]WordSimilarity, error) {
	start := time.Now()
	results, err := e.similar(query, k, nil)
	e.record(QueryKindSimilar, k, len(results), start, err)
	return results, err
}

// SimilarWord returns the k vocabulary words most similar to word, excluding
// word itself.
func (e *Embeddings) SimilarWord(word string, k int) ([]WordSimilarity, error) {
	start := time.Now()
	results, err := e.similarWord(word, k)
	e.record(QueryKindSimilarWord, k, len(results), start, err)
	return results, err
}

func (e *Embeddings) similarWord(word string, k int) ([]WordSimilarity, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	query, ok := e.Embedding(word)
	if !ok {
		return nil, &WordNotFoundError{Word: word}
	}

	return e.similar(query, k, e.exclude(word))
}

// Analogy answers "a is to b as c is to ?" by ranking the words closest to
// b - a + c. The words a, b and c are excluded from the results.
func (e *Embeddings) Analogy(a, b, c string, k int) ([]WordSimilarity, error) {
	start := time.Now()
	results, err := e.analogy(a, b, c, k)
	e.record(QueryKindAnalogy, k, len(results), start, err)
	return results, err
}

func (e *Embeddings) analogy(a, b, c string, k int) ([]WordSimilarity, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	var vecs [3][]float32
	for i, w := range [3]string{a, b, c} {
		vec, ok := e.Embedding(w)
		if !ok {
			return nil, &WordNotFoundError{Word: w}
		}
		vecs[i] = vec
	}

	query := vek32.Sub(vecs[1], vecs[0])
	vek32.Add_Inplace(query, vecs[2])

	return e.similar(query, k, e.exclude(a, b, c))
}

// exclude returns the rows of the given vocabulary words.
func (e *Embeddings) exclude(words ...string) *roaring.Bitmap {
	skip := roaring.New()
	for _, w := range words {
		if idx, ok := e.vocab.WordIndex(w); ok {
			skip.Add(uint32(idx)) //nolint:gosec // vocabulary rows fit in uint32
		}
	}
	return skip
}

// similar ranks all vocabulary rows not in skip against query.
func (e *Embeddings) similar(query []float32, k int, skip *roaring.Bitmap) ([]WordSimilarity, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if len(query) != e.Dims() {
		return nil, &ErrDimensionMismatch{Expected: e.Dims(), Actual: len(query)}
	}

	q := slices.Clone(query)
	qNorm := vek32.Norm(q)
	if qNorm != 0 {
		vek32.DivNumber_Inplace(q, qNorm)
	}

	words := e.vocab.Words()
	heap := topk.New(min(k, len(words)), rankBefore)

	for i, w := range words {
		if skip != nil && skip.Contains(uint32(i)) { //nolint:gosec // vocabulary rows fit in uint32
			continue
		}

		row, err := e.storage.Row(i)
		if err != nil {
			return nil, err
		}

		sim := vek32.Dot(q, row)
		if !e.normalized {
			if n := vek32.Norm(row); n != 0 {
				sim /= n
			} else {
				sim = 0
			}
		}
		if math.IsNaN(float64(sim)) {
			continue
		}

		heap.Push(WordSimilarity{Word: w, Similarity: sim})
	}

	return heap.Sorted(), nil
}

func (e *Embeddings) record(kind string, k, results int, start time.Time, err error) {
	e.metrics.RecordQuery(kind, k, time.Since(start), err)
	e.logger.LogQuery(context.Background(), kind, k, results, err)
}
