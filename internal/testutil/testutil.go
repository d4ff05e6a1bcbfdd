package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/viterin/vek/vek32"
)

// Neighbor is an exact similarity result.
type Neighbor struct {
	Word       string
	Similarity float64
}

// RNG is a seeded random source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // reproducible test data
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

const letters = "abcdefghijklmnopqrstuvwxyzäöüß"

// Words returns n distinct lowercase words of 3 to 10 runes, including
// non-ASCII letters.
func (r *RNG) Words(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.words(n)
}

func (r *RNG) words(n int) []string {
	alphabet := []rune(letters)
	seen := make(map[string]struct{}, n)
	words := make([]string, 0, n)

	for len(words) < n {
		runes := make([]rune, 3+r.rand.Intn(8))
		for i := range runes {
			runes[i] = alphabet[r.rand.Intn(len(alphabet))]
		}

		w := string(runes)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}

	return words
}

// Table returns a random TOML-compatible document nested up to depth
// levels. Values are strings, int64, float64, bool, non-empty []any of
// int64 and nested tables, matching what a TOML decoder produces.
func (r *RNG) Table(depth int) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.table(depth)
}

func (r *RNG) table(depth int) map[string]any {
	keys := r.words(1 + r.rand.Intn(5))
	table := make(map[string]any, len(keys))

	for _, key := range keys {
		kind := r.rand.Intn(6)
		if depth <= 0 && kind == 5 {
			kind = 0
		}

		switch kind {
		case 0:
			table[key] = r.words(1)[0]
		case 1:
			table[key] = r.rand.Int63() - 1<<62
		case 2:
			table[key] = r.rand.NormFloat64() * 100
		case 3:
			table[key] = r.rand.Intn(2) == 1
		case 4:
			values := make([]any, 1+r.rand.Intn(4))
			for i := range values {
				values[i] = int64(r.rand.Intn(1000))
			}
			table[key] = values
		default:
			table[key] = r.table(depth - 1)
		}
	}

	return table
}

// GaussianVectors generates random vectors with values from a standard
// normal distribution. The vectors share one backing array.
func (r *RNG) GaussianVectors(num, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = float32(r.rand.NormFloat64())
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVectors generates L2-normalized random vectors, uniform on the
// hypersphere.
func (r *RNG) UnitVectors(num, dimensions int) [][]float32 {
	vectors := r.GaussianVectors(num, dimensions)
	for _, vec := range vectors {
		if norm := vek32.Norm(vec); norm != 0 {
			vek32.DivNumber_Inplace(vec, norm)
		}
	}
	return vectors
}

// ClusteredVectors generates vectors around random unit centroids, so that
// queries have a few clear neighbors.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float32) [][]float32 {
	centroids := r.UnitVectors(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dim)
	vectors := make([][]float32, num)

	for i := range num {
		centroid := centroids[i%clusters]
		vec := data[i*dim : (i+1)*dim]
		for j := range dim {
			vec[j] = centroid[j] + float32(r.rand.NormFloat64())*spread
		}
		vectors[i] = vec
	}

	return vectors
}

// Flatten copies vectors into one row-major slice.
func Flatten(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	out := make([]float32, 0, len(vectors)*len(vectors[0]))
	for _, v := range vectors {
		out = append(out, v...)
	}
	return out
}

// BruteForceSimilar ranks all words by exact cosine similarity to query in
// float64, breaking ties by word. Zero vectors score 0.
func BruteForceSimilar(words []string, vectors [][]float32, query []float32, k int) []Neighbor {
	qNorm := norm64(query)

	results := make([]Neighbor, len(words))
	for i, v := range vectors {
		var dot float64
		for j := range v {
			dot += float64(query[j]) * float64(v[j])
		}

		var sim float64
		if n := norm64(v); n != 0 && qNorm != 0 {
			sim = dot / (n * qNorm)
		}
		results[i] = Neighbor{Word: words[i], Similarity: sim}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Word < results[j].Word
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Recall returns the fraction of expected words found in actual.
func Recall(expected, actual []string) float64 {
	if len(expected) == 0 {
		return 1
	}

	found := make(map[string]struct{}, len(actual))
	for _, w := range actual {
		found[w] = struct{}{}
	}

	var hits int
	for _, w := range expected {
		if _, ok := found[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(expected))
}

func norm64(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
