package topk

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scored struct {
	word  string
	score float32
}

func byScoreThenWord(a, b scored) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.word < b.word
}

func greater(a, b int) bool { return a > b }

func TestHeap_Bounded(t *testing.T) {
	h := New(3, greater)
	for _, v := range []int{5, 1, 9, 3, 7, 2} {
		h.Push(v)
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 3, h.Cap())

	worst, ok := h.Worst()
	require.True(t, ok)
	assert.Equal(t, 5, worst)

	assert.Equal(t, []int{9, 7, 5}, h.Sorted())
	assert.Equal(t, 3, h.Len(), "Sorted must not drain the heap")
}

func TestHeap_PushReportsRetention(t *testing.T) {
	h := New(2, greater)
	assert.True(t, h.Push(1))
	assert.True(t, h.Push(2))
	assert.False(t, h.Push(0))
	assert.True(t, h.Push(3))
	assert.Equal(t, []int{3, 2}, h.Sorted())
}

func TestHeap_ZeroCapacity(t *testing.T) {
	h := New(0, greater)
	assert.False(t, h.Push(1))
	assert.Empty(t, h.Sorted())

	_, ok := h.Worst()
	assert.False(t, ok)
}

func TestHeap_Reset(t *testing.T) {
	h := New(2, greater)
	h.Push(1)
	h.Reset()
	assert.Zero(t, h.Len())
}

func TestHeap_TieBreak(t *testing.T) {
	items := []scored{
		{"c", 0.5}, {"a", 0.5}, {"d", 0.9}, {"b", 0.5}, {"e", 0.1},
	}

	got := Select(slices.Values(items), 3, byScoreThenWord)
	assert.Equal(t, []scored{{"d", 0.9}, {"a", 0.5}, {"b", 0.5}}, got)
}

func TestSelect_MatchesSort(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		n := rng.IntN(200)
		k := rng.IntN(20)

		values := make([]int, n)
		for i := range values {
			values[i] = rng.IntN(100)
		}

		expected := slices.Clone(values)
		slices.SortFunc(expected, func(a, b int) int { return cmp.Compare(b, a) })
		expected = expected[:min(k, n)]

		got := Select(slices.Values(values), k, greater)
		if len(expected) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, expected, got)
	}
}
