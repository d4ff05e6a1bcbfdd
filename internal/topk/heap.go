// Package topk selects the k best items of a stream with a bounded heap.
package topk

import (
	"iter"
	"slices"
)

// Heap keeps the k best items pushed into it. better reports whether a
// ranks strictly before b; it must be a strict weak ordering.
//
// The heap is rooted at the worst retained item so that a full heap can
// reject or replace in O(log k). It is not safe for concurrent use.
type Heap[T any] struct {
	better func(a, b T) bool
	k      int
	items  []T
}

// New creates a heap that retains at most k items.
func New[T any](k int, better func(a, b T) bool) *Heap[T] {
	k = max(k, 0)
	return &Heap[T]{
		better: better,
		k:      k,
		items:  make([]T, 0, min(k, 1024)),
	}
}

// Len returns the number of retained items.
func (h *Heap[T]) Len() int { return len(h.items) }

// Cap returns k.
func (h *Heap[T]) Cap() int { return h.k }

// Reset drops all items and keeps the backing storage.
func (h *Heap[T]) Reset() { h.items = h.items[:0] }

// Worst returns the lowest ranked retained item.
func (h *Heap[T]) Worst() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.items[0], true
}

// Push offers item to the heap. It reports whether item was retained.
func (h *Heap[T]) Push(item T) bool {
	if h.k == 0 {
		return false
	}

	if len(h.items) < h.k {
		h.items = append(h.items, item)
		h.siftUp(len(h.items) - 1)
		return true
	}

	if !h.better(item, h.items[0]) {
		return false
	}
	h.items[0] = item
	h.siftDown(0)
	return true
}

// Sorted returns the retained items, best first. The heap is left intact.
func (h *Heap[T]) Sorted() []T {
	out := slices.Clone(h.items)
	slices.SortFunc(out, func(a, b T) int {
		switch {
		case h.better(a, b):
			return -1
		case h.better(b, a):
			return 1
		default:
			return 0
		}
	})
	return out
}

// Select returns the k best items of seq, best first.
func Select[T any](seq iter.Seq[T], k int, better func(a, b T) bool) []T {
	h := New(k, better)
	for item := range seq {
		h.Push(item)
	}
	return h.Sorted()
}

// above reports whether the item at i belongs above the item at j, i.e.
// whether it ranks worse.
func (h *Heap[T]) above(i, j int) bool {
	return h.better(h.items[j], h.items[i])
}

func (h *Heap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.above(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && h.above(right, left) {
			child = right
		}
		if !h.above(child, i) {
			break
		}
		h.items[i], h.items[child] = h.items[child], h.items[i]
		i = child
	}
}
