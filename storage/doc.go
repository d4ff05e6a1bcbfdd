// Package storage holds dense row-major float32 embedding matrices.
//
// Two backings implement Storage:
//
//   - Array owns its data and can be mutated in place (normalization).
//   - MmapArray is a read-only view of a memory-mapped file region. Rows are
//     slices into the mapping; they become invalid once the mapping is closed.
//
// The set of backings is closed: Storage cannot be implemented outside this
// package.
package storage
