// Package chunk reads and writes the chunked embedding container.
//
// # File Layout
//
// A container starts with a preamble followed by a sequence of chunks:
//
//	magic      [4]byte  "R2VC"
//	version    uint32   1
//	n_chunks   uint32
//	chunk_ids  [n_chunks]uint32
//
// Every chunk starts with its identifier (uint32) and its byte length
// (uint64). The length counts every byte after the length field, including
// alignment padding. All integers and floats are little-endian.
//
// # Typed Chunks
//
// Storage and norms chunks carry a type id and 1..S padding bytes so that
// the float data starts at a multiple of the element size S. Padding is
// never zero bytes long: S - (pos mod S) is always skipped, which keeps the
// decoder free of special cases.
//
// # Mapped Storage
//
// The dense storage chunk can either be copied into memory (ReadStorage) or
// located for memory mapping (ReadStorageLayout). The bytes on disk are the
// same in both cases.
package chunk
