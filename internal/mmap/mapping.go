package mmap

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"
)

// Mapping is a read-only memory mapping of a byte range of a file.
type Mapping struct {
	mapped []byte // granularity-aligned area handed to the OS
	data   []byte // requested range inside mapped
	offset int64  // file offset of data[0]

	closed atomic.Bool
	unmap  func([]byte) error
}

// MapRange maps size bytes of f starting at offset. The range must lie
// within the file. The caller keeps ownership of f.
func MapRange(f *os.File, offset, size int64) (*Mapping, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if offset < 0 || size < 0 || offset > fi.Size()-size {
		return nil, fmt.Errorf("%w: range [%d, %d+%d) of a %d byte file", ErrOutOfBounds, offset, offset, size, fi.Size())
	}
	if size == 0 {
		return &Mapping{offset: offset}, nil
	}

	start := offset - offset%granularity
	delta := offset - start
	if size > math.MaxInt-delta {
		return nil, ErrInvalidSize
	}

	mapped, unmap, err := osMap(f, start, int(delta+size))
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", f.Name(), err)
	}

	return &Mapping{
		mapped: mapped,
		data:   mapped[delta:],
		offset: offset,
		unmap:  unmap,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.mapped != nil {
		return m.unmap(m.mapped)
	}
	return nil
}

// Offset returns the file offset of the first mapped byte.
func (m *Mapping) Offset() int64 { return m.offset }

// Size returns the number of mapped bytes.
func (m *Mapping) Size() int { return len(m.data) }

// Bytes returns the mapped bytes, or nil after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Advise hints the kernel how the mapping will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.mapped, pattern)
}
