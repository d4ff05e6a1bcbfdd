package storage

import (
	"fmt"

	"github.com/hupe1980/wordvec/internal/mmap"
)

// MmapArray is a read-only matrix backed by a mapped file region.
type MmapArray struct {
	region *mmap.Region
	data   []float32
	rows   int
	dims   int
}

// NewMmapArray views region as a rows x dims matrix. The region must start at
// a multiple of 4 bytes and hold exactly rows*dims float32 values.
//
// The MmapArray does not own the mapping unless Close is called on it.
func NewMmapArray(region *mmap.Region, rows, dims int) (*MmapArray, error) {
	if rows < 0 || dims < 0 {
		return nil, checkShape(rows, dims, 0)
	}
	if region.Offset()%4 != 0 {
		return nil, fmt.Errorf("%w: region offset %d", ErrMmapAlignmentViolation, region.Offset())
	}

	data, err := float32View(region.Bytes(), rows*dims)
	if err != nil {
		return nil, err
	}

	return &MmapArray{region: region, data: data, rows: rows, dims: dims}, nil
}

// Shape implements Storage.
func (m *MmapArray) Shape() (int, int) { return m.rows, m.dims }

// Row implements Storage.
func (m *MmapArray) Row(i int) ([]float32, error) {
	if err := checkRow(i, m.rows); err != nil {
		return nil, err
	}
	if m.data == nil && m.dims != 0 {
		return nil, mmap.ErrClosed
	}
	return m.data[i*m.dims : (i+1)*m.dims : (i+1)*m.dims], nil
}

// Mutable implements Storage. Mapped matrices are never mutable.
func (m *MmapArray) Mutable() (*Array, bool) { return nil, false }

// Advise forwards an access pattern hint to the kernel.
func (m *MmapArray) Advise(pattern mmap.AccessPattern) error {
	return m.region.Advise(pattern)
}

// Close releases the underlying mapping. Rows must not be used afterwards.
func (m *MmapArray) Close() error {
	m.data = nil
	return m.region.Close()
}

func (*MmapArray) sealed() {}
