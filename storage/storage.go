package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned for row indices outside [0, rows).
	ErrIndexOutOfRange = errors.New("storage: row index out of range")

	// ErrMutationOnReadOnlyStorage is returned when mutating a mapped matrix.
	ErrMutationOnReadOnlyStorage = errors.New("storage: mutation of read-only storage")

	// ErrNonContiguousStorage is returned when a buffer does not hold exactly rows*dims values.
	ErrNonContiguousStorage = errors.New("storage: data is not a contiguous rows x dims matrix")

	// ErrMmapAlignmentViolation is returned when a mapped region is not float32 aligned
	// or its length does not match the matrix shape.
	ErrMmapAlignmentViolation = errors.New("storage: mapped region violates alignment")
)

// Storage is an embedding matrix.
type Storage interface {
	// Shape returns the number of rows and the row width.
	Shape() (rows, dims int)

	// Row returns row i. The slice aliases the matrix and must not be
	// retained past the lifetime of the storage.
	Row(i int) ([]float32, error)

	// Mutable returns the owned matrix, or false for read-only storage.
	Mutable() (*Array, bool)

	sealed()
}

// Rows returns the number of rows of s.
func Rows(s Storage) int {
	rows, _ := s.Shape()
	return rows
}

// Dims returns the row width of s.
func Dims(s Storage) int {
	_, dims := s.Shape()
	return dims
}

func checkRow(i, rows int) error {
	if i < 0 || i >= rows {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, rows)
	}
	return nil
}

func checkShape(rows, dims, n int) error {
	if rows < 0 || dims < 0 {
		return fmt.Errorf("%w: negative shape %dx%d", ErrNonContiguousStorage, rows, dims)
	}
	if dims != 0 && rows > n/dims {
		return fmt.Errorf("%w: %d values for %dx%d", ErrNonContiguousStorage, n, rows, dims)
	}
	if rows*dims != n {
		return fmt.Errorf("%w: %d values for %dx%d", ErrNonContiguousStorage, n, rows, dims)
	}
	return nil
}
