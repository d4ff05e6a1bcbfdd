package storage

import (
	"github.com/viterin/vek/vek32"
)

// Array is an owned, mutable row-major matrix.
type Array struct {
	data []float32
	rows int
	dims int
}

// NewArray allocates a zeroed rows x dims matrix.
func NewArray(rows, dims int) (*Array, error) {
	if rows < 0 || dims < 0 {
		return nil, checkShape(rows, dims, 0)
	}
	return &Array{data: make([]float32, rows*dims), rows: rows, dims: dims}, nil
}

// NewArrayFromData wraps data as a rows x dims matrix without copying.
func NewArrayFromData(data []float32, rows, dims int) (*Array, error) {
	if err := checkShape(rows, dims, len(data)); err != nil {
		return nil, err
	}
	return &Array{data: data, rows: rows, dims: dims}, nil
}

// Shape implements Storage.
func (a *Array) Shape() (int, int) { return a.rows, a.dims }

// Row implements Storage.
func (a *Array) Row(i int) ([]float32, error) {
	if err := checkRow(i, a.rows); err != nil {
		return nil, err
	}
	return a.data[i*a.dims : (i+1)*a.dims : (i+1)*a.dims], nil
}

// Mutable implements Storage.
func (a *Array) Mutable() (*Array, bool) { return a, true }

// Data returns the backing buffer in row-major order.
func (a *Array) Data() []float32 { return a.data }

// SetRow copies v into row i.
func (a *Array) SetRow(i int, v []float32) error {
	if err := checkRow(i, a.rows); err != nil {
		return err
	}
	if len(v) != a.dims {
		return checkShape(1, a.dims, len(v))
	}
	copy(a.data[i*a.dims:], v)
	return nil
}

// NormalizeRows divides every row by its L2 norm in place and returns the
// norms. Rows with a zero norm are left unchanged and report 0.
func (a *Array) NormalizeRows() []float32 {
	norms := make([]float32, a.rows)
	if a.dims == 0 {
		return norms
	}
	for i := range a.rows {
		row := a.data[i*a.dims : (i+1)*a.dims]
		norm := vek32.Norm(row)
		if norm != 0 {
			vek32.DivNumber_Inplace(row, norm)
		}
		norms[i] = norm
	}
	return norms
}

func (*Array) sealed() {}
