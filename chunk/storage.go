package chunk

import (
	"fmt"

	"github.com/hupe1980/wordvec/internal/conv"
	"github.com/hupe1980/wordvec/storage"
)

// StorageLayout locates the float data of a dense storage chunk.
type StorageLayout struct {
	// Offset is the absolute position of the first float. It is a multiple of 4.
	Offset uint64
	// Size is the length of the float data in bytes.
	Size uint64
	Rows int
	Dims int
}

// StorageChunkSize returns the number of bytes WriteStorage writes for a
// rows x dims matrix when the chunk starts at pos.
func StorageChunkSize(pos uint64, rows, dims int) uint64 {
	// identifier, length, rows, dims, type id
	header := uint64(4 + 8 + 8 + 4 + 4)
	pad := Padding(pos+header, 4)
	return header + pad + uint64(rows)*uint64(dims)*4 //nolint:gosec // shapes are non-negative
}

// NormsChunkSize returns the number of bytes WriteNorms writes for n norms
// when the chunk starts at pos.
func NormsChunkSize(pos uint64, n int) uint64 {
	// identifier, length, n, type id
	header := uint64(4 + 8 + 8 + 4)
	pad := Padding(pos+header, 4)
	return header + pad + uint64(n)*4 //nolint:gosec // n is non-negative
}

// WriteStorage writes s as a dense StorageDense chunk. Any storage can be
// written, including memory-mapped storage.
func (w *Writer) WriteStorage(s storage.Storage) error {
	rows, dims := s.Shape()
	d, err := conv.IntToUint32(dims)
	if err != nil {
		return err
	}

	total := StorageChunkSize(w.pos, rows, dims)
	if err := w.writeChunkHeader(IdentifierStorageDense, total-12); err != nil {
		return err
	}
	if err := w.writeUint64(uint64(rows)); err != nil { //nolint:gosec // rows is non-negative
		return err
	}
	if err := w.writeUint32(d); err != nil {
		return err
	}
	if err := w.writeUint32(uint32(TypeIDFloat32)); err != nil {
		return err
	}
	if err := w.writePadding(4); err != nil {
		return err
	}

	scratch := newFloatScratch()
	for i := range rows {
		row, err := s.Row(i)
		if err != nil {
			return err
		}
		if err := w.writeFloats(row, scratch); err != nil {
			return err
		}
	}
	return nil
}

// WriteNorms writes a Norms chunk.
func (w *Writer) WriteNorms(norms []float32) error {
	total := NormsChunkSize(w.pos, len(norms))
	if err := w.writeChunkHeader(IdentifierNorms, total-12); err != nil {
		return err
	}
	if err := w.writeUint64(uint64(len(norms))); err != nil {
		return err
	}
	if err := w.writeUint32(uint32(TypeIDFloat32)); err != nil {
		return err
	}
	if err := w.writePadding(4); err != nil {
		return err
	}
	return w.writeFloats(norms, newFloatScratch())
}

// readStorageHeader reads everything of a StorageDense chunk up to its float
// data and validates the declared length against the shape.
func (r *Reader) readStorageHeader() (StorageLayout, error) {
	length, err := r.readChunkHeader(IdentifierStorageDense)
	if err != nil {
		return StorageLayout{}, err
	}
	start := r.pos

	rawRows, err := r.readUint64()
	if err != nil {
		return StorageLayout{}, err
	}
	rawDims, err := r.readUint32()
	if err != nil {
		return StorageLayout{}, err
	}
	if err := r.readTypeID(); err != nil {
		return StorageLayout{}, err
	}

	rows, err := conv.Uint64ToInt(rawRows)
	if err != nil {
		return StorageLayout{}, err
	}
	dims, err := conv.Uint32ToInt(rawDims)
	if err != nil {
		return StorageLayout{}, err
	}
	n, err := conv.MulInt(rows, dims)
	if err != nil {
		return StorageLayout{}, err
	}
	size, err := conv.MulInt(n, 4)
	if err != nil {
		return StorageLayout{}, err
	}

	if got := r.pos - start + uint64(size); got != length { //nolint:gosec // size is non-negative
		return StorageLayout{}, fmt.Errorf("%w: StorageDense chunk declares %d bytes, %dx%d matrix needs %d",
			ErrLengthMismatch, length, rows, dims, got)
	}

	return StorageLayout{Offset: r.pos, Size: uint64(size), Rows: rows, Dims: dims}, nil //nolint:gosec // size is non-negative
}

// ReadStorage reads a StorageDense chunk into memory.
func (r *Reader) ReadStorage() (*storage.Array, error) {
	layout, err := r.readStorageHeader()
	if err != nil {
		return nil, err
	}

	data, err := r.readFloatArray(layout.Rows * layout.Dims)
	if err != nil {
		return nil, err
	}
	return storage.NewArrayFromData(data, layout.Rows, layout.Dims)
}

// ReadStorageLayout locates the float data of a StorageDense chunk and
// skips past it.
func (r *Reader) ReadStorageLayout() (StorageLayout, error) {
	layout, err := r.readStorageHeader()
	if err != nil {
		return StorageLayout{}, err
	}
	if layout.Offset%4 != 0 {
		return StorageLayout{}, fmt.Errorf("%w: data offset %d", storage.ErrMmapAlignmentViolation, layout.Offset)
	}
	if err := r.skip(layout.Size); err != nil {
		return StorageLayout{}, err
	}
	return layout, nil
}

// ReadNorms reads a Norms chunk.
func (r *Reader) ReadNorms() ([]float32, error) {
	length, err := r.readChunkHeader(IdentifierNorms)
	if err != nil {
		return nil, err
	}
	start := r.pos

	raw, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	if err := r.readTypeID(); err != nil {
		return nil, err
	}

	n, err := conv.Uint64ToInt(raw)
	if err != nil {
		return nil, err
	}
	size, err := conv.MulInt(n, 4)
	if err != nil {
		return nil, err
	}
	if got := r.pos - start + uint64(size); got != length { //nolint:gosec // size is non-negative
		return nil, fmt.Errorf("%w: Norms chunk declares %d bytes, %d norms need %d", ErrLengthMismatch, length, n, got)
	}

	return r.readFloatArray(n)
}
