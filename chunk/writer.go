package chunk

import (
	"encoding/binary"
	"io"
	"math"
)

// floatBatch is the number of floats encoded per Write call.
const floatBatch = 4096

// Writer writes chunks to a stream and tracks the absolute stream position,
// which alignment padding depends on.
type Writer struct {
	w   io.Writer
	pos uint64
	buf [8]byte
}

// NewWriter creates a chunk writer. When w is an io.Seeker its current
// offset is used as the starting position; otherwise the position starts
// at zero.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := &Writer{w: w}

	if s, ok := w.(io.Seeker); ok {
		off, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		cw.pos = uint64(off) //nolint:gosec // offsets returned by Seek are non-negative
	}

	return cw, nil
}

// Pos returns the absolute position of the next byte written.
func (w *Writer) Pos() uint64 { return w.pos }

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.pos += uint64(n) //nolint:gosec // n is non-negative
	return err
}

func (w *Writer) writeUint32(v uint32) error {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	return w.write(w.buf[:4])
}

func (w *Writer) writeUint64(v uint64) error {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	return w.write(w.buf[:8])
}

func (w *Writer) writePadding(size uint64) error {
	var zeros [8]byte
	return w.write(zeros[:Padding(w.pos, size)])
}

func (w *Writer) writeChunkHeader(id Identifier, length uint64) error {
	if err := w.writeUint32(uint32(id)); err != nil {
		return err
	}
	return w.writeUint64(length)
}

// writeFloats encodes values explicitly as little-endian, independent of
// the host byte order.
func (w *Writer) writeFloats(values []float32, scratch []byte) error {
	for len(values) > 0 {
		n := min(len(values), floatBatch)
		b := scratch[:n*4]
		for i, v := range values[:n] {
			binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
		}
		if err := w.write(b); err != nil {
			return err
		}
		values = values[n:]
	}
	return nil
}

func newFloatScratch() []byte {
	return make([]byte, floatBatch*4)
}
