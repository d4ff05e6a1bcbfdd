package chunk

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
)

// maxPrealloc bounds the elements allocated ahead of reading when the
// stream size is unknown. Larger payloads grow as data arrives.
const maxPrealloc = 1 << 20

// Reader reads chunks from a stream and tracks the absolute stream position.
//
// When the underlying reader is an io.Seeker the total size is known up
// front, which lets oversized chunk lengths fail before any allocation, and
// large payloads can be skipped with a seek instead of being read.
type Reader struct {
	br     *bufio.Reader
	src    io.Reader
	seeker io.Seeker
	pos    uint64
	end    int64 // absolute end of data, -1 when unknown
	buf    [8]byte
}

// NewReader creates a chunk reader.
func NewReader(r io.Reader) (*Reader, error) {
	cr := &Reader{
		br:  bufio.NewReader(r),
		src: r,
		end: -1,
	}

	if s, ok := r.(io.Seeker); ok {
		cur, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		end, err := s.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, err
		}
		if _, err := s.Seek(cur, io.SeekStart); err != nil {
			return nil, err
		}
		cr.seeker = s
		cr.pos = uint64(cur) //nolint:gosec // offsets returned by Seek are non-negative
		cr.end = end
	}

	return cr, nil
}

// Pos returns the absolute position of the next byte read.
func (r *Reader) Pos() uint64 { return r.pos }

// Remaining returns the number of unread bytes, or -1 when unknown.
func (r *Reader) Remaining() int64 {
	if r.end < 0 {
		return -1
	}
	return r.end - int64(r.pos) //nolint:gosec // pos never exceeds end
}

// fits reports whether n more bytes can be present in the stream.
func (r *Reader) fits(n uint64) bool {
	rem := r.Remaining()
	return rem < 0 || n <= uint64(rem)
}

func (r *Reader) read(p []byte) error {
	n, err := io.ReadFull(r.br, p)
	r.pos += uint64(n) //nolint:gosec // n is non-negative
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: unexpected end of data at offset %d", ErrTruncatedData, r.pos)
	}
	return err
}

func (r *Reader) readUint32() (uint32, error) {
	if err := r.read(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

func (r *Reader) readUint64() (uint64, error) {
	if err := r.read(r.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.buf[:8]), nil
}

// skip advances the stream by n bytes. Bytes beyond the read buffer are
// skipped with a seek when the source supports it.
func (r *Reader) skip(n uint64) error {
	if !r.fits(n) {
		return fmt.Errorf("%w: cannot skip %d bytes at offset %d", ErrTruncatedData, n, r.pos)
	}

	buffered := uint64(r.br.Buffered()) //nolint:gosec // Buffered is non-negative
	if r.seeker == nil || n <= buffered || n > math.MaxInt64 {
		for n > 0 {
			step := min(n, uint64(math.MaxInt32))
			d, err := r.br.Discard(int(step)) //nolint:gosec // step fits in int32
			r.pos += uint64(d)                //nolint:gosec // d is non-negative
			if err != nil {
				return fmt.Errorf("%w: unexpected end of data at offset %d", ErrTruncatedData, r.pos)
			}
			n -= step
		}
		return nil
	}

	if _, err := r.br.Discard(int(buffered)); err != nil { //nolint:gosec // buffered fits in int
		return err
	}
	if _, err := r.seeker.Seek(int64(n-buffered), io.SeekCurrent); err != nil { //nolint:gosec // checked above
		return err
	}
	r.br.Reset(r.src)
	r.pos += n
	return nil
}

// readChunkHeader reads the identifier and length of the next chunk and
// checks the identifier against the expected one.
func (r *Reader) readChunkHeader(expected Identifier) (uint64, error) {
	raw, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	id, err := ParseIdentifier(raw)
	if err != nil {
		return 0, err
	}
	if id != expected {
		if id == IdentifierStorageQuantized {
			return 0, fmt.Errorf("%w: quantized storage", ErrUnsupportedFeature)
		}
		return 0, &ChunkIdentifierMismatchError{Expected: expected, Found: id}
	}

	length, err := r.readUint64()
	if err != nil {
		return 0, err
	}
	if !r.fits(length) {
		return 0, fmt.Errorf("%w: %s chunk of %d bytes exceeds remaining %d", ErrTruncatedData, id, length, r.Remaining())
	}
	return length, nil
}

// checkConsumed verifies that exactly length bytes were read since start.
func (r *Reader) checkConsumed(id Identifier, start, length uint64) error {
	if got := r.pos - start; got != length {
		return fmt.Errorf("%w: %s chunk declares %d bytes, payload has %d", ErrLengthMismatch, id, length, got)
	}
	return nil
}

// readTypeID reads a type id and the alignment padding that follows it.
func (r *Reader) readTypeID() error {
	raw, err := r.readUint32()
	if err != nil {
		return err
	}
	if TypeID(raw) != TypeIDFloat32 {
		return &UnsupportedTypeIDError{Expected: TypeIDFloat32, Found: TypeID(raw)}
	}
	return r.skip(Padding(r.pos, 4))
}

// readFloats decodes len(dst) little-endian floats.
func (r *Reader) readFloats(dst []float32) error {
	scratch := newFloatScratch()
	for len(dst) > 0 {
		n := min(len(dst), floatBatch)
		b := scratch[:n*4]
		if err := r.read(b); err != nil {
			return err
		}
		for i := range dst[:n] {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
		dst = dst[n:]
	}
	return nil
}

// readFloatArray decodes n little-endian floats. Without a known stream size
// the slice grows batch by batch, so a bogus count fails with
// ErrTruncatedData once the data runs out.
func (r *Reader) readFloatArray(n int) ([]float32, error) {
	if r.Remaining() >= 0 {
		dst := make([]float32, n)
		return dst, r.readFloats(dst)
	}

	dst := make([]float32, 0, min(n, maxPrealloc))
	for len(dst) < n {
		start := len(dst)
		step := min(n-start, maxPrealloc)
		dst = slices.Grow(dst, step)[:start+step]
		if err := r.readFloats(dst[start:]); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// readBytes reads n bytes, growing the buffer as data arrives when the
// stream size is unknown.
func (r *Reader) readBytes(n uint64) ([]byte, error) {
	if !r.fits(n) {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrTruncatedData, n, r.pos)
	}
	if r.Remaining() >= 0 || n <= maxPrealloc {
		b := make([]byte, n)
		return b, r.read(b)
	}

	var b []byte
	for rem := n; rem > 0; {
		step := min(rem, maxPrealloc)
		start := len(b)
		b = slices.Grow(b, int(step))[:start+int(step)] //nolint:gosec // step is at most maxPrealloc
		if err := r.read(b[start:]); err != nil {
			return nil, err
		}
		rem -= step
	}
	return b, nil
}
