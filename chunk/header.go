package chunk

import (
	"fmt"

	"github.com/hupe1980/wordvec/internal/conv"
)

// Magic is the first four bytes of every container.
var Magic = [4]byte{'R', '2', 'V', 'C'}

// Version is the container format version.
const Version uint32 = 1

// maxChunks bounds the chunk count a preamble may declare.
const maxChunks = 1 << 10

// Header is the container preamble: the identifiers of the chunks that
// follow, in file order.
type Header struct {
	Identifiers []Identifier
}

// WriteHeader writes the container preamble.
func (w *Writer) WriteHeader(h Header) error {
	n, err := conv.IntToUint32(len(h.Identifiers))
	if err != nil {
		return err
	}

	if err := w.write(Magic[:]); err != nil {
		return err
	}
	if err := w.writeUint32(Version); err != nil {
		return err
	}
	if err := w.writeUint32(n); err != nil {
		return err
	}
	for _, id := range h.Identifiers {
		if err := w.writeUint32(uint32(id)); err != nil {
			return err
		}
	}
	return nil
}

// ReadHeader reads and validates the container preamble.
func (r *Reader) ReadHeader() (Header, error) {
	var magic [4]byte
	if err := r.read(magic[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidMagic, err)
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidMagic, magic[:])
	}

	version, err := r.readUint32()
	if err != nil {
		return Header{}, err
	}
	if version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	n, err := r.readUint32()
	if err != nil {
		return Header{}, err
	}
	if n > maxChunks {
		return Header{}, fmt.Errorf("%w: %d", ErrTooManyChunks, n)
	}
	if !r.fits(uint64(n) * 4) {
		return Header{}, fmt.Errorf("%w: preamble declares %d chunks", ErrTruncatedData, n)
	}

	ids := make([]Identifier, n)
	for i := range ids {
		raw, err := r.readUint32()
		if err != nil {
			return Header{}, err
		}
		if ids[i], err = ParseIdentifier(raw); err != nil {
			return Header{}, err
		}
	}

	return Header{Identifiers: ids}, nil
}
