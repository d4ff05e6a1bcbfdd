package chunk

import (
	"fmt"
	"unicode/utf8"

	"github.com/hupe1980/wordvec/metadata"
)

// WriteMetadata writes md as a Metadata chunk holding a TOML document.
func (w *Writer) WriteMetadata(md metadata.Metadata) error {
	data, err := md.Encode()
	if err != nil {
		return err
	}
	if err := w.writeChunkHeader(IdentifierMetadata, uint64(len(data))); err != nil {
		return err
	}
	return w.write(data)
}

// ReadMetadata reads a Metadata chunk.
func (r *Reader) ReadMetadata() (metadata.Metadata, error) {
	length, err := r.readChunkHeader(IdentifierMetadata)
	if err != nil {
		return nil, err
	}

	// readChunkHeader only bounds the length when the stream size is known.
	if r.Remaining() < 0 && length > maxMetadataSize {
		return nil, fmt.Errorf("%w: metadata of %d bytes", ErrTruncatedData, length)
	}

	data, err := r.readBytes(length)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: metadata", ErrInvalidUTF8)
	}

	return metadata.Decode(data)
}

const maxMetadataSize = 64 << 20
