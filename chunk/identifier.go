package chunk

import (
	"errors"
	"fmt"
)

// Identifier identifies the kind of a chunk.
type Identifier uint32

const (
	// IdentifierHeader is reserved for the container preamble.
	IdentifierHeader Identifier = 0
	// IdentifierVocabSimple is a vocabulary of exact words.
	IdentifierVocabSimple Identifier = 1
	// IdentifierStorageDense is a dense float32 matrix.
	IdentifierStorageDense Identifier = 2
	// IdentifierVocabSubword is a vocabulary with FNV-1a bucket subwords.
	IdentifierVocabSubword Identifier = 3
	// IdentifierStorageQuantized is a quantized matrix. It is recognized but
	// cannot be read.
	IdentifierStorageQuantized Identifier = 4
	// IdentifierMetadata is a TOML metadata document.
	IdentifierMetadata Identifier = 5
	// IdentifierNorms holds the pre-normalization row norms.
	IdentifierNorms Identifier = 6
	// IdentifierVocabFastText is a vocabulary with fastText subwords.
	IdentifierVocabFastText Identifier = 7
)

func (id Identifier) String() string {
	switch id {
	case IdentifierHeader:
		return "Header"
	case IdentifierVocabSimple:
		return "VocabSimple"
	case IdentifierStorageDense:
		return "StorageDense"
	case IdentifierVocabSubword:
		return "VocabSubword"
	case IdentifierStorageQuantized:
		return "StorageQuantized"
	case IdentifierMetadata:
		return "Metadata"
	case IdentifierNorms:
		return "Norms"
	case IdentifierVocabFastText:
		return "VocabFastText"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(id))
	}
}

// IsVocab reports whether id is a vocabulary chunk.
func (id Identifier) IsVocab() bool {
	return id == IdentifierVocabSimple || id == IdentifierVocabSubword || id == IdentifierVocabFastText
}

// IsStorage reports whether id is a storage chunk.
func (id Identifier) IsStorage() bool {
	return id == IdentifierStorageDense || id == IdentifierStorageQuantized
}

// ParseIdentifier validates a raw chunk identifier.
func ParseIdentifier(v uint32) (Identifier, error) {
	id := Identifier(v)
	if id > IdentifierVocabFastText {
		return 0, &UnknownChunkIdentifierError{Value: v}
	}
	return id, nil
}

// TypeID tags the element type of a typed chunk.
type TypeID uint32

// TypeIDFloat32 is IEEE-754 single precision. It is the only supported type.
const TypeIDFloat32 TypeID = 10

// Padding returns the number of bytes to skip at pos so that the following
// data is aligned to size. The result is always in [1, size].
func Padding(pos, size uint64) uint64 {
	return size - pos%size
}

var (
	// ErrInvalidMagic is returned when a file does not start with the container magic.
	ErrInvalidMagic = errors.New("chunk: invalid magic")
	// ErrUnsupportedVersion is returned for unknown container versions.
	ErrUnsupportedVersion = errors.New("chunk: unsupported container version")
	// ErrTruncatedData is returned when a chunk extends past the end of the data.
	ErrTruncatedData = errors.New("chunk: truncated data")
	// ErrLengthMismatch is returned when a declared chunk length disagrees with its payload.
	ErrLengthMismatch = errors.New("chunk: declared length does not match payload")
	// ErrInvalidUTF8 is returned for metadata or words that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("chunk: invalid UTF-8")
	// ErrUnsupportedFeature is returned for recognized chunks this package cannot read or write.
	ErrUnsupportedFeature = errors.New("chunk: unsupported feature")
	// ErrTooManyChunks is returned when a preamble declares an implausible chunk count.
	ErrTooManyChunks = errors.New("chunk: too many chunks")
)

// UnknownChunkIdentifierError is returned for identifiers outside the known set.
type UnknownChunkIdentifierError struct {
	Value uint32
}

func (e *UnknownChunkIdentifierError) Error() string {
	return fmt.Sprintf("chunk: unknown chunk identifier %d", e.Value)
}

// ChunkIdentifierMismatchError is returned when a chunk is not of the expected kind.
type ChunkIdentifierMismatchError struct {
	Expected Identifier
	Found    Identifier
}

func (e *ChunkIdentifierMismatchError) Error() string {
	return fmt.Sprintf("chunk: cannot read %s chunk as %s", e.Found, e.Expected)
}

// UnsupportedTypeIDError is returned when a typed chunk has an unsupported element type.
type UnsupportedTypeIDError struct {
	Expected TypeID
	Found    TypeID
}

func (e *UnsupportedTypeIDError) Error() string {
	return fmt.Sprintf("chunk: unsupported type id %d, expected %d", e.Found, e.Expected)
}
