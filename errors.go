package wordvec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/wordvec/chunk"
	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/subword"
	"github.com/hupe1980/wordvec/vocab"
)

var (
	// ErrWordNotFound is returned when a word has no embedding.
	ErrWordNotFound = errors.New("word not found")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrMalformedHeader is returned when a text or binary header cannot be parsed.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedData is returned when an embedding line or record cannot be parsed.
	ErrMalformedData = errors.New("malformed data")

	// ErrUnknownFormat is returned for unrecognized format names.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrRowCountMismatch is returned when vocabulary and storage disagree on the number of rows.
	ErrRowCountMismatch = errors.New("vocabulary and storage row counts differ")

	// ErrMissingChunk is returned when a container lacks a vocabulary or storage chunk.
	ErrMissingChunk = errors.New("missing chunk")

	// ErrDuplicateChunk is returned when a container holds two chunks of the same kind.
	ErrDuplicateChunk = errors.New("duplicate chunk")
)

// Errors of the building blocks, re-exported so that callers can match
// them against the wordvec package alone.
var (
	ErrUnsupportedFeature        = chunk.ErrUnsupportedFeature
	ErrTruncatedData             = chunk.ErrTruncatedData
	ErrLengthMismatch            = chunk.ErrLengthMismatch
	ErrInvalidUTF8               = chunk.ErrInvalidUTF8
	ErrInvalidMagic              = chunk.ErrInvalidMagic
	ErrUnsupportedVersion        = chunk.ErrUnsupportedVersion
	ErrTooManyChunks             = chunk.ErrTooManyChunks
	ErrInvalidNgramRange         = subword.ErrInvalidNgramRange
	ErrInvalidBucketExponent     = subword.ErrInvalidBucketExponent
	ErrIndexOutOfRange           = storage.ErrIndexOutOfRange
	ErrMutationOnReadOnlyStorage = storage.ErrMutationOnReadOnlyStorage
	ErrNonContiguousStorage      = storage.ErrNonContiguousStorage
	ErrMmapAlignmentViolation    = storage.ErrMmapAlignmentViolation
	ErrDuplicateWord             = vocab.ErrDuplicateWord
)

// Typed chunk errors.
type (
	UnknownChunkIdentifierError  = chunk.UnknownChunkIdentifierError
	ChunkIdentifierMismatchError = chunk.ChunkIdentifierMismatchError
	UnsupportedTypeIDError       = chunk.UnsupportedTypeIDError
)

// WordNotFoundError reports the word that could not be resolved.
// It matches ErrWordNotFound with errors.Is.
type WordNotFoundError struct {
	Word string
}

func (e *WordNotFoundError) Error() string {
	return fmt.Sprintf("word not found: %q", e.Word)
}

func (e *WordNotFoundError) Is(target error) bool { return target == ErrWordNotFound }

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
