package wordvec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/wordvec/chunk"
	"github.com/hupe1980/wordvec/internal/mmap"
	"github.com/hupe1980/wordvec/metadata"
	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/vocab"
)

// ReadEmbeddings reads a chunked container and copies the matrix into memory.
func ReadEmbeddings(r io.Reader, opts ...Option) (*Embeddings, error) {
	o := applyOptions(opts)
	start := time.Now()

	e, err := readContainer(r, o, opts, func(cr *chunk.Reader) (storage.Storage, error) {
		return cr.ReadStorage()
	})

	o.finishLoad(FormatRust2Vec, e, start, err)
	return e, err
}

// MmapEmbeddings reads a chunked container from f and maps the storage
// chunk's matrix instead of copying it. Only the matrix bytes are mapped.
// The file may be closed afterwards; the mapping lives until Close is
// called on the embeddings.
func MmapEmbeddings(f *os.File, opts ...Option) (*Embeddings, error) {
	o := applyOptions(opts)
	start := time.Now()

	e, err := mmapContainer(f, o, opts)

	o.finishLoad(FormatRust2VecMmap, e, start, err)
	return e, err
}

func mmapContainer(f *os.File, o options, opts []Option) (*Embeddings, error) {
	return readContainer(f, o, opts, func(cr *chunk.Reader) (storage.Storage, error) {
		layout, err := cr.ReadStorageLayout()
		if err != nil {
			return nil, err
		}

		offset, size := int64(layout.Offset), int64(layout.Size) //nolint:gosec // bounded by the file size
		mapping, err := mmap.MapRange(f, offset, size)
		if err != nil {
			if errors.Is(err, mmap.ErrOutOfBounds) {
				return nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
			}
			return nil, fmt.Errorf("wordvec: map %s: %w", f.Name(), err)
		}

		region, err := mapping.Region(offset, size)
		if err != nil {
			_ = mapping.Close()
			return nil, err
		}

		arr, err := storage.NewMmapArray(region, layout.Rows, layout.Dims)
		if err != nil {
			_ = mapping.Close()
			return nil, err
		}
		if err := arr.Advise(mmap.AccessRandom); err != nil {
			o.logger.Debug("madvise failed", "error", err)
		}
		return arr, nil
	})
}

// readContainer reads the chunks listed in the preamble. readStorage decides
// whether the matrix is copied or mapped.
func readContainer(r io.Reader, o options, opts []Option, readStorage func(*chunk.Reader) (storage.Storage, error)) (*Embeddings, error) {
	cr, err := chunk.NewReader(r)
	if err != nil {
		return nil, err
	}

	header, err := cr.ReadHeader()
	if err != nil {
		return nil, err
	}

	var (
		v     vocab.Vocab
		s     storage.Storage
		norms []float32
		md    metadata.Metadata
		seen  = make(map[chunk.Identifier]bool, len(header.Identifiers))
	)

	ctx := context.Background()
	for _, id := range header.Identifiers {
		kind := id
		if id.IsVocab() {
			kind = chunk.IdentifierVocabSimple
		}
		if seen[kind] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateChunk, id)
		}
		seen[kind] = true

		o.logger.LogChunk(ctx, id, cr.Pos())

		switch {
		case id.IsVocab():
			v, err = cr.ReadVocab(id)
		case id == chunk.IdentifierStorageDense:
			s, err = readStorage(cr)
		case id == chunk.IdentifierStorageQuantized:
			err = fmt.Errorf("%w: quantized storage", ErrUnsupportedFeature)
		case id == chunk.IdentifierMetadata:
			md, err = cr.ReadMetadata()
		case id == chunk.IdentifierNorms:
			norms, err = cr.ReadNorms()
		default:
			err = fmt.Errorf("%w: %s chunk inside the chunk list", ErrMalformedHeader, id)
		}
		if err != nil {
			closeStorage(s)
			return nil, err
		}
	}

	if v == nil || s == nil {
		closeStorage(s)
		return nil, fmt.Errorf("%w: container needs a vocabulary and a storage chunk", ErrMissingChunk)
	}

	all := make([]Option, 0, len(opts)+2)
	if norms != nil {
		all = append(all, WithNorms(norms))
	}
	if md != nil {
		all = append(all, WithMetadata(md))
	}
	all = append(all, opts...)

	e, err := New(v, s, all...)
	if err != nil {
		closeStorage(s)
		return nil, err
	}
	return e, nil
}

func closeStorage(s storage.Storage) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}

// WriteEmbeddings writes e as a chunked container: metadata (if any), the
// vocabulary, the matrix and the norms (if any).
func WriteEmbeddings(w io.Writer, e *Embeddings) error {
	if e == nil {
		return errNilEmbeddings
	}

	vocabID, err := chunk.VocabIdentifier(e.vocab)
	if err != nil {
		return err
	}

	var ids []chunk.Identifier
	if e.metadata != nil {
		ids = append(ids, chunk.IdentifierMetadata)
	}
	ids = append(ids, vocabID, chunk.IdentifierStorageDense)
	if e.norms != nil {
		ids = append(ids, chunk.IdentifierNorms)
	}

	cw, err := chunk.NewWriter(w)
	if err != nil {
		return err
	}
	if err := cw.WriteHeader(chunk.Header{Identifiers: ids}); err != nil {
		return err
	}

	for _, id := range ids {
		e.logger.LogChunk(context.Background(), id, cw.Pos())

		switch id {
		case chunk.IdentifierMetadata:
			err = cw.WriteMetadata(e.metadata)
		case chunk.IdentifierStorageDense:
			err = cw.WriteStorage(e.storage)
		case chunk.IdentifierNorms:
			err = cw.WriteNorms(e.norms)
		default:
			err = cw.WriteVocab(e.vocab)
		}
		if err != nil {
			return fmt.Errorf("wordvec: write %s chunk: %w", id, err)
		}
	}
	return nil
}

// finishLoad reports a completed load to the logger and metrics collector.
func (o options) finishLoad(format Format, e *Embeddings, start time.Time, err error) {
	elapsed := time.Since(start)
	o.metricsCollector.RecordLoad(format, elapsed, err)

	var words, rows, dims int
	if e != nil {
		words, dims = e.Len(), e.Dims()
		rows = storage.Rows(e.storage)
	}
	o.logger.LogLoad(context.Background(), format, words, rows, dims, elapsed, err)
}

var errNilEmbeddings = errors.New("wordvec: nil embeddings")
