package chunk

import (
	"fmt"
	"unicode/utf8"

	"github.com/hupe1980/wordvec/internal/conv"
	"github.com/hupe1980/wordvec/subword"
	"github.com/hupe1980/wordvec/vocab"
)

// VocabIdentifier returns the chunk identifier v is stored under.
func VocabIdentifier(v vocab.Vocab) (Identifier, error) {
	switch v := v.(type) {
	case *vocab.Simple:
		return IdentifierVocabSimple, nil
	case *vocab.Subword:
		switch v.Indexer().(type) {
		case *subword.BucketIndexer:
			return IdentifierVocabSubword, nil
		case *subword.FastTextIndexer:
			return IdentifierVocabFastText, nil
		}
		return 0, fmt.Errorf("%w: subword indexer %T", ErrUnsupportedFeature, v.Indexer())
	default:
		return 0, fmt.Errorf("%w: vocabulary %T", ErrUnsupportedFeature, v)
	}
}

func wordsSize(words []string) uint64 {
	size := uint64(8) // n_words
	for _, w := range words {
		size += 4 + uint64(len(w))
	}
	return size
}

// VocabChunkSize returns the number of bytes WriteVocab writes for v,
// including the chunk identifier and length.
func VocabChunkSize(v vocab.Vocab) (uint64, error) {
	id, err := VocabIdentifier(v)
	if err != nil {
		return 0, err
	}
	size := 12 + wordsSize(v.Words())
	switch id {
	case IdentifierVocabSubword:
		size += 12
	case IdentifierVocabFastText:
		size += 16
	}
	return size, nil
}

// WriteVocab writes v as a VocabSimple, VocabSubword or VocabFastText chunk.
func (w *Writer) WriteVocab(v vocab.Vocab) error {
	id, err := VocabIdentifier(v)
	if err != nil {
		return err
	}
	total, err := VocabChunkSize(v)
	if err != nil {
		return err
	}
	if err := w.writeChunkHeader(id, total-12); err != nil {
		return err
	}

	words := v.Words()
	if err := w.writeUint64(uint64(len(words))); err != nil {
		return err
	}

	if sv, ok := v.(*vocab.Subword); ok {
		if err := w.writeIndexer(sv.Indexer()); err != nil {
			return err
		}
	}

	for _, word := range words {
		n, err := conv.IntToUint32(len(word))
		if err != nil {
			return err
		}
		if err := w.writeUint32(n); err != nil {
			return err
		}
		if err := w.write([]byte(word)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeIndexer(indexer subword.Indexer) error {
	minN, err := conv.IntToUint32(indexer.MinN())
	if err != nil {
		return err
	}
	maxN, err := conv.IntToUint32(indexer.MaxN())
	if err != nil {
		return err
	}
	if err := w.writeUint32(minN); err != nil {
		return err
	}
	if err := w.writeUint32(maxN); err != nil {
		return err
	}

	switch ix := indexer.(type) {
	case *subword.BucketIndexer:
		return w.writeUint32(uint32(ix.BucketExp())) //nolint:gosec // bucket exponent is at most 64
	case *subword.FastTextIndexer:
		return w.writeUint64(ix.BucketCount())
	default:
		return fmt.Errorf("%w: subword indexer %T", ErrUnsupportedFeature, indexer)
	}
}

// ReadVocab reads the vocabulary chunk id.
func (r *Reader) ReadVocab(id Identifier) (vocab.Vocab, error) {
	switch id {
	case IdentifierVocabSimple:
		return r.ReadSimpleVocab()
	case IdentifierVocabSubword:
		return r.ReadSubwordVocab()
	case IdentifierVocabFastText:
		return r.ReadFastTextVocab()
	default:
		return nil, &ChunkIdentifierMismatchError{Expected: IdentifierVocabSimple, Found: id}
	}
}

// ReadSimpleVocab reads a VocabSimple chunk.
func (r *Reader) ReadSimpleVocab() (*vocab.Simple, error) {
	length, err := r.readChunkHeader(IdentifierVocabSimple)
	if err != nil {
		return nil, err
	}
	start := r.pos

	n, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	words, err := r.readWords(n, start+length)
	if err != nil {
		return nil, err
	}
	if err := r.checkConsumed(IdentifierVocabSimple, start, length); err != nil {
		return nil, err
	}

	return vocab.NewSimple(words)
}

// ReadSubwordVocab reads a VocabSubword chunk.
func (r *Reader) ReadSubwordVocab() (*vocab.Subword, error) {
	length, err := r.readChunkHeader(IdentifierVocabSubword)
	if err != nil {
		return nil, err
	}
	start := r.pos

	n, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	minN, maxN, err := r.readNgramRange()
	if err != nil {
		return nil, err
	}
	exp, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	indexer, err := subword.NewBucketIndexer(minN, maxN, uint(exp))
	if err != nil {
		return nil, err
	}

	words, err := r.readWords(n, start+length)
	if err != nil {
		return nil, err
	}
	if err := r.checkConsumed(IdentifierVocabSubword, start, length); err != nil {
		return nil, err
	}

	return vocab.NewSubword(words, indexer)
}

// ReadFastTextVocab reads a VocabFastText chunk.
func (r *Reader) ReadFastTextVocab() (*vocab.Subword, error) {
	length, err := r.readChunkHeader(IdentifierVocabFastText)
	if err != nil {
		return nil, err
	}
	start := r.pos

	n, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	minN, maxN, err := r.readNgramRange()
	if err != nil {
		return nil, err
	}
	buckets, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	indexer, err := subword.NewFastTextIndexer(minN, maxN, buckets)
	if err != nil {
		return nil, err
	}

	words, err := r.readWords(n, start+length)
	if err != nil {
		return nil, err
	}
	if err := r.checkConsumed(IdentifierVocabFastText, start, length); err != nil {
		return nil, err
	}

	return vocab.NewSubword(words, indexer)
}

func (r *Reader) readNgramRange() (int, int, error) {
	rawMin, err := r.readUint32()
	if err != nil {
		return 0, 0, err
	}
	rawMax, err := r.readUint32()
	if err != nil {
		return 0, 0, err
	}
	minN, err := conv.Uint32ToInt(rawMin)
	if err != nil {
		return 0, 0, err
	}
	maxN, err := conv.Uint32ToInt(rawMax)
	if err != nil {
		return 0, 0, err
	}
	return minN, maxN, nil
}

// readWords reads n length-prefixed words that must end at or before end.
func (r *Reader) readWords(n, end uint64) ([]string, error) {
	if end < r.pos || n > (end-r.pos)/4 {
		return nil, fmt.Errorf("%w: %d words do not fit in chunk", ErrTruncatedData, n)
	}

	words := make([]string, 0, min(n, maxPrealloc))
	for range n {
		l, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		if r.pos+uint64(l) > end {
			return nil, fmt.Errorf("%w: word of %d bytes overruns chunk at offset %d", ErrTruncatedData, l, r.pos)
		}

		b, err := r.readBytes(uint64(l))
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, fmt.Errorf("%w: word at offset %d", ErrInvalidUTF8, r.pos-uint64(l))
		}
		words = append(words, string(b))
	}
	return words, nil
}
