package wordvec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
	"unicode/utf8"

	"github.com/hupe1980/wordvec/internal/conv"
	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/subword"
	"github.com/hupe1980/wordvec/vocab"
)

const (
	fastTextMagic      uint32 = 793712314
	fastTextMaxVersion uint32 = 12

	fastTextEntryWord  = 0
	fastTextEntryLabel = 1
)

// FastTextArgs are the training arguments stored in a fastText model.
type FastTextArgs struct {
	Dims              uint32
	WindowSize        uint32
	Epoch             uint32
	MinCount          uint32
	Neg               uint32
	WordNgrams        uint32
	Loss              uint32
	Model             uint32
	Buckets           uint32
	MinN              uint32
	MaxN              uint32
	LRUpdateRate      uint32
	SamplingThreshold float64
}

// ReadFastText reads the input matrix of a fastText binary model. Known
// words map to their own rows; other words are embedded from their n-gram
// buckets with the fastText hash. Quantized models are not supported.
func ReadFastText(r io.Reader, opts ...Option) (*Embeddings, error) {
	o := applyOptions(opts)
	start := time.Now()

	e, err := readFastText(r, o, opts)

	o.finishLoad(FormatFastText, e, start, err)
	return e, err
}

func readFastText(r io.Reader, o options, opts []Option) (*Embeddings, error) {
	fr := &fastTextReader{r: bufio.NewReader(r)}
	log := o.logger.WithFormat(FormatFastText)

	if magic := fr.u32(); fr.err == nil && magic != fastTextMagic {
		return nil, fmt.Errorf("%w: fastText magic %d", ErrInvalidMagic, magic)
	}
	if version := fr.u32(); fr.err == nil && version > fastTextMaxVersion {
		return nil, fmt.Errorf("%w: fastText version %d > %d", ErrUnsupportedVersion, version, fastTextMaxVersion)
	}

	args := fr.args()
	if fr.err != nil {
		return nil, fr.fail("arguments")
	}
	log.Debug("fastText arguments",
		"dims", args.Dims,
		"model", args.Model,
		"loss", args.Loss,
		"buckets", args.Buckets,
		"min_n", args.MinN,
		"max_n", args.MaxN,
	)
	if args.Model < 1 || args.Model > 3 {
		return nil, fmt.Errorf("%w: unknown fastText model %d", ErrMalformedHeader, args.Model)
	}
	if args.Loss < 1 || args.Loss > 4 {
		return nil, fmt.Errorf("%w: unknown fastText loss %d", ErrMalformedHeader, args.Loss)
	}
	if args.Dims == 0 || args.Dims > maxDims {
		return nil, fmt.Errorf("%w: fastText dimensionality %d", ErrMalformedHeader, args.Dims)
	}
	if args.MaxN == 0 {
		return nil, fmt.Errorf("%w: fastText model without subword n-grams", ErrUnsupportedFeature)
	}

	words, err := fr.dictionary(log)
	if err != nil {
		return nil, err
	}

	if quantized := fr.u8(); fr.err == nil && quantized != 0 {
		return nil, fmt.Errorf("%w: quantized fastText model", ErrUnsupportedFeature)
	}

	indexer, err := subword.NewFastTextIndexer(int(args.MinN), int(args.MaxN), uint64(args.Buckets))
	if err != nil {
		return nil, err
	}
	v, err := vocab.NewSubword(words, indexer)
	if err != nil {
		return nil, err
	}

	s, err := fr.matrix(v.TotalRows(), int(args.Dims))
	if err != nil {
		return nil, err
	}
	log.Debug("fastText input matrix", "rows", v.TotalRows(), "dims", args.Dims)

	// The output matrix follows; it is not needed for embeddings.
	return New(v, s, opts...)
}

// fastTextReader reads little-endian values and keeps the first error.
type fastTextReader struct {
	r   *bufio.Reader
	buf [8]byte
	err error
}

func (fr *fastTextReader) read(n int) []byte {
	if fr.err != nil {
		return fr.buf[:n]
	}
	_, fr.err = io.ReadFull(fr.r, fr.buf[:n])
	return fr.buf[:n]
}

func (fr *fastTextReader) u8() uint8   { return fr.read(1)[0] }
func (fr *fastTextReader) u32() uint32 { return binary.LittleEndian.Uint32(fr.read(4)) }
func (fr *fastTextReader) u64() uint64 { return binary.LittleEndian.Uint64(fr.read(8)) }

func (fr *fastTextReader) f64() float64 {
	return math.Float64frombits(fr.u64())
}

func (fr *fastTextReader) cstring() string {
	if fr.err != nil {
		return ""
	}
	b, err := fr.r.ReadBytes(0)
	if err != nil {
		fr.err = err
		return ""
	}
	return string(b[:len(b)-1])
}

// fail wraps the sticky error with the section being read.
func (fr *fastTextReader) fail(section string) error {
	if errors.Is(fr.err, io.EOF) || errors.Is(fr.err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: fastText %s", ErrTruncatedData, section)
	}
	return fmt.Errorf("wordvec: fastText %s: %w", section, fr.err)
}

func (fr *fastTextReader) args() FastTextArgs {
	return FastTextArgs{
		Dims:              fr.u32(),
		WindowSize:        fr.u32(),
		Epoch:             fr.u32(),
		MinCount:          fr.u32(),
		Neg:               fr.u32(),
		WordNgrams:        fr.u32(),
		Loss:              fr.u32(),
		Model:             fr.u32(),
		Buckets:           fr.u32(),
		MinN:              fr.u32(),
		MaxN:              fr.u32(),
		LRUpdateRate:      fr.u32(),
		SamplingThreshold: fr.f64(),
	}
}

// dictionary reads the dictionary and returns its words in row order.
func (fr *fastTextReader) dictionary(log *Logger) ([]string, error) {
	size := fr.u32()
	nWords := fr.u32()
	nLabels := fr.u32()
	nTokens := fr.u64()
	pruneIdxSize := int64(fr.u64()) //nolint:gosec // stored as a signed value
	if fr.err != nil {
		return nil, fr.fail("dictionary header")
	}

	log.Debug("fastText dictionary",
		"size", size,
		"words", nWords,
		"labels", nLabels,
		"tokens", nTokens,
		"prune_idx_size", pruneIdxSize,
	)
	if nWords > size {
		return nil, fmt.Errorf("%w: %d words in a dictionary of %d entries", ErrMalformedHeader, nWords, size)
	}

	words := make([]string, 0, min(nWords, 1<<20))
	for i := range size {
		word := fr.cstring()
		_ = fr.u64() // count
		entryType := fr.u8()
		if fr.err != nil {
			return nil, fr.fail("dictionary")
		}
		if !utf8.ValidString(word) {
			return nil, fmt.Errorf("%w: dictionary entry %d", ErrInvalidUTF8, i)
		}

		switch entryType {
		case fastTextEntryWord:
			words = append(words, word)
		case fastTextEntryLabel:
		default:
			return nil, fmt.Errorf("%w: unknown fastText entry type %d", ErrMalformedHeader, entryType)
		}
	}
	if len(words) != int(nWords) {
		return nil, fmt.Errorf("%w: dictionary has %d words, header declares %d", ErrMalformedHeader, len(words), nWords)
	}

	for i := int64(0); i < pruneIdxSize && fr.err == nil; i++ {
		_, _ = fr.u32(), fr.u32()
	}
	if fr.err != nil {
		return nil, fr.fail("pruned index")
	}

	return words, nil
}

// matrix reads a dense matrix and checks its shape.
func (fr *fastTextReader) matrix(rows, dims int) (*storage.Array, error) {
	m, n := fr.u64(), fr.u64()
	if fr.err != nil {
		return nil, fr.fail("matrix header")
	}
	if m != uint64(rows) || n != uint64(dims) { //nolint:gosec // rows and dims are non-negative
		return nil, fmt.Errorf("%w: fastText matrix is %dx%d, expected %dx%d", ErrRowCountMismatch, m, n, rows, dims)
	}

	total, err := conv.MulInt(rows, dims)
	if err != nil {
		return nil, fmt.Errorf("%w: fastText matrix %dx%d: %w", ErrMalformedHeader, rows, dims, err)
	}
	data := make([]float32, 0, min(total, 1<<24))
	raw := make([]byte, 4*4096)
	for len(data) < total {
		chunk := raw[:4*min(total-len(data), 4096)]
		if _, err := io.ReadFull(fr.r, chunk); err != nil {
			fr.err = err
			return nil, fr.fail("matrix")
		}
		for i := 0; i < len(chunk); i += 4 {
			data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(chunk[i:])))
		}
	}

	return storage.NewArrayFromData(data, rows, dims)
}
