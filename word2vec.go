package wordvec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/vocab"
)

// ReadWord2Vec reads embeddings in the binary word2vec format: a
// "<words> <dims>\n" header, then for every word the word, a space, dims
// little-endian float32 values and a newline.
func ReadWord2Vec(r io.Reader, opts ...Option) (*Embeddings, error) {
	o := applyOptions(opts)
	start := time.Now()

	e, err := readWord2Vec(r, opts)

	o.finishLoad(FormatWord2Vec, e, start, err)
	return e, err
}

func readWord2Vec(r io.Reader, opts []Option) (*Embeddings, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	n, dims, err := parseCounts(line)
	if err != nil {
		return nil, err
	}

	// Grow the matrix as rows arrive so that bogus counts cannot trigger a
	// huge allocation.
	words := make([]string, 0, min(n, 1<<20))
	data := make([]float32, 0, min(n, (1<<20)/dims)*dims)
	raw := make([]byte, 4*min(dims, 4096))

	for i := range n {
		word, err := br.ReadString(' ')
		if err != nil {
			return nil, fmt.Errorf("%w: word %d of %d: %w", ErrTruncatedData, i, n, err)
		}
		word = strings.TrimSpace(word)
		if !utf8.ValidString(word) {
			return nil, fmt.Errorf("%w: word %d", ErrInvalidUTF8, i)
		}

		for left := dims; left > 0; {
			part := raw[:4*min(left, 4096)]
			if _, err := io.ReadFull(br, part); err != nil {
				return nil, fmt.Errorf("%w: vector of %q: %w", ErrTruncatedData, word, err)
			}
			for j := 0; j < len(part); j += 4 {
				data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(part[j:])))
			}
			left -= len(part) / 4
		}
		words = append(words, word)
	}

	v, err := vocab.NewSimple(words)
	if err != nil {
		return nil, err
	}
	s, err := storage.NewArrayFromData(data, n, dims)
	if err != nil {
		return nil, err
	}
	return New(v, s, opts...)
}

// WriteWord2Vec writes the vocabulary words of e in the binary word2vec
// format.
func WriteWord2Vec(w io.Writer, e *Embeddings) error {
	if e == nil {
		return errNilEmbeddings
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", e.Len(), e.Dims()); err != nil {
		return err
	}

	raw := make([]byte, e.Dims()*4)
	for word, row := range e.All() {
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
		if err := bw.WriteByte(' '); err != nil {
			return err
		}
		for j, v := range row {
			binary.LittleEndian.PutUint32(raw[j*4:], math.Float32bits(v))
		}
		if _, err := bw.Write(raw); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}
