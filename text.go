package wordvec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// maxLineSize bounds a single line of a text embedding file.
const maxLineSize = 64 << 20

// maxDims bounds the dimensionality a header may declare.
const maxDims = 1 << 24

// ReadText reads embeddings in text format: one word per line followed by
// its whitespace-separated components. The dimensionality is taken from the
// first line and every further line must agree with it.
func ReadText(r io.Reader, opts ...Option) (*Embeddings, error) {
	o := applyOptions(opts)
	start := time.Now()

	e, err := readText(r, false, opts)

	o.finishLoad(FormatText, e, start, err)
	return e, err
}

// ReadTextDims reads embeddings in text format preceded by a
// "<words> <dims>" header line.
func ReadTextDims(r io.Reader, opts ...Option) (*Embeddings, error) {
	o := applyOptions(opts)
	start := time.Now()

	e, err := readText(r, true, opts)

	o.finishLoad(FormatTextDims, e, start, err)
	return e, err
}

func readText(r io.Reader, header bool, opts []Option) (*Embeddings, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		b       *Builder
		n       = -1
		lineNum int
	)

	if header {
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: missing header line: %w", ErrMalformedHeader, scanErr(sc))
		}
		lineNum++

		words, dims, err := parseCounts(sc.Text())
		if err != nil {
			return nil, err
		}
		n = words
		b = NewBuilder(dims)
	}

	var vec []float32
	for sc.Scan() {
		lineNum++

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		if b == nil {
			b = NewBuilder(len(fields) - 1)
		}
		if len(fields)-1 != b.Dims() {
			return nil, fmt.Errorf("%w: line %d has %d components, expected %d",
				ErrMalformedData, lineNum, len(fields)-1, b.Dims())
		}

		vec = vec[:0]
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedData, lineNum, err)
			}
			vec = append(vec, float32(v))
		}

		if err := b.Push(fields[0], vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("wordvec: read text: %w", err)
	}

	if b == nil {
		return nil, fmt.Errorf("%w: no embeddings", ErrMalformedData)
	}
	if n >= 0 && b.Len() != n {
		return nil, fmt.Errorf("%w: header declares %d words, found %d", ErrTruncatedData, n, b.Len())
	}

	return b.Build(opts...)
}

func scanErr(sc *bufio.Scanner) error {
	if err := sc.Err(); err != nil {
		return err
	}
	return io.EOF
}

// parseCounts parses a "<words> <dims>" header.
func parseCounts(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
	}

	words, err := strconv.Atoi(fields[0])
	if err != nil || words < 0 {
		return 0, 0, fmt.Errorf("%w: word count %q", ErrMalformedHeader, fields[0])
	}
	dims, err := strconv.Atoi(fields[1])
	if err != nil || dims <= 0 || dims > maxDims {
		return 0, 0, fmt.Errorf("%w: dimensionality %q", ErrMalformedHeader, fields[1])
	}
	return words, dims, nil
}

// WriteText writes the vocabulary words of e in text format. Subword bucket
// rows are not written.
func WriteText(w io.Writer, e *Embeddings) error {
	return writeText(w, e, false)
}

// WriteTextDims writes e in text format preceded by a "<words> <dims>"
// header line.
func WriteTextDims(w io.Writer, e *Embeddings) error {
	return writeText(w, e, true)
}

func writeText(w io.Writer, e *Embeddings, header bool) error {
	if e == nil {
		return errNilEmbeddings
	}

	bw := bufio.NewWriter(w)
	if header {
		if _, err := fmt.Fprintf(bw, "%d %d\n", e.Len(), e.Dims()); err != nil {
			return err
		}
	}

	var buf []byte
	for word, row := range e.All() {
		buf = append(buf[:0], word...)
		for _, v := range row {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, float64(v), 'g', -1, 32)
		}
		buf = append(buf, '\n')

		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}
