// Package compress wraps embedding streams in zstd or LZ4 compression,
// selected by file suffix.
package compress

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm of a stream.
type Type uint8

const (
	// None indicates an uncompressed stream.
	None Type = iota
	// Zstd indicates a zstd frame stream (".zst").
	Zstd
	// LZ4 indicates an LZ4 frame stream (".lz4").
	LZ4
)

var suffixes = map[Type]string{
	Zstd: ".zst",
	LZ4:  ".lz4",
}

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Suffix returns the file suffix of t, or "" for None.
func (t Type) Suffix() string { return suffixes[t] }

// FromPath detects the compression of path from its suffix.
func FromPath(path string) Type {
	lower := strings.ToLower(path)
	for t, suffix := range suffixes {
		if strings.HasSuffix(lower, suffix) {
			return t
		}
	}
	return None
}

// TrimSuffix removes the compression suffix from path.
func TrimSuffix(path string) string {
	t := FromPath(path)
	if t == None {
		return path
	}
	return path[:len(path)-len(t.Suffix())]
}

// NewReader returns a reader that decompresses r. Closing the returned
// reader does not close r.
func NewReader(r io.Reader, t Type) (io.ReadCloser, error) {
	switch t {
	case None:
		return io.NopCloser(r), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("compress: zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("compress: unknown type %s", t)
	}
}

// NewWriter returns a writer that compresses into w. Close must be called
// to flush the final frame; it does not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case None:
		return nopWriteCloser{w}, nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("compress: zstd writer: %w", err)
		}
		return enc, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("compress: unknown type %s", t)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
