package wordvec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/wordvec/internal/compress"
	"github.com/hupe1980/wordvec/internal/fs"
)

// Format is an on-disk embedding format.
type Format int

const (
	// FormatRust2Vec is the chunked container, read into memory.
	FormatRust2Vec Format = iota
	// FormatRust2VecMmap is the chunked container with a memory-mapped matrix.
	FormatRust2VecMmap
	// FormatWord2Vec is the binary word2vec format.
	FormatWord2Vec
	// FormatText is one word and its vector per line, without a header.
	FormatText
	// FormatTextDims is FormatText preceded by a "<words> <dims>" header line.
	FormatTextDims
	// FormatFastText is a fastText binary model (read only).
	FormatFastText
)

var formatNames = map[Format]string{
	FormatRust2Vec:     "rust2vec",
	FormatRust2VecMmap: "rust2vec_mmap",
	FormatWord2Vec:     "word2vec",
	FormatText:         "text",
	FormatTextDims:     "textdims",
	FormatFastText:     "fasttext",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatNames returns the names accepted by ParseFormat.
func FormatNames() []string {
	names := make([]string, 0, len(formatNames))
	for f := FormatRust2Vec; f <= FormatFastText; f++ {
		names = append(names, formatNames[f])
	}
	return names
}

// Read reads embeddings in format from r. FormatRust2VecMmap requires an
// *os.File.
func Read(r io.Reader, format Format, opts ...Option) (*Embeddings, error) {
	switch format {
	case FormatRust2Vec:
		return ReadEmbeddings(r, opts...)
	case FormatRust2VecMmap:
		f, ok := r.(*os.File)
		if !ok {
			return nil, fmt.Errorf("%w: memory mapping needs a file, got %T", ErrUnsupportedFeature, r)
		}
		return MmapEmbeddings(f, opts...)
	case FormatWord2Vec:
		return ReadWord2Vec(r, opts...)
	case FormatText:
		return ReadText(r, opts...)
	case FormatTextDims:
		return ReadTextDims(r, opts...)
	case FormatFastText:
		return ReadFastText(r, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Write writes e to w in format.
func Write(w io.Writer, format Format, e *Embeddings) error {
	switch format {
	case FormatRust2Vec, FormatRust2VecMmap:
		return WriteEmbeddings(w, e)
	case FormatWord2Vec:
		return WriteWord2Vec(w, e)
	case FormatText:
		return WriteText(w, e)
	case FormatTextDims:
		return WriteTextDims(w, e)
	case FormatFastText:
		return fmt.Errorf("%w: writing fastText models", ErrUnsupportedFeature)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// ReadFile reads embeddings from path. Paths ending in .zst or .lz4 are
// decompressed, except for FormatRust2VecMmap which cannot map a
// compressed file.
func ReadFile(path string, format Format, opts ...Option) (*Embeddings, error) {
	comp := compress.FromPath(path)
	if format == FormatRust2VecMmap && comp != compress.None {
		return nil, fmt.Errorf("%w: cannot map %s compressed file", ErrUnsupportedFeature, comp)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordvec: %w", err)
	}
	defer f.Close()

	if format == FormatRust2VecMmap {
		return MmapEmbeddings(f, opts...)
	}

	var r io.Reader = f
	if comp != compress.None {
		dr, err := compress.NewReader(bufio.NewReader(f), comp)
		if err != nil {
			return nil, err
		}
		defer dr.Close()
		r = dr
	}

	return Read(r, format, opts...)
}

// WriteFile writes e to path, compressing when the path ends in .zst or
// .lz4. The file is replaced atomically: on error an existing file at path
// is left untouched.
func WriteFile(path string, format Format, e *Embeddings) error {
	return writeFile(fs.Default, path, format, e)
}

func writeFile(fsys fs.FileSystem, path string, format Format, e *Embeddings) error {
	if format == FormatFastText {
		return fmt.Errorf("%w: writing fastText models", ErrUnsupportedFeature)
	}
	if _, ok := formatNames[format]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return fs.WriteAtomic(fsys, path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		cw, err := compress.NewWriter(bw, compress.FromPath(path))
		if err != nil {
			return err
		}

		if err := Write(cw, format, e); err != nil {
			_ = cw.Close()
			return err
		}
		if err := cw.Close(); err != nil {
			return err
		}
		return bw.Flush()
	})
}

// FormatFromPath guesses the format from a file name, ignoring any
// compression suffix. It returns false when the extension is unknown.
func FormatFromPath(path string) (Format, bool) {
	base := strings.ToLower(compress.TrimSuffix(path))
	switch {
	case strings.HasSuffix(base, ".r2v"), strings.HasSuffix(base, ".fifu"):
		return FormatRust2Vec, true
	case strings.HasSuffix(base, ".w2v"):
		return FormatWord2Vec, true
	case strings.HasSuffix(base, ".txt"):
		return FormatTextDims, true
	default:
		return 0, false
	}
}
