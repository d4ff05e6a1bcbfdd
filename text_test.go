package wordvec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_RoundTrip(t *testing.T) {
	e := buildEmbeddings(t, 2,
		[]string{"a", "b"},
		[][]float32{{1, 0.5}, {-2, 3.25}},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, e))
	assert.Equal(t, "a 1 0.5\nb -2 3.25\n", buf.String())

	read, err := ReadText(&buf)
	require.NoError(t, err)
	assertSameEmbeddings(t, e, read)
}

func TestTextDims_RoundTrip(t *testing.T) {
	e := buildEmbeddings(t, 3,
		[]string{"über", "straße"},
		[][]float32{{0.1, 0.2, 0.3}, {1e-7, -4, 1e10}},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteTextDims(&buf, e))
	assert.True(t, strings.HasPrefix(buf.String(), "2 3\n"))

	read, err := ReadTextDims(&buf)
	require.NoError(t, err)
	assertSameEmbeddings(t, e, read)
}

func TestText_SkipsBlankLines(t *testing.T) {
	read, err := ReadText(strings.NewReader("a 1 2\n\n  \nb 3 4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, read.Words())
}

func TestText_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		header bool
		err    error
	}{
		{"Empty", "", false, ErrMalformedData},
		{"RaggedLine", "a 1 2\nb 3\n", false, ErrMalformedData},
		{"BadFloat", "a 1 x\n", false, ErrMalformedData},
		{"DuplicateWord", "a 1\na 2\n", false, ErrDuplicateWord},
		{"MissingHeader", "", true, ErrMalformedHeader},
		{"BadHeader", "two 2\na 1 2\n", true, ErrMalformedHeader},
		{"ZeroDims", "1 0\na\n", true, ErrMalformedHeader},
		{"HugeDims", "1 1125899906842624\na 1\n", true, ErrMalformedHeader},
		{"HeaderDimsDisagree", "1 3\na 1 2\n", true, ErrMalformedData},
		{"FewerWordsThanDeclared", "3 2\na 1 2\nb 3 4\n", true, ErrTruncatedData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.header {
				_, err = ReadTextDims(strings.NewReader(tt.input))
			} else {
				_, err = ReadText(strings.NewReader(tt.input))
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestWord2Vec_Bytes(t *testing.T) {
	e := buildEmbeddings(t, 2,
		[]string{"a", "bc"},
		[][]float32{{1, 0}, {-2, 0.5}},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteWord2Vec(&buf, e))

	expected := []byte("2 2\na ")
	expected = append(expected, 0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0x00, '\n')
	expected = append(expected, "bc "...)
	expected = append(expected, 0x00, 0x00, 0x00, 0xc0, 0x00, 0x00, 0x00, 0x3f, '\n')
	assert.Equal(t, expected, buf.Bytes())

	read, err := ReadWord2Vec(&buf)
	require.NoError(t, err)
	assertSameEmbeddings(t, e, read)
}

func TestWord2Vec_Errors(t *testing.T) {
	e := buildEmbeddings(t, 2, []string{"a", "b"}, [][]float32{{1, 2}, {3, 4}})

	var buf bytes.Buffer
	require.NoError(t, WriteWord2Vec(&buf, e))
	data := buf.Bytes()

	_, err := ReadWord2Vec(bytes.NewReader(data[:len(data)-4]))
	assert.ErrorIs(t, err, ErrTruncatedData)

	_, err = ReadWord2Vec(strings.NewReader("2 x\n"))
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = ReadWord2Vec(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = ReadWord2Vec(strings.NewReader("1 1125899906842624\nx "))
	assert.ErrorIs(t, err, ErrMalformedHeader)

	// Plausible dims with a bogus word count run out of data.
	_, err = ReadWord2Vec(strings.NewReader("1152921504606846976 16777216\nx \x00\x00"))
	assert.ErrorIs(t, err, ErrTruncatedData)

	invalid := append([]byte("1 1\n\xff "), 0, 0, 0, 0, '\n')
	_, err = ReadWord2Vec(bytes.NewReader(invalid))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
