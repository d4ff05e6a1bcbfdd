package mmap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFile(t *testing.T, content []byte) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapped.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestMapping_RegionClose(t *testing.T) {
	f := openFile(t, []byte("Hello, Mmap!"))

	m, err := MapRange(f, 0, 12)
	require.NoError(t, err)

	assert.Equal(t, 12, m.Size())
	assert.Equal(t, int64(0), m.Offset())
	assert.Equal(t, []byte("Hello, Mmap!"), m.Bytes())
	require.NoError(t, m.Advise(AccessRandom))

	r, err := m.Region(7, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), r.Offset())
	assert.Equal(t, 5, r.Size())
	assert.Equal(t, "Mmap!", string(r.Bytes()))
	require.NoError(t, r.Advise(AccessSequential))

	_, err = m.Region(-1, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = m.Region(10, 3)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	assert.Nil(t, r.Bytes())
	assert.ErrorIs(t, r.Advise(AccessDefault), ErrClosed)
	assert.ErrorIs(t, m.Advise(AccessDefault), ErrClosed)
	_, err = m.Region(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMapRange_Unaligned(t *testing.T) {
	// Offsets on both sides of the first page boundary.
	content := make([]byte, 3*int(granularity)+100)
	for i := range content {
		content[i] = byte(i % 251)
	}
	f := openFile(t, content)

	for _, offset := range []int64{0, 3, granularity - 1, granularity, granularity + 17, 2*granularity + 4} {
		m, err := MapRange(f, offset, 64)
		require.NoError(t, err, "offset %d", offset)

		assert.Equal(t, offset, m.Offset())
		assert.Equal(t, content[offset:offset+64], m.Bytes(), "offset %d", offset)

		r, err := m.Region(offset+8, 16)
		require.NoError(t, err)
		assert.Equal(t, content[offset+8:offset+24], r.Bytes())

		// Advice covers whole pages ending with the region.
		pages := r.pages()
		assert.Zero(t, uintptr(unsafe.Pointer(&pages[0]))%uintptr(granularity), "offset %d", offset)
		assert.Equal(t, r.Bytes(), pages[len(pages)-16:])
		require.NoError(t, r.Advise(AccessRandom), "offset %d", offset)

		_, err = m.Region(offset-1, 4)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = m.Region(offset+60, 8)
		assert.ErrorIs(t, err, ErrOutOfBounds)

		require.NoError(t, r.Close())
	}
}

func TestMapRange_OutOfBounds(t *testing.T) {
	f := openFile(t, bytes.Repeat([]byte{1}, 32))

	_, err := MapRange(f, 30, 4)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = MapRange(f, -1, 4)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = MapRange(f, 0, -1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	m, err := MapRange(f, 32, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Size())
	require.NoError(t, m.Close())
}

func TestMapping_EmptyFile(t *testing.T) {
	f := openFile(t, nil)

	m, err := MapRange(f, 0, 0)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())

	r, err := m.Region(0, 0)
	require.NoError(t, err)
	assert.Empty(t, r.Bytes())
	assert.NoError(t, r.Advise(AccessRandom))
}
