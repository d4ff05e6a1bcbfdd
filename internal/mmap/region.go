package mmap

// Region is a view of part of a Mapping, addressed by file offset. It does
// not own the memory, but closing it closes the parent.
type Region struct {
	parent *Mapping
	offset int64
	start  int
	size   int
}

// Region views size bytes at file offset offset. The range must lie inside
// the mapping.
func (m *Mapping) Region(offset, size int64) (*Region, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}

	rel := offset - m.offset
	if rel < 0 || size < 0 || rel > int64(len(m.data))-size {
		return nil, ErrOutOfBounds
	}
	return &Region{parent: m, offset: offset, start: int(rel), size: int(size)}, nil
}

// Offset returns the file offset of the region.
func (r *Region) Offset() int64 { return r.offset }

// Size returns the size of the region in bytes.
func (r *Region) Size() int { return r.size }

// Bytes returns the bytes of the region, or nil once the parent is closed.
func (r *Region) Bytes() []byte {
	if r.parent.closed.Load() {
		return nil
	}
	return r.parent.data[r.start : r.start+r.size : r.start+r.size]
}

// Advise hints the kernel how this region will be accessed. The advice
// covers the whole pages the region touches.
func (r *Region) Advise(pattern AccessPattern) error {
	if r.parent.closed.Load() {
		return ErrClosed
	}
	return osAdvise(r.pages(), pattern)
}

// pages returns the part of the parent mapping that starts at the page
// boundary at or before the region and ends with the region.
func (r *Region) pages() []byte {
	m := r.parent
	if r.size == 0 {
		return nil
	}

	delta := len(m.mapped) - len(m.data)
	begin := delta + r.start
	begin -= begin % int(granularity)
	return m.mapped[begin : delta+r.start+r.size]
}

// Close closes the parent mapping.
func (r *Region) Close() error {
	return r.parent.Close()
}
