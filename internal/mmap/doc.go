// Package mmap maps embedding matrices into memory without copying them.
//
// Only the byte range of the storage chunk is mapped. The range is widened
// to the platform's mapping granularity internally; callers always see
// exactly the bytes they asked for, addressed by absolute file offsets.
//
//	m, err := mmap.MapRange(f, offset, size)
//	if err != nil { ... }
//	region, err := m.Region(offset, size)
//	_ = region.Advise(mmap.AccessRandom)
//	defer region.Close()
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; access advice is a no-op there.
//
// Mapping and Region are safe for concurrent reads. Close is idempotent,
// but slices obtained from Bytes must not be used after Close returns.
package mmap
