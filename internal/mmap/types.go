package mmap

import "errors"

// AccessPattern is an access hint for mapped memory.
type AccessPattern int

const (
	// AccessDefault gives no specific advice.
	AccessDefault AccessPattern = iota
	// AccessSequential suits full scans such as similarity queries.
	AccessSequential
	// AccessRandom suits scattered row lookups.
	AccessRandom
	// AccessWillNeed prefetches the range.
	AccessWillNeed
)

var (
	// ErrClosed is returned when a closed mapping is accessed.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when a range cannot be mapped on this platform.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds is returned when a range falls outside the file or mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
)
