package storage

import (
	"fmt"
	"unsafe"
)

// nativeLittleEndian reports whether float32 bytes on disk can be viewed
// in place on this host.
var nativeLittleEndian = func() bool {
	var probe uint16 = 0x0001
	return *(*byte)(unsafe.Pointer(&probe)) == 1
}()

// float32View reinterprets b as n float32 values after checking length,
// address alignment and host byte order.
func float32View(b []byte, n int) ([]float32, error) {
	if len(b) != n*4 {
		return nil, fmt.Errorf("%w: region holds %d bytes, matrix needs %d", ErrMmapAlignmentViolation, len(b), n*4)
	}
	if !nativeLittleEndian {
		return nil, fmt.Errorf("%w: mapped matrices require a little-endian host", ErrMmapAlignmentViolation)
	}
	if n == 0 {
		return nil, nil
	}

	ptr := uintptr(unsafe.Pointer(&b[0]))
	if ptr%4 != 0 {
		return nil, fmt.Errorf("%w: float32 data at address 0x%x", ErrMmapAlignmentViolation, ptr)
	}

	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n), nil
}
