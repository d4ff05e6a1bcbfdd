//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// granularity is the alignment of mapping offsets.
var granularity = int64(os.Getpagesize())

func osMap(f *os.File, offset int64, length int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), offset, length, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

var advice = map[AccessPattern]int{
	AccessDefault:    unix.MADV_NORMAL,
	AccessSequential: unix.MADV_SEQUENTIAL,
	AccessRandom:     unix.MADV_RANDOM,
	AccessWillNeed:   unix.MADV_WILLNEED,
}

func osAdvise(data []byte, pattern AccessPattern) error {
	if len(data) == 0 {
		return nil
	}

	adv, ok := advice[pattern]
	if !ok {
		adv = unix.MADV_NORMAL
	}

	return unix.Madvise(data, adv)
}
