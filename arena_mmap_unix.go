//go:build linux || darwin

package fixedpool

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mapAnonymous maps size bytes of private anonymous memory.
func mapAnonymous(size int) ([]byte, func() error, error) {
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fixedpool: mmap %d bytes", size)
	}
	unmap := func() error {
		err := unix.Munmap(buf)
		if errors.Is(err, unix.EINVAL) {
			// Already unmapped.
			return nil
		}
		return err
	}
	return buf, unmap, nil
}
