package fixedpool

import (
	"unsafe"

	"github.com/pkg/errors"
)

// arena is the fixed backing store of a Pool. It is allocated once and never resized.
type arena struct {
	buf     []byte       // backing memory, len(buf) == size
	size    int          // capacity in bytes
	backing Backing      // where buf came from
	unmap   func() error // releases mmap backed memory, nil for heap backing
	done    bool         // set once release has run
}

// newArena allocates size bytes with the requested backing.
func newArena(size int, backing Backing) (*arena, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "size %d", size)
	}
	a := &arena{size: size, backing: backing}
	switch backing {
	case BackingHeap:
		a.buf = heapBytes(size)
	case BackingMmap:
		buf, unmap, err := mapAnonymous(size)
		if err != nil {
			return nil, err
		}
		a.buf, a.unmap = buf, unmap
	default:
		return nil, errors.Wrapf(ErrBackingUnsupported, "backing %d", int(backing))
	}
	return a, nil
}

// heapBytes allocates size bytes on the Go heap. The buffer is carved out of
// a []uint64 so its first byte is 8-byte aligned whatever the size.
func heapBytes(size int) []byte {
	words := make([]uint64, (size+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size)
}

// zero clears [off, off+n).
func (a *arena) zero(off, n int) {
	clear(a.buf[off : off+n])
}

// release optionally clears all bytes and drops the backing memory.
// Any view previously handed out becomes invalid.
func (a *arena) release(zero bool) error {
	if a.done {
		return nil
	}
	if zero {
		clear(a.buf)
	}
	var err error
	if a.unmap != nil {
		err = a.unmap()
		a.unmap = nil
	}
	a.buf = nil
	a.done = true
	return err
}

// alignUp rounds off up to the next multiple of align, which must be a power of two.
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}
