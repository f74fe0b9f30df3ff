package fixedpool

import "github.com/pkg/errors"

var (
	// ErrOutOfMemory indicates that no gap in the arena fits the requested size and alignment.
	ErrOutOfMemory = errors.New("fixedpool: out of memory")

	// ErrNotFound indicates an address that is not tracked by the pool.
	ErrNotFound = errors.New("fixedpool: address not allocated by this pool")

	// ErrSizeMismatch indicates that the requested type does not fit the recorded extent.
	ErrSizeMismatch = errors.New("fixedpool: size mismatch")

	// ErrTypeMismatch indicates that the requested type differs from the type stored at the address.
	ErrTypeMismatch = errors.New("fixedpool: type mismatch")

	// ErrReleased indicates use of a pool after Release.
	ErrReleased = errors.New("fixedpool: use after Release()")

	// ErrUnsupportedType indicates a type that holds Go pointers and cannot live in the arena.
	ErrUnsupportedType = errors.New("fixedpool: type contains pointers")

	// ErrBackingUnsupported indicates an arena backing that is not available on this platform.
	ErrBackingUnsupported = errors.New("fixedpool: arena backing not supported")

	// ErrInvalidSize indicates a negative arena size.
	ErrInvalidSize = errors.New("fixedpool: invalid arena size")
)
