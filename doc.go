// Package fixedpool implements a fixed-capacity memory pool allocator for Go.
//
// # Overview
//
// A Pool owns a single contiguous arena that is allocated once and never
// resized. Regions of different sizes and alignments are carved out of it
// first-fit, in address order, and returned individually. Live regions are
// never moved, so pointers into the arena stay valid until the region is
// freed or the pool is released.
//
// This is useful for:
//
//   - Bounded memory budgets that must fail instead of grow
//   - Long-lived objects with individual lifetimes inside one buffer
//   - Inspecting fragmentation with a readable heap dump
//
// # Basic Usage
//
//	p, err := fixedpool.New(4096, nil) // nil uses DefaultConfig()
//	if err != nil {
//	    return err
//	}
//	defer p.Release()
//
//	// Raw regions
//	addr, ok := p.Allocate(64, 8)
//	if !ok {
//	    // out of space
//	}
//	buf := p.Bytes(addr)
//	p.Deallocate(addr)
//
//	// Typed objects
//	pt, err := fixedpool.Alloc(p, Point{X: 1, Y: 2})
//	addr, _ = fixedpool.AddrOf(p, pt)
//	same, err := fixedpool.Get[Point](p, addr)
//	err = fixedpool.Free(p, pt)
//
// # Addresses
//
// An Addr is the offset of a region from the start of the arena. Alignment is
// applied to the real memory address, so a pointer obtained from an Addr
// honours the requested alignment.
//
// # Typed Objects
//
// Every typed allocation records the exact Go type it was made for. Get and
// FreeAt refuse a different type with ErrTypeMismatch unless the pool is
// configured with TypeCheckSize, which only compares sizes. Types stored in
// the arena must not contain Go pointers (including strings, slices, maps and
// interfaces) because arena memory is not scanned by the garbage collector;
// such types are rejected with ErrUnsupportedType.
//
// If *T implements Destroyer, its Destroy method runs when the object is freed
// with Free or FreeAt, and for every object still live when Release is called.
//
// # Errors
//
// The raw surface (Allocate, Deallocate) never returns errors; a false result
// is the only failure signal. The typed surface returns errors wrapping
// ErrOutOfMemory, ErrNotFound, ErrSizeMismatch, ErrTypeMismatch and
// ErrReleased; test them with errors.Is.
//
// # Thread Safety
//
// Pool is not thread-safe. For concurrent access, use SafePool:
//
//	s, err := fixedpool.NewSafePool(4096, nil)
//	ptr, err := fixedpool.SafeAlloc(s, int64(42))
//
// # Diagnostics
//
// HeapDump writes the arena as a table of free and used regions. With
// Config.DumpOnFailure the dump is also logged when a typed allocation fails.
// Metrics returns a snapshot of usage, and NewCollector exports it to
// prometheus.
package fixedpool
