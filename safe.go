package fixedpool

import (
	"io"
	"sync"
)

// SafePool is a mutex-protected wrapper around Pool for concurrent access.
// All operations are thread-safe but come with the overhead of mutex locking.
// Objects returned by SafeAlloc and SafeGet still need their own
// synchronization when shared between goroutines.
type SafePool struct {
	mu sync.Mutex
	p  *Pool
}

// NewSafePool creates a thread-safe pool with an arena of size bytes.
func NewSafePool(size int, cfg *Config) (*SafePool, error) {
	p, err := New(size, cfg)
	if err != nil {
		return nil, err
	}
	return &SafePool{p: p}, nil
}

// Do runs fn with exclusive access to the underlying pool.
func (s *SafePool) Do(fn func(p *Pool) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.p)
}

// Allocate thread-safely reserves size bytes aligned to alignment.
func (s *SafePool) Allocate(size, alignment int) (Addr, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Allocate(size, alignment)
}

// Deallocate thread-safely returns the region at addr to the pool.
func (s *SafePool) Deallocate(addr Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Deallocate(addr)
}

// DeallocateSize thread-safely returns the region at addr if its extent is size.
func (s *SafePool) DeallocateSize(addr Addr, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.DeallocateSize(addr, size)
}

// Release thread-safely destroys remaining objects and drops the arena.
func (s *SafePool) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Release()
}

// HeapDump thread-safely writes the arena layout to w.
func (s *SafePool) HeapDump(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.HeapDump(w)
}

// Regions thread-safely returns the arena layout.
func (s *SafePool) Regions() []Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Regions()
}

// Metrics thread-safely returns a snapshot of pool statistics.
func (s *SafePool) Metrics() PoolMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Metrics()
}

// MaxSize returns the arena size. It never changes, so no lock is taken.
func (s *SafePool) MaxSize() int {
	return s.p.MaxSize()
}

// Generic allocation functions for SafePool

// SafeAlloc thread-safely places a copy of v in the pool.
func SafeAlloc[T any](s *SafePool, v T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Alloc(s.p, v)
}

// SafeGet thread-safely returns the object at addr viewed as T.
func SafeGet[T any](s *SafePool, addr Addr) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Get[T](s.p, addr)
}

// SafeGetStrict thread-safely returns the object at addr viewed as exactly T.
func SafeGetStrict[T any](s *SafePool, addr Addr) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return GetStrict[T](s.p, addr)
}

// SafeFree thread-safely destroys and frees the object ptr points to.
func SafeFree[T any](s *SafePool, ptr *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Free(s.p, ptr)
}

// SafeFreeAt thread-safely destroys and frees the object at addr.
func SafeFreeAt[T any](s *SafePool, addr Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FreeAt[T](s.p, addr)
}
