package fixedpool

import (
	"slices"
	"unsafe"

	"github.com/sirupsen/logrus"
)

// Pool is a fixed-capacity allocator over a single arena. Regions are placed
// first-fit in address order and are never moved. Not goroutine-safe; use
// SafePool for concurrent access.
type Pool struct {
	cfg   Config
	arena *arena
	base  uintptr // address of the first arena byte
	table entryTable

	// Every free byte lies in [low, high). low >= high means the arena is full.
	low  Addr
	high Addr

	log logrus.FieldLogger
}

// New creates a pool with an arena of size bytes. A nil cfg uses DefaultConfig.
func New(size int, cfg *Config) (*Pool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	a, err := newArena(size, cfg.Backing)
	if err != nil {
		return nil, err
	}
	p := &Pool{
		cfg:   *cfg,
		arena: a,
		base:  uintptr(unsafe.Pointer(unsafe.SliceData(a.buf))),
		log: cfg.logger().WithFields(logrus.Fields{
			"component": "fixedpool",
			"size":      size,
			"backing":   cfg.Backing.String(),
		}),
	}
	p.resetBounds()
	return p, nil
}

// MaxSize returns the largest allocation the pool can ever satisfy.
func (p *Pool) MaxSize() int {
	return p.arena.size
}

// Allocate reserves size bytes aligned to alignment, which must be a power of
// two (0 is treated as 1). It reports false when no gap fits. A zero size
// request reserves a single byte so that its address stays unique.
func (p *Pool) Allocate(size, alignment int) (Addr, bool) {
	if size < 0 || alignment < 0 {
		return 0, false
	}
	if alignment == 0 {
		alignment = 1
	}
	if !isPowerOfTwo(uintptr(alignment)) || p.arena.done {
		return 0, false
	}
	return p.allocate(uintptr(size), uintptr(alignment), nil)
}

// Deallocate returns the region at addr to the pool. Unknown addresses are ignored.
func (p *Pool) Deallocate(addr Addr) {
	p.DeallocateSize(addr, 0)
}

// DeallocateSize is like Deallocate but leaves the region untouched unless its
// recorded extent equals size. A size of 0 means the size is unknown.
func (p *Pool) DeallocateSize(addr Addr, size int) {
	if p.arena.done {
		return
	}
	i, ok := p.table.find(addr)
	if !ok {
		return
	}
	if size != 0 && (size < 0 || uintptr(size) != p.table.entries[i].extent) {
		return
	}
	p.deallocateAt(i)
}

// Pointer returns a pointer to the arena byte at addr, or nil if addr lies
// outside the arena. The pointer is valid until Release.
func (p *Pool) Pointer(addr Addr) unsafe.Pointer {
	if p.arena.done || uintptr(addr) >= uintptr(p.arena.size) {
		return nil
	}
	return unsafe.Pointer(&p.arena.buf[addr])
}

// Bytes returns the region allocated at addr, or nil if addr is not the start
// of a live allocation.
func (p *Pool) Bytes(addr Addr) []byte {
	if p.arena.done {
		return nil
	}
	i, ok := p.table.find(addr)
	if !ok {
		return nil
	}
	e := p.table.entries[i]
	return p.arena.buf[e.addr:e.end():e.end()]
}

// AddrOf maps a pointer into the arena back to its address.
func (p *Pool) AddrOf(ptr unsafe.Pointer) (Addr, bool) {
	if p.arena.done {
		return 0, false
	}
	u := uintptr(ptr)
	if u < p.base || u-p.base >= uintptr(p.arena.size) {
		return 0, false
	}
	return Addr(u - p.base), true
}

// Release destroys every remaining typed object, optionally clears the arena
// and drops it. Pointers handed out by the pool become invalid. Calling
// Release more than once is a no-op.
func (p *Pool) Release() error {
	if p.arena.done {
		return nil
	}
	live := slices.Clone(p.table.entries)
	p.table.reset()
	for i := range live {
		p.destroy(&live[i])
	}
	p.log.WithField("live_entries", len(live)).Debug("releasing pool")
	return p.arena.release(p.cfg.ZeroMemoryOnDestruct)
}

// allocate runs the placement search and records the new entry.
func (p *Pool) allocate(size, align uintptr, typ *typeInfo) (Addr, bool) {
	extent := max(size, 1)
	if extent > uintptr(p.arena.size) {
		return 0, false
	}
	if p.low >= p.high {
		return 0, false
	}
	addr, ok := p.findFit(extent, align)
	if !ok {
		return 0, false
	}
	p.table.insert(entry{addr: addr, extent: extent, alignment: align, typ: typ})
	p.shrinkBounds(addr, addr+Addr(extent))
	return addr, true
}

// findFit returns the first address, in address order, of a gap that holds
// extent bytes at the given alignment. Gaps outside [low, high] are known to
// be empty and are skipped.
func (p *Pool) findFit(extent, align uintptr) (Addr, bool) {
	end := Addr(p.arena.size)
	if p.table.len() == 0 {
		return p.fit(0, end, extent, align)
	}

	// begin gap
	if p.low == 0 {
		if a, ok := p.fit(0, p.table.first().addr, extent, align); ok {
			return a, true
		}
	}

	// gaps between neighbours
	if a, ok := p.fitNominal(extent, align); ok {
		return a, true
	}

	// end gap
	if p.high == end {
		if a, ok := p.fit(p.table.last().end(), end, extent, align); ok {
			return a, true
		}
	}
	return 0, false
}

// fitNominal scans the gaps between adjacent entries whose bounds fall inside
// [low, high].
func (p *Pool) fitNominal(extent, align uintptr) (Addr, bool) {
	entries := p.table.entries
	start := p.table.searchEnd(p.low)
	if start >= len(entries)-1 {
		return 0, false
	}
	for w := walkAt(entries, start+1); w.valid() && w.current().addr <= p.high; w.next() {
		if a, ok := p.fit(w.previous().end(), w.current().addr, extent, align); ok {
			return a, true
		}
	}
	return 0, false
}

// fit returns the lowest address in [start, end) aligned to align with room
// for extent bytes. Alignment is computed on the real address so that
// pointers into the arena honour it.
func (p *Pool) fit(start, end Addr, extent, align uintptr) (Addr, bool) {
	a := Addr(alignUp(p.base+uintptr(start), align) - p.base)
	if a < start || a > end || uintptr(end-a) < extent {
		return 0, false
	}
	return a, true
}

// deallocateAt removes the entry at index i and reopens its bytes.
func (p *Pool) deallocateAt(i int) {
	e := p.table.remove(i)
	if p.cfg.ZeroMemoryAfterFree {
		p.arena.zero(int(e.addr), int(e.extent))
	}
	p.widenBounds(e.addr, e.end())
}

// destroy runs the destructor thunk of a typed entry.
func (p *Pool) destroy(e *entry) {
	if e.typ == nil || e.typ.destroy == nil {
		return
	}
	e.typ.destroy(unsafe.Pointer(&p.arena.buf[e.addr]))
}

func (p *Pool) resetBounds() {
	p.low = 0
	p.high = Addr(p.arena.size)
}

// shrinkBounds narrows the cache after [a, end) was allocated. Only an
// allocation landing exactly on a bound moves it; the bound then also skips
// entries that already abut it.
func (p *Pool) shrinkBounds(a, end Addr) {
	if a == p.low {
		p.low = end
		for {
			i, ok := p.table.find(p.low)
			if !ok {
				break
			}
			p.low = p.table.entries[i].end()
		}
	}
	if end == p.high {
		p.high = a
		for {
			j := p.table.search(p.high) - 1
			if j < 0 || p.table.entries[j].end() != p.high {
				break
			}
			p.high = p.table.entries[j].addr
		}
	}
}

// widenBounds grows the cache to cover the freed range [a, end). A range freed
// strictly inside the window leaves it unchanged.
func (p *Pool) widenBounds(a, end Addr) {
	switch {
	case p.table.len() == 0:
		p.resetBounds()
	case p.low >= p.high:
		p.low, p.high = a, end
	default:
		p.low = min(p.low, a)
		p.high = max(p.high, end)
	}
}
