package fixedpool

import "sort"

// Addr is the offset of a region from the start of the arena.
type Addr uintptr

// entry records one live allocation. It does not own the bytes it describes.
type entry struct {
	addr      Addr
	extent    uintptr
	alignment uintptr
	typ       *typeInfo // nil for raw allocations
}

// end returns the first address past the entry.
func (e entry) end() Addr {
	return e.addr + Addr(e.extent)
}

// entryTable is the set of live entries, sorted by addr and unique by addr.
type entryTable struct {
	entries []entry
}

func (t *entryTable) len() int {
	return len(t.entries)
}

// search returns the index of the first entry with addr >= a.
func (t *entryTable) search(a Addr) int {
	return sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].addr >= a
	})
}

// searchEnd returns the index of the first entry whose end is >= a.
// Entries never overlap, so ends are sorted the same way as starts.
func (t *entryTable) searchEnd(a Addr) int {
	return sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].end() >= a
	})
}

// find returns the index of the entry starting at a.
func (t *entryTable) find(a Addr) (int, bool) {
	i := t.search(a)
	if i < len(t.entries) && t.entries[i].addr == a {
		return i, true
	}
	return i, false
}

// insert adds e keeping the table ordered. The caller guarantees that e does
// not overlap an existing entry.
func (t *entryTable) insert(e entry) int {
	i := t.search(e.addr)
	t.entries = append(t.entries, entry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = e
	return i
}

// remove deletes the entry at index i and returns it.
func (t *entryTable) remove(i int) entry {
	e := t.entries[i]
	copy(t.entries[i:], t.entries[i+1:])
	t.entries[len(t.entries)-1] = entry{}
	t.entries = t.entries[:len(t.entries)-1]
	return e
}

func (t *entryTable) first() entry {
	return t.entries[0]
}

func (t *entryTable) last() entry {
	return t.entries[len(t.entries)-1]
}

func (t *entryTable) reset() {
	clear(t.entries)
	t.entries = t.entries[:0]
}
