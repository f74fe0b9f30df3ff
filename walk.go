package fixedpool

// walk is a forward cursor over an entry table that also remembers the
// previous position, so a gap start (prev.end()) is available without a
// second lookup. Before the first next(), prev equals cur.
type walk struct {
	entries []entry
	prev    int
	cur     int
}

// newWalk positions a walk at the first entry.
func newWalk(entries []entry) walk {
	return walk{entries: entries}
}

// walkAt positions a walk at index i with prev one step behind, or equal to
// cur when i is the first index.
func walkAt(entries []entry, i int) walk {
	prev := i - 1
	if i == 0 {
		prev = 0
	}
	return walk{entries: entries, prev: prev, cur: i}
}

// valid reports whether cur points at an entry.
func (w *walk) valid() bool {
	return w.cur < len(w.entries)
}

func (w *walk) current() *entry {
	return &w.entries[w.cur]
}

func (w *walk) previous() *entry {
	return &w.entries[w.prev]
}

// next moves the walk one entry forward.
func (w *walk) next() {
	w.prev = w.cur
	w.cur++
}

// equal compares both positions.
func (w walk) equal(o walk) bool {
	return w.prev == o.prev && w.cur == o.cur
}
