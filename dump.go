package fixedpool

import (
	"bufio"
	"fmt"
	"io"
)

// Region is one run of the arena as reported by Regions and HeapDump.
type Region struct {
	Start     Addr
	End       Addr
	Used      bool
	Alignment int    // zero for free regions
	TypeName  string // "-" for raw allocations, empty for free regions
}

// Size returns the length of the region in bytes.
func (r Region) Size() int {
	return int(r.End - r.Start)
}

// Regions returns the arena layout as alternating free and used runs in
// address order. It does not modify the pool.
func (p *Pool) Regions() []Region {
	if p.arena.done {
		return nil
	}
	entries := p.table.entries
	out := make([]Region, 0, 2*len(entries)+1)

	first := newWalk(entries)
	cur := Addr(0)
	for w := first; w.valid(); w.next() {
		if !w.equal(first) {
			cur = w.previous().end()
		}
		e := w.current()
		if e.addr > cur {
			out = append(out, Region{Start: cur, End: e.addr})
		}
		out = append(out, Region{
			Start:     e.addr,
			End:       e.end(),
			Used:      true,
			Alignment: int(e.alignment),
			TypeName:  e.typeName(),
		})
		cur = e.end()
	}
	if end := Addr(p.arena.size); cur < end {
		out = append(out, Region{Start: cur, End: end})
	}
	return out
}

// HeapDump writes a region-by-region table of the arena to w.
func (p *Pool) HeapDump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%18s  %18s  %4s  %14s  %6s  %s\n",
		"REGION START", "REGION END", "S", "SIZE", "ALIGN", "TYPENAME")
	for _, r := range p.Regions() {
		if !r.Used {
			fmt.Fprintf(bw, "0x%016x  0x%016x  Free  %12d B\n",
				uintptr(r.Start), uintptr(r.End), r.Size())
			continue
		}
		fmt.Fprintf(bw, "0x%016x  0x%016x  Used  %12d B  %4d B  %s\n",
			uintptr(r.Start), uintptr(r.End), r.Size(), r.Alignment, r.TypeName)
	}
	return bw.Flush()
}
