package shell

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/pavanmanishd/fixedpool"
)

type Result interface {
	Print(w io.Writer)
	IsExit() bool
}

type ErrorResult struct {
	Err string
}

func (e ErrorResult) Print(w io.Writer) {
	fmt.Fprintln(w, "ERROR")
	fmt.Fprintln(w, e.Err)
}

func (e ErrorResult) IsExit() bool { return false }

type ExitResult struct{}

func (ExitResult) Print(io.Writer) {}

func (ExitResult) IsExit() bool { return true }

type OKResult struct{}

func (OKResult) Print(w io.Writer) {
	fmt.Fprintln(w, "OK")
}

func (OKResult) IsExit() bool { return false }

// AddrResult reports the address of a new allocation.
type AddrResult struct {
	Addr fixedpool.Addr
}

func (a AddrResult) Print(w io.Writer) {
	fmt.Fprintln(w, "OK")
	fmt.Fprintf(w, "addr=0x%x\n", uintptr(a.Addr))
}

func (AddrResult) IsExit() bool { return false }

type ValueResult struct {
	Value string
}

func (v ValueResult) Print(w io.Writer) {
	fmt.Fprintln(w, v.Value)
}

func (ValueResult) IsExit() bool { return false }

type DumpResult struct {
	Pool *fixedpool.SafePool
}

func (d DumpResult) Print(w io.Writer) {
	if err := d.Pool.HeapDump(w); err != nil {
		ErrorResult{Err: err.Error()}.Print(w)
	}
}

func (DumpResult) IsExit() bool { return false }

type StatsResult struct {
	Metrics fixedpool.PoolMetrics
}

func (s StatsResult) Print(w io.Writer) {
	m := s.Metrics
	fmt.Fprintf(w, "capacity=%s\n", humanize.IBytes(uint64(m.Capacity)))
	fmt.Fprintf(w, "in_use=%s\n", humanize.IBytes(uint64(m.SizeInUse)))
	fmt.Fprintf(w, "entries=%s\n", humanize.Comma(int64(m.NumEntries)))
	fmt.Fprintf(w, "free_regions=%d\n", m.FreeRegions)
	fmt.Fprintf(w, "largest_free=%s\n", humanize.IBytes(uint64(m.LargestFree)))
	fmt.Fprintf(w, "utilization=%.2f%%\n", m.Utilization*100)
}

func (StatsResult) IsExit() bool { return false }

type HelpResult struct{}

func (HelpResult) Print(w io.Writer) {
	fmt.Fprintln(w, "poolctl commands:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Raw memory:")
	fmt.Fprintln(w, "  alloc <size> [align]        Reserve size bytes, align defaults to 1")
	fmt.Fprintln(w, "  free <addr> [size]          Release the region at addr")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Typed objects (types: i64, f64, point):")
	fmt.Fprintln(w, "  put <type> <value>...       Store a value, prints its address")
	fmt.Fprintln(w, "  get <type> <addr>           Print the value at addr")
	fmt.Fprintln(w, "  del <type> <addr>           Destroy and free the value at addr")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Introspection:")
	fmt.Fprintln(w, "  dump                        Print the arena layout")
	fmt.Fprintln(w, "  stats                       Print pool statistics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  help                        Show this help message")
	fmt.Fprintln(w, "  quit                        Exit the shell")
}

func (HelpResult) IsExit() bool { return false }
