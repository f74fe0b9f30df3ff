package fixedpool

// SizeInUse returns the number of bytes covered by live allocations.
// Padding skipped for alignment is not counted.
func (p *Pool) SizeInUse() int {
	if p.arena.done {
		return 0
	}
	sum := 0
	for _, e := range p.table.entries {
		sum += int(e.extent)
	}
	return sum
}

// NumEntries returns the number of live allocations.
func (p *Pool) NumEntries() int {
	return p.table.len()
}

// Capacity returns the arena size in bytes, or 0 once released.
func (p *Pool) Capacity() int {
	if p.arena.done {
		return 0
	}
	return p.arena.size
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 if the pool has no capacity.
func (p *Pool) Utilization() float64 {
	capacity := p.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(p.SizeInUse()) / float64(capacity)
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool) Metrics() PoolMetrics {
	m := PoolMetrics{
		SizeInUse:   p.SizeInUse(),
		Capacity:    p.Capacity(),
		NumEntries:  p.NumEntries(),
		Utilization: p.Utilization(),
	}
	for _, r := range p.Regions() {
		if r.Used {
			continue
		}
		m.FreeRegions++
		m.LargestFree = max(m.LargestFree, r.Size())
	}
	return m
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	SizeInUse   int     // Bytes covered by live allocations
	Capacity    int     // Arena size in bytes
	NumEntries  int     // Live allocations
	FreeRegions int     // Number of free gaps
	LargestFree int     // Largest free gap in bytes
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
