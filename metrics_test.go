package fixedpool

import (
	"testing"
)

func TestPoolMetrics(t *testing.T) {
	p := newTestPool(t, 1024, nil)

	// Test initial state
	if p.SizeInUse() != 0 {
		t.Errorf("Initial SizeInUse = %d, want 0", p.SizeInUse())
	}
	if p.NumEntries() != 0 {
		t.Errorf("Initial NumEntries = %d, want 0", p.NumEntries())
	}
	if p.Capacity() != 1024 {
		t.Errorf("Capacity = %d, want 1024", p.Capacity())
	}
	if p.Utilization() != 0 {
		t.Errorf("Initial Utilization = %f, want 0", p.Utilization())
	}

	a, _ := p.Allocate(100, 1)
	p.Allocate(200, 1)
	p.Allocate(50, 8)
	p.Deallocate(a)

	if p.SizeInUse() != 250 {
		t.Errorf("SizeInUse = %d, want 250", p.SizeInUse())
	}
	if p.NumEntries() != 2 {
		t.Errorf("NumEntries = %d, want 2", p.NumEntries())
	}

	utilization := p.Utilization()
	if utilization <= 0 || utilization > 1 {
		t.Errorf("Utilization = %f, want 0 < x <= 1", utilization)
	}

	// [0,100) free, [100,300) used, [300,304) padding, [304,354) used, rest free
	metrics := p.Metrics()
	if metrics.SizeInUse != p.SizeInUse() {
		t.Errorf("Metrics.SizeInUse = %d, want %d", metrics.SizeInUse, p.SizeInUse())
	}
	if metrics.Capacity != p.Capacity() {
		t.Errorf("Metrics.Capacity = %d, want %d", metrics.Capacity, p.Capacity())
	}
	if metrics.NumEntries != 2 {
		t.Errorf("Metrics.NumEntries = %d, want 2", metrics.NumEntries)
	}
	if metrics.FreeRegions != 3 {
		t.Errorf("Metrics.FreeRegions = %d, want 3", metrics.FreeRegions)
	}
	if metrics.LargestFree != 1024-354 {
		t.Errorf("Metrics.LargestFree = %d, want %d", metrics.LargestFree, 1024-354)
	}
	if metrics.Utilization != p.Utilization() {
		t.Errorf("Metrics.Utilization = %f, want %f", metrics.Utilization, p.Utilization())
	}
}

func TestPoolMetricsAfterRelease(t *testing.T) {
	p, err := New(1024, nil)
	if err != nil {
		t.Fatal(err)
	}
	p.Allocate(100, 1)

	if err := p.Release(); err != nil {
		t.Fatal(err)
	}

	m := p.Metrics()
	if m != (PoolMetrics{}) {
		t.Errorf("Metrics after Release = %+v, want zero", m)
	}
	if p.Utilization() != 0 {
		t.Errorf("Utilization after Release = %f, want 0", p.Utilization())
	}
}

func TestUtilizationEdgeCases(t *testing.T) {
	// Zero capacity
	p := newTestPool(t, 0, nil)
	if p.Utilization() != 0 {
		t.Errorf("Zero-size pool Utilization = %f, want 0", p.Utilization())
	}

	// Full pool
	p2 := newTestPool(t, 100, nil)
	p2.Allocate(100, 1)
	if util := p2.Utilization(); util != 1 {
		t.Errorf("Full pool Utilization = %f, want 1.0", util)
	}
	if m := p2.Metrics(); m.FreeRegions != 0 || m.LargestFree != 0 {
		t.Errorf("Full pool Metrics = %+v, want no free regions", m)
	}
}

func BenchmarkMetrics(b *testing.B) {
	p := newTestPool(b, 1024*1024, nil)
	// Pre-allocate some data
	for i := 0; i < 100; i++ {
		a, _ := p.Allocate(1000, 8)
		if i%3 == 0 {
			p.Deallocate(a)
		}
	}

	b.Run("SizeInUse", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			p.SizeInUse()
		}
	})

	b.Run("Utilization", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			p.Utilization()
		}
	})

	b.Run("Metrics", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			p.Metrics()
		}
	})
}
