package fixedpool

import "github.com/prometheus/client_golang/prometheus"

// Collector exports SafePool statistics as prometheus gauges.
type Collector struct {
	pool *SafePool

	bytesInUse  *prometheus.Desc
	capacity    *prometheus.Desc
	entries     *prometheus.Desc
	freeRegions *prometheus.Desc
	largestFree *prometheus.Desc
	utilization *prometheus.Desc
}

// NewCollector returns a collector for pool. Metric names are prefixed with
// namespace and carry constLabels.
func NewCollector(pool *SafePool, namespace string, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, nil, constLabels)
	}
	return &Collector{
		pool:        pool,
		bytesInUse:  desc("bytes_in_use", "Bytes covered by live allocations"),
		capacity:    desc("capacity_bytes", "Size of the pool arena in bytes"),
		entries:     desc("entries", "Number of live allocations"),
		freeRegions: desc("free_regions", "Number of free gaps in the arena"),
		largestFree: desc("largest_free_bytes", "Size of the largest free gap in bytes"),
		utilization: desc("utilization_ratio", "Ratio of bytes in use to capacity"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesInUse
	ch <- c.capacity
	ch <- c.entries
	ch <- c.freeRegions
	ch <- c.largestFree
	ch <- c.utilization
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.pool.Metrics()
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(m.SizeInUse))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(m.NumEntries))
	ch <- prometheus.MustNewConstMetric(c.freeRegions, prometheus.GaugeValue, float64(m.FreeRegions))
	ch <- prometheus.MustNewConstMetric(c.largestFree, prometheus.GaugeValue, float64(m.LargestFree))
	ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, m.Utilization)
}
