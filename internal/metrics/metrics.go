package metrics

import (
	"sync/atomic"
	"time"
)

const (
	// BucketCount is the number of histogram buckets, the last being +Inf.
	BucketCount   = 8
	cacheLineSize = 64
)

// BucketBoundsMillis are the inclusive upper bounds of the finite buckets.
var BucketBoundsMillis = [BucketCount - 1]int64{50, 100, 250, 500, 1000, 2500, 5000}

// Counter is a monotonically increasing counter padded to its own cache line.
type Counter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Histogram counts observations per latency bucket (non-cumulative).
type Histogram struct {
	buckets [BucketCount]uint64
}

func (h *Histogram) Observe(d time.Duration) {
	atomic.AddUint64(&h.buckets[BucketIndex(d)], 1)
}

// Buckets returns a copy of the per-bucket counts.
func (h *Histogram) Buckets() []uint64 {
	out := make([]uint64, BucketCount)
	for i := range out {
		out[i] = atomic.LoadUint64(&h.buckets[i])
	}
	return out
}

// BucketIndex maps d to its bucket.
func BucketIndex(d time.Duration) int {
	ms := d.Milliseconds()
	for i, bound := range BucketBoundsMillis {
		if ms <= bound {
			return i
		}
	}
	return BucketCount - 1
}
