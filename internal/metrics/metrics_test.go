package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCounterConcurrentIncrement(t *testing.T) {
	var c Counter
	const goroutines = 16
	const perG = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	if got := c.Load(); got != goroutines*perG {
		t.Fatalf("expected %d, got %d", goroutines*perG, got)
	}
}

func TestHistogramBuckets(t *testing.T) {
	var h Histogram
	for _, d := range []time.Duration{
		10 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		800 * time.Millisecond,
		2 * time.Second,
		5 * time.Second,
		time.Minute,
	} {
		h.Observe(d)
	}

	want := []uint64{2, 1, 1, 1, 1, 1, 1, 1}
	got := h.Buckets()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket %d = %d, want %d (all %v)", i, got[i], want[i], got)
		}
	}
}
