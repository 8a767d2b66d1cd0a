package otel

import (
	"context"
	"sync"
	"testing"

	goNexus "github.com/MrEthical07/goNexus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goNexus.MetricsSnapshot
	dropped  uint64
	active   bool
}

func (f *fakeSource) MetricsSnapshot() goNexus.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goNexus.MetricsSnapshot{
		Counters:   make(map[goNexus.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[goNexus.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		next := make([]uint64, len(buckets))
		copy(next, buckets)
		out.Histograms[k] = next
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func (f *fakeSource) SessionActive() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.active
}

func newMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

// findInt64 returns the data point of name whose attributes contain attr, or
// the first data point when attr is empty.
func findInt64(rm metricdata.ResourceMetrics, name string, attr ...attribute.KeyValue) (int64, bool) {
	match := func(set attribute.Set) bool {
		for _, kv := range attr {
			v, ok := set.Value(kv.Key)
			if !ok || v.Emit() != kv.Value.Emit() {
				return false
			}
		}
		return true
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			var points []metricdata.DataPoint[int64]
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				points = data.DataPoints
			case metricdata.Gauge[int64]:
				points = data.DataPoints
			}
			for _, p := range points {
				if match(p.Attributes) {
					return p.Value, true
				}
			}
		}
	}
	return 0, false
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader, provider := newMeter()
	meter := provider.Meter("nexus-test")

	src := &fakeSource{
		snapshot: goNexus.MetricsSnapshot{
			Counters: map[goNexus.MetricID]uint64{
				goNexus.MetricLoginSuccess: 3,
			},
			Histograms: map[goNexus.MetricID][]uint64{
				goNexus.MetricLoginLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
		active:  true,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	checks := []struct {
		name string
		attr []attribute.KeyValue
		want int64
	}{
		{"nexus_logins_total", []attribute.KeyValue{attribute.String("outcome", "success")}, 3},
		{"nexus_logins_total", []attribute.KeyValue{attribute.String("outcome", "failure")}, 0},
		{"nexus_logouts_total", nil, 0},
		{"nexus_audit_dropped_total", nil, 1},
		{"nexus_session_active", nil, 1},
		{"nexus_login_latency_seconds_bucket", []attribute.KeyValue{attribute.String("le", "0.05")}, 1},
		{"nexus_login_latency_seconds_bucket", []attribute.KeyValue{attribute.String("le", "+Inf")}, 8},
		{"nexus_login_latency_seconds_count", nil, 8},
	}
	for _, c := range checks {
		got, ok := findInt64(rm, c.name, c.attr...)
		if !ok {
			t.Fatalf("metric %s %v not collected", c.name, c.attr)
		}
		if got != c.want {
			t.Fatalf("metric %s %v = %d, want %d", c.name, c.attr, got, c.want)
		}
	}
}

func TestExporterRejectsNilInputs(t *testing.T) {
	_, provider := newMeter()
	meter := provider.Meter("nexus-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader, provider := newMeter()
	meter := provider.Meter("nexus-test")

	src := &fakeSource{
		snapshot: goNexus.MetricsSnapshot{
			Counters: map[goNexus.MetricID]uint64{
				goNexus.MetricGuardPermit: 1,
			},
			Histograms: map[goNexus.MetricID][]uint64{
				goNexus.MetricLoginLatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goNexus.MetricGuardPermit] = v
			src.active = v%2 == 0
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
