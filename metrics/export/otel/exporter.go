package otel

import (
	"context"
	"errors"
	"fmt"

	goNexus "github.com/MrEthical07/goNexus"
	"github.com/MrEthical07/goNexus/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goNexus.MetricsSnapshot
	AuditDropped() uint64
	SessionActive() bool
}

type counterFamily struct {
	def        internaldefs.Family
	instrument metric.Int64ObservableCounter
	attrs      []metric.ObserveOption
}

type histogram struct {
	def     internaldefs.HistogramDef
	buckets metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// OTelExporter publishes engine metrics through an OpenTelemetry meter.
// Labelled counter families become one instrument with a string attribute per
// series; histogram buckets become a gauge carrying an "le" attribute.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	families     []counterFamily
	histograms   []histogram
	auditDropped metric.Int64ObservableCounter
	active       metric.Int64ObservableGauge
	bounds       [8]metric.ObserveOption
}

// NewOTelExporter registers the engine's instruments on meter.
func NewOTelExporter(meter metric.Meter, engine *goNexus.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource registers instruments reading from source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{source: source}
	for i, le := range internaldefs.HistogramBounds {
		e.bounds[i] = metric.WithAttributes(attribute.String("le", le))
	}

	var observables []metric.Observable
	for _, def := range internaldefs.Counters {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		fam := counterFamily{def: def, instrument: ins, attrs: make([]metric.ObserveOption, len(def.Series))}
		for i, s := range def.Series {
			if def.Label != "" {
				fam.attrs[i] = metric.WithAttributes(attribute.String(def.Label, s.Label))
			}
		}
		e.families = append(e.families, fam)
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.Histograms {
		buckets, err := meter.Int64ObservableGauge(def.Name+"_bucket", metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create histogram buckets %s: %w", def.Name, err)
		}
		count, err := meter.Int64ObservableGauge(def.Name+"_count", metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return nil, fmt.Errorf("create histogram count %s: %w", def.Name, err)
		}
		e.histograms = append(e.histograms, histogram{def: def, buckets: buckets, count: count})
		observables = append(observables, buckets, count)
	}

	var err error
	e.auditDropped, err = meter.Int64ObservableCounter(
		"nexus_audit_dropped_total",
		metric.WithDescription("Audit events dropped while the dispatcher queue was full."),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	e.active, err = meter.Int64ObservableGauge(
		"nexus_session_active",
		metric.WithDescription("1 while a session is signed in."),
	)
	if err != nil {
		return nil, fmt.Errorf("create session active gauge: %w", err)
	}
	observables = append(observables, e.auditDropped, e.active)

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, fam := range e.families {
		for i, s := range fam.def.Series {
			var opts []metric.ObserveOption
			if fam.attrs[i] != nil {
				opts = append(opts, fam.attrs[i])
			}
			o.ObserveInt64(fam.instrument, int64(snapshot.Counters[s.ID]), opts...)
		}
	}
	for _, h := range e.histograms {
		cumulative := internaldefs.Cumulative(snapshot.Histograms[h.def.ID])
		for i, v := range cumulative {
			o.ObserveInt64(h.buckets, int64(v), e.bounds[i])
		}
		o.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
	}
	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))

	var active int64
	if e.source.SessionActive() {
		active = 1
	}
	o.ObserveInt64(e.active, active)
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
