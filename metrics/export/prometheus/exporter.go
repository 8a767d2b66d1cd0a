package prometheus

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	goNexus "github.com/MrEthical07/goNexus"
	"github.com/MrEthical07/goNexus/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() goNexus.MetricsSnapshot
	AuditDropped() uint64
	SessionActive() bool
}

// PrometheusExporter renders engine metrics in Prometheus text exposition format.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter creates a Prometheus exporter that reads from the given [goNexus.Engine].
func NewPrometheusExporter(engine *goNexus.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource creates a Prometheus exporter from a
// custom metrics source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = io.WriteString(w, p.Render())
	})
}

// Render returns the current metrics. It is empty when the engine collects
// nothing.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	for _, f := range internaldefs.Counters {
		header(&b, f.Name, f.Help, "counter")
		for _, s := range f.Series {
			labels := ""
			if f.Label != "" {
				labels = fmt.Sprintf("%s=%q", f.Label, s.Label)
			}
			sample(&b, f.Name, labels, snapshot.Counters[s.ID])
		}
	}

	for _, h := range internaldefs.Histograms {
		header(&b, h.Name, h.Help, "histogram")
		cumulative := internaldefs.Cumulative(snapshot.Histograms[h.ID])
		for i, le := range internaldefs.HistogramBounds {
			sample(&b, h.Name+"_bucket", fmt.Sprintf("le=%q", le), cumulative[i])
		}
		sample(&b, h.Name+"_count", "", cumulative[len(cumulative)-1])
		// The engine keeps bucket counts only.
		sample(&b, h.Name+"_sum", "", 0)
	}

	header(&b, "nexus_audit_dropped_total", "Audit events dropped while the dispatcher queue was full.", "counter")
	sample(&b, "nexus_audit_dropped_total", "", dropped)

	var active uint64
	if p.source.SessionActive() {
		active = 1
	}
	header(&b, "nexus_session_active", "1 while a session is signed in.", "gauge")
	sample(&b, "nexus_session_active", "", active)

	return b.String()
}

func header(b *strings.Builder, name, help, kind string) {
	help = strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(help)
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func sample(b *strings.Builder, name, labels string, value uint64) {
	if labels != "" {
		fmt.Fprintf(b, "%s{%s} %d\n", name, labels, value)
		return
	}
	fmt.Fprintf(b, "%s %d\n", name, value)
}
