package internaldefs

import (
	goNexus "github.com/MrEthical07/goNexus"
)

// Series binds one engine counter to a label value of its family. Label is
// empty for families without a label.
type Series struct {
	ID    goNexus.MetricID
	Label string
}

// Family is one exported counter, optionally split by a single label.
type Family struct {
	Name   string
	Help   string
	Label  string
	Series []Series
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goNexus.MetricID
	Name string
	Help string
}

// Counters lists every exported counter family in output order.
var Counters = []Family{
	{
		Name:  "nexus_logins_total",
		Help:  "Login attempts by outcome.",
		Label: "outcome",
		Series: []Series{
			{ID: goNexus.MetricLoginSuccess, Label: "success"},
			{ID: goNexus.MetricLoginFailure, Label: "failure"},
			{ID: goNexus.MetricLoginCancelled, Label: "cancelled"},
		},
	},
	{
		Name:   "nexus_logouts_total",
		Help:   "Logouts that cleared a session.",
		Series: []Series{{ID: goNexus.MetricLogout}},
	},
	{
		Name:  "nexus_session_restores_total",
		Help:  "Startup session restores by result.",
		Label: "status",
		Series: []Series{
			{ID: goNexus.MetricRestoreHit, Label: "hit"},
			{ID: goNexus.MetricRestoreMiss, Label: "miss"},
			{ID: goNexus.MetricRestoreCorrupt, Label: "corrupt"},
			{ID: goNexus.MetricRestoreUnavailable, Label: "unavailable"},
		},
	},
	{
		Name:  "nexus_guard_decisions_total",
		Help:  "Guarded navigations by outcome.",
		Label: "decision",
		Series: []Series{
			{ID: goNexus.MetricGuardPermit, Label: "permit"},
			{ID: goNexus.MetricGuardRedirectLogin, Label: "redirect_login"},
			{ID: goNexus.MetricGuardRedirectUnauthorized, Label: "redirect_unauthorized"},
			{ID: goNexus.MetricGuardLoading, Label: "loading"},
		},
	},
	{
		Name:   "nexus_inventory_writes_total",
		Help:   "Inventory create, update and delete operations.",
		Series: []Series{{ID: goNexus.MetricInventoryWrite}},
	},
}

// Histograms lists every exported histogram.
var Histograms = []HistogramDef{
	{ID: goNexus.MetricLoginLatency, Name: "nexus_login_latency_seconds", Help: "Time from login request to committed session."},
}

// HistogramBounds are the "le" label values of the histogram buckets.
var HistogramBounds = [8]string{"0.05", "0.1", "0.25", "0.5", "1", "2.5", "5", "+Inf"}

// Cumulative pads or truncates raw per-bucket counts to the exported bucket
// count and converts them to running totals.
func Cumulative(raw []uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := range out {
		if i < len(raw) {
			running += raw[i]
		}
		out[i] = running
	}
	return out
}
