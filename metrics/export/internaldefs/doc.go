// Package internaldefs holds the metric families and bucket boundaries shared
// by the exporters, so Prometheus and OTel output always agree on names.
package internaldefs
