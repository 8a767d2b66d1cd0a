// Package prometheus renders engine metrics in the Prometheus text exposition format.
//
// Login outcomes, restore results and guard decisions are each one labelled
// family (nexus_logins_total{outcome=...} and so on). The login latency is the
// nexus_login_latency_seconds histogram.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
